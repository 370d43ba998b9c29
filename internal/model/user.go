// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account as stored in the database.
//
// PasswordHash is a self-contained bcrypt string and never leaves the
// process; the wire-facing shapes below omit it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthUser is the authenticated-user payload returned by register, login,
// and current-user operations. Token is a signed JWT for the account.
type AuthUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

// Profile is a user's public profile projected relative to a viewer:
// Following is true iff the viewer follows this user. Anonymous viewers
// always see false.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// AuthJSON shapes u as an AuthUser carrying the given token.
func (u *User) AuthJSON(token string) *AuthUser {
	return &AuthUser{
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}
}

// ProfileJSON shapes u as a Profile for a viewer with the given
// following relationship.
func (u *User) ProfileJSON(following bool) *Profile {
	return &Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
