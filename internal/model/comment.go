package model

import "time"

// Comment represents a comment attached to an article.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentView is a comment with its author projected relative to a viewer.
type CommentView struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	Author    *Profile  `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View projects c into the shape seen by a viewer.
func (c *Comment) View(author *Profile) *CommentView {
	return &CommentView{
		ID:        c.ID,
		Body:      c.Body,
		Author:    author,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
