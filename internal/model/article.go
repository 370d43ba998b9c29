package model

import (
	"strings"
	"time"

	"github.com/rs/xid"
)

// Article represents a published article as stored in the database.
//
// Slug is assigned once at creation and never regenerated; it is globally
// unique. FavoritesCount is derived: it always equals the number of users
// whose favorites set contains this article.
type Article struct {
	ID             string    `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	AuthorID       string    `json:"authorId"`
	FavoritesCount int       `json:"favoritesCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ArticleView is an article projected relative to a viewer: Favorited is
// true iff the viewer's favorites set contains the article. Anonymous
// viewers always see false.
type ArticleView struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         *Profile  `json:"author"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ArticleList bundles a page of articles with the total count of articles
// matching the query, ignoring pagination.
type ArticleList struct {
	Articles      []*ArticleView `json:"articles"`
	ArticlesCount int            `json:"articlesCount"`
}

// View projects a into the shape seen by a viewer.
func (a *Article) View(favorited bool, author *Profile) *ArticleView {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return &ArticleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		Favorited:      favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         author,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// NewSlug derives a URL-safe slug from a title and appends a random xid
// suffix so slugs stay unique even when titles collide.
func NewSlug(title string) string {
	return Slugify(title) + "-" + xid.New().String()
}

// Slugify lowercases a title and maps every run of non-alphanumeric
// characters to a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
