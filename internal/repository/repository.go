// Package repository declares the persistence interfaces the services
// depend on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/conduit/internal/model"
)

// ArticleListOptions filters and paginates an article listing. ID fields
// are internal user IDs resolved by the service layer; an empty string
// disables that filter.
type ArticleListOptions struct {
	Tag           string // membership in the article's tag list
	AuthorID      string // articles written by this user
	FavoritedByID string // articles in this user's favorites set
	FollowedByID  string // articles written by users this user follows
	Limit         int
	Offset        int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Follow and Unfollow are idempotent: repeating either is a no-op.
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type ArticleRepository interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error)
	UpdateArticle(ctx context.Context, article *model.Article) error
	DeleteArticle(ctx context.Context, id string) error

	// ListArticles returns a page of articles newest-first plus the total
	// number of articles matching the options, ignoring Limit/Offset.
	ListArticles(ctx context.Context, opts ArticleListOptions) ([]*model.Article, int, error)

	// Favorite and Unfavorite are idempotent set updates; neither touches
	// the stored favorites count.
	Favorite(ctx context.Context, userID, articleID string) error
	Unfavorite(ctx context.Context, userID, articleID string) error
	IsFavorite(ctx context.Context, userID, articleID string) (bool, error)

	// RefreshFavoritesCount recomputes the article's favorites count from
	// the favorites set, persists it, and returns the new value.
	RefreshFavoritesCount(ctx context.Context, articleID string) (int, error)

	// Tags returns the distinct tags across all articles.
	Tags(ctx context.Context) ([]string, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)

	// ListCommentsByArticle returns an article's comments newest-first.
	ListCommentsByArticle(ctx context.Context, articleID string) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
