package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/conduit/internal/apperror"
	"github.com/sakif/conduit/internal/model"
	"github.com/sakif/conduit/internal/repository"
)

// DefaultListLimit is the page size when a listing request does not
// supply one.
const DefaultListLimit = 20

// ArticleService handles articles, favoriting, and comments.
type ArticleService struct {
	articles repository.ArticleRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewArticleService(
	articles repository.ArticleRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ArticleService {
	return &ArticleService{
		articles: articles,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// ListArticlesParams filters and paginates the public article listing.
// Empty strings disable a filter; Limit <= 0 selects the default page
// size.
type ListArticlesParams struct {
	Tag         string
	Author      string // author username
	FavoritedBy string // username whose favorites to list
	Limit       int
	Offset      int
}

// CreateArticleParams carries the fields of a new article.
type CreateArticleParams struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// UpdateArticleParams are the optional fields of an article update. Nil
// means "leave unchanged". The slug never changes.
type UpdateArticleParams struct {
	Title       *string
	Description *string
	Body        *string
	TagList     []string
}

// List returns articles newest-first, filtered and paginated, each
// projected relative to the viewer. viewerID may be empty for anonymous
// listings. A FavoritedBy username that matches no user yields an empty
// list; an Author username that matches no user disables that filter.
func (s *ArticleService) List(ctx context.Context, viewerID string, params ListArticlesParams) (*model.ArticleList, error) {
	opts := repository.ArticleListOptions{
		Tag:    params.Tag,
		Limit:  normalizeLimit(params.Limit),
		Offset: normalizeOffset(params.Offset),
	}

	if params.Author != "" {
		author, err := s.users.GetUserByUsername(ctx, params.Author)
		switch {
		case err == nil:
			opts.AuthorID = author.ID
		case !errors.Is(err, apperror.ErrNotFound):
			return nil, err
		}
	}

	if params.FavoritedBy != "" {
		favoriter, err := s.users.GetUserByUsername(ctx, params.FavoritedBy)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return &model.ArticleList{Articles: []*model.ArticleView{}}, nil
			}
			return nil, err
		}
		opts.FavoritedByID = favoriter.ID
	}

	return s.list(ctx, viewerID, opts)
}

// Feed returns articles authored by users the viewer follows, newest
// first.
func (s *ArticleService) Feed(ctx context.Context, viewerID string, limit, offset int) (*model.ArticleList, error) {
	if _, err := s.users.GetUserByID(ctx, viewerID); err != nil {
		return nil, err
	}

	return s.list(ctx, viewerID, repository.ArticleListOptions{
		FollowedByID: viewerID,
		Limit:        normalizeLimit(limit),
		Offset:       normalizeOffset(offset),
	})
}

// Create persists a new article owned by the viewer. The slug is derived
// from the title plus a random suffix at this point and never changes
// afterwards.
func (s *ArticleService) Create(ctx context.Context, viewerID string, params CreateArticleParams) (*model.ArticleView, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "can't be blank")
	}

	article := &model.Article{
		Slug:        model.NewSlug(title),
		Title:       title,
		Description: params.Description,
		Body:        params.Body,
		TagList:     params.TagList,
		AuthorID:    viewer.ID,
	}
	if err := s.articles.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		slog.String("slug", article.Slug),
		slog.String("authorID", viewer.ID),
	)

	return s.project(ctx, viewer, article)
}

// GetBySlug returns a single article projected relative to the viewer.
// viewerID may be empty; anonymous viewers see favorited=false.
func (s *ArticleService) GetBySlug(ctx context.Context, viewerID, slug string) (*model.ArticleView, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.projectFor(ctx, viewerID, article)
}

// Update applies a partial update to an article. Only the author may
// update; anyone else receives the same not-found error as a missing
// slug.
func (s *ArticleService) Update(ctx context.Context, viewerID, slug string, params UpdateArticleParams) (*model.ArticleView, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != viewer.ID {
		return nil, apperror.NotFound("article")
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "can't be blank")
		}
		article.Title = title
	}
	if params.Description != nil {
		article.Description = *params.Description
	}
	if params.Body != nil {
		article.Body = *params.Body
	}
	if params.TagList != nil {
		article.TagList = params.TagList
	}

	if err := s.articles.UpdateArticle(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info("article updated", slog.String("slug", article.Slug))

	return s.project(ctx, viewer, article)
}

// Delete removes an article; its comments and favorites rows go with it.
// Only the author may delete, indistinguishable from a missing slug for
// everyone else.
func (s *ArticleService) Delete(ctx context.Context, viewerID, slug string) error {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return err
	}

	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article.AuthorID != viewer.ID {
		return apperror.NotFound("article")
	}

	if err := s.articles.DeleteArticle(ctx, article.ID); err != nil {
		return err
	}

	s.logger.Info("article deleted", slog.String("slug", slug))
	return nil
}

// Favorite adds the article to the viewer's favorites set (a no-op when
// already favorited), recomputes the favorites count, and returns the
// updated article.
func (s *ArticleService) Favorite(ctx context.Context, viewerID, slug string) (*model.ArticleView, error) {
	return s.setFavorite(ctx, viewerID, slug, true)
}

// Unfavorite removes the article from the viewer's favorites set (a
// no-op when not favorited), recomputes the favorites count, and returns
// the updated article.
func (s *ArticleService) Unfavorite(ctx context.Context, viewerID, slug string) (*model.ArticleView, error) {
	return s.setFavorite(ctx, viewerID, slug, false)
}

func (s *ArticleService) setFavorite(ctx context.Context, viewerID, slug string, favorite bool) (*model.ArticleView, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if favorite {
		err = s.articles.Favorite(ctx, viewer.ID, article.ID)
	} else {
		err = s.articles.Unfavorite(ctx, viewer.ID, article.ID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.articles.RefreshFavoritesCount(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.FavoritesCount = count

	return s.project(ctx, viewer, article)
}

// AddComment attaches a new comment by the viewer to the article.
func (s *ArticleService) AddComment(ctx context.Context, viewerID, slug, body string) (*model.CommentView, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(body) == "" {
		return nil, apperror.ValidationFailed("body", "can't be blank")
	}

	comment := &model.Comment{
		ArticleID: article.ID,
		AuthorID:  viewer.ID,
		Body:      body,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		slog.String("commentID", comment.ID),
		slog.String("slug", slug),
	)

	return s.projectComment(ctx, viewerID, comment)
}

// Comments returns an article's comments newest-first, with authors
// projected relative to the viewer. viewerID may be empty.
func (s *ArticleService) Comments(ctx context.Context, viewerID, slug string) ([]*model.CommentView, error) {
	article, err := s.articles.GetArticleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListCommentsByArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	views := make([]*model.CommentView, 0, len(comments))
	for _, comment := range comments {
		view, err := s.projectComment(ctx, viewerID, comment)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// DeleteComment removes a comment from an article. Only the comment's
// author may delete it; anyone else receives the same not-found error as
// a missing comment.
func (s *ArticleService) DeleteComment(ctx context.Context, viewerID, slug, id string) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.articles.GetArticleBySlug(ctx, slug); err != nil {
		return err
	}

	if comment.AuthorID != viewerID {
		return apperror.NotFound("comment")
	}

	if err := s.comments.DeleteComment(ctx, comment.ID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		slog.String("commentID", comment.ID),
		slog.String("slug", slug),
	)
	return nil
}

// list runs a repository listing and projects every article for the
// viewer.
func (s *ArticleService) list(ctx context.Context, viewerID string, opts repository.ArticleListOptions) (*model.ArticleList, error) {
	articles, total, err := s.articles.ListArticles(ctx, opts)
	if err != nil {
		return nil, err
	}

	viewer := s.optionalViewer(ctx, viewerID)

	views := make([]*model.ArticleView, 0, len(articles))
	for _, article := range articles {
		view, err := s.project(ctx, viewer, article)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &model.ArticleList{Articles: views, ArticlesCount: total}, nil
}

// project shapes an article for the given viewer (nil for anonymous):
// favorited reflects the viewer's favorites set, and the embedded author
// profile reflects the viewer's following set.
func (s *ArticleService) project(ctx context.Context, viewer *model.User, article *model.Article) (*model.ArticleView, error) {
	author, err := s.users.GetUserByID(ctx, article.AuthorID)
	if err != nil {
		return nil, err
	}

	favorited := false
	following := false
	if viewer != nil {
		if favorited, err = s.articles.IsFavorite(ctx, viewer.ID, article.ID); err != nil {
			return nil, err
		}
		if following, err = s.users.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			return nil, err
		}
	}

	return article.View(favorited, author.ProfileJSON(following)), nil
}

func (s *ArticleService) projectFor(ctx context.Context, viewerID string, article *model.Article) (*model.ArticleView, error) {
	return s.project(ctx, s.optionalViewer(ctx, viewerID), article)
}

func (s *ArticleService) projectComment(ctx context.Context, viewerID string, comment *model.Comment) (*model.CommentView, error) {
	author, err := s.users.GetUserByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != "" {
		if following, err = s.users.IsFollowing(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}

	return comment.View(author.ProfileJSON(following)), nil
}

// optionalViewer resolves a viewer ID that may be empty or stale; both
// cases degrade to an anonymous projection.
func (s *ArticleService) optionalViewer(ctx context.Context, viewerID string) *model.User {
	if viewerID == "" {
		return nil
	}
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil
	}
	return viewer
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
