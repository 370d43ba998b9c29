package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/sakif/conduit/internal/apperror"
	"github.com/sakif/conduit/internal/auth"
	"github.com/sakif/conduit/internal/service"
)

// Resolver is the schema's root object. Every Query and Mutation field
// maps to a method here; methods only unpack arguments, resolve the
// viewer, and delegate to a service.
type Resolver struct {
	users    *service.UserService
	profiles *service.ProfileService
	articles *service.ArticleService
	tags     *service.TagService
}

// NewResolver wires the root resolver to the service layer.
func NewResolver(
	users *service.UserService,
	profiles *service.ProfileService,
	articles *service.ArticleService,
	tags *service.TagService,
) *Resolver {
	return &Resolver{
		users:    users,
		profiles: profiles,
		articles: articles,
		tags:     tags,
	}
}

// NewSchema parses the schema against the root resolver. It panics on a
// schema/resolver mismatch, which is a programming error caught by any
// test that builds the schema.
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r)
}

// resolverError strips wrapping so the transport sees the domain error
// itself, whose Extensions end up in the GraphQL error response. Errors
// from outside the domain taxonomy pass through unchanged.
func resolverError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return err
}

// viewerID returns the authenticated user's ID, or "" for anonymous
// requests. Operations that tolerate anonymous viewers use this.
func viewerID(ctx context.Context) string {
	id, _ := auth.IdentityFromContext(ctx)
	return id.UserID
}

// requireViewer returns the authenticated user's ID or an
// unauthenticated error for anonymous requests.
func requireViewer(ctx context.Context) (string, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return "", apperror.Unauthenticated()
	}
	return id.UserID, nil
}

type userInput struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
	Password *string
}

type articleInput struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

type commentInput struct {
	Body string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func pageArgs(limit, offset *int32) (int, int) {
	l, o := 0, 0
	if limit != nil {
		l = int(*limit)
	}
	if offset != nil {
		o = int(*offset)
	}
	return l, o
}

// Users lists every registered account. Exposed without projection, so
// no token and no following flag.
func (r *Resolver) Users(ctx context.Context) ([]*userResolver, error) {
	users, err := r.users.ListAll(ctx)
	if err != nil {
		return nil, resolverError(err)
	}
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, plainUser(u))
	}
	return out, nil
}

// User returns the authenticated account with a fresh token.
func (r *Resolver) User(ctx context.Context) (*userResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	u, err := r.users.Current(ctx, viewer)
	if err != nil {
		return nil, resolverError(err)
	}
	return authUser(u), nil
}

func (r *Resolver) Profile(ctx context.Context, args struct{ Username string }) (*userPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.profiles.Get(ctx, viewer, args.Username)
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{profileUser(p)}, nil
}

func (r *Resolver) Article(ctx context.Context, args struct{ Slug string }) (*articlePayloadResolver, error) {
	view, err := r.articles.GetBySlug(ctx, viewerID(ctx), args.Slug)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlePayloadResolver{&articleResolver{view}}, nil
}

func (r *Resolver) Articles(ctx context.Context, args struct {
	Limit     *int32
	Offset    *int32
	Tag       *string
	Author    *string
	Favorited *string
}) (*articlesPayloadResolver, error) {
	limit, offset := pageArgs(args.Limit, args.Offset)
	list, err := r.articles.List(ctx, viewerID(ctx), service.ListArticlesParams{
		Tag:         deref(args.Tag),
		Author:      deref(args.Author),
		FavoritedBy: deref(args.Favorited),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlesPayloadResolver{list}, nil
}

func (r *Resolver) Comments(ctx context.Context, args struct{ Slug string }) (*commentsPayloadResolver, error) {
	comments, err := r.articles.Comments(ctx, viewerID(ctx), args.Slug)
	if err != nil {
		return nil, resolverError(err)
	}
	return &commentsPayloadResolver{comments}, nil
}

func (r *Resolver) Tags(ctx context.Context) (*tagPayloadResolver, error) {
	tags, err := r.tags.List(ctx)
	if err != nil {
		return nil, resolverError(err)
	}
	return &tagPayloadResolver{tags}, nil
}

// Feed lists articles authored by users the viewer follows.
func (r *Resolver) Feed(ctx context.Context, args struct {
	Limit  *int32
	Offset *int32
}) (*articlesPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	limit, offset := pageArgs(args.Limit, args.Offset)
	list, err := r.articles.Feed(ctx, viewer, limit, offset)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlesPayloadResolver{list}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct {
	Email    string
	Password string
}) (*userPayloadResolver, error) {
	u, err := r.users.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{authUser(u)}, nil
}

func (r *Resolver) Register(ctx context.Context, args struct {
	Email    string
	Password string
	Username string
}) (*userPayloadResolver, error) {
	u, err := r.users.Register(ctx, args.Username, args.Email, args.Password)
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{authUser(u)}, nil
}

func (r *Resolver) UpdateUser(ctx context.Context, args struct{ User userInput }) (*userPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	u, err := r.users.Update(ctx, viewer, service.UpdateUserParams{
		Username: args.User.Username,
		Email:    args.User.Email,
		Bio:      args.User.Bio,
		Image:    args.User.Image,
		Password: args.User.Password,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{authUser(u)}, nil
}

func (r *Resolver) CreateArticle(ctx context.Context, args struct{ Article articleInput }) (*articlePayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	params := service.CreateArticleParams{
		Title:       deref(args.Article.Title),
		Description: deref(args.Article.Description),
		Body:        deref(args.Article.Body),
	}
	if args.Article.TagList != nil {
		params.TagList = *args.Article.TagList
	}
	view, err := r.articles.Create(ctx, viewer, params)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlePayloadResolver{&articleResolver{view}}, nil
}

func (r *Resolver) UpdateArticle(ctx context.Context, args struct {
	Slug    string
	Article articleInput
}) (*articlePayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	params := service.UpdateArticleParams{
		Title:       args.Article.Title,
		Description: args.Article.Description,
		Body:        args.Article.Body,
	}
	if args.Article.TagList != nil {
		params.TagList = *args.Article.TagList
	}
	view, err := r.articles.Update(ctx, viewer, args.Slug, params)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlePayloadResolver{&articleResolver{view}}, nil
}

func (r *Resolver) DeleteArticle(ctx context.Context, args struct{ Slug string }) (*successResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.articles.Delete(ctx, viewer, args.Slug); err != nil {
		return nil, resolverError(err)
	}
	return &successResolver{"article removed"}, nil
}

func (r *Resolver) CreateComment(ctx context.Context, args struct {
	Slug    string
	Comment commentInput
}) (*commentPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	view, err := r.articles.AddComment(ctx, viewer, args.Slug, args.Comment.Body)
	if err != nil {
		return nil, resolverError(err)
	}
	return &commentPayloadResolver{&commentResolver{view}}, nil
}

func (r *Resolver) DeleteComment(ctx context.Context, args struct {
	Slug string
	ID   string
}) (*successResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.articles.DeleteComment(ctx, viewer, args.Slug, args.ID); err != nil {
		return nil, resolverError(err)
	}
	return &successResolver{"comment removed"}, nil
}

func (r *Resolver) FollowUser(ctx context.Context, args struct{ Username string }) (*userPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.profiles.Follow(ctx, viewer, args.Username)
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{profileUser(p)}, nil
}

func (r *Resolver) UnFollowUser(ctx context.Context, args struct{ Username string }) (*userPayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.profiles.Unfollow(ctx, viewer, args.Username)
	if err != nil {
		return nil, resolverError(err)
	}
	return &userPayloadResolver{profileUser(p)}, nil
}

func (r *Resolver) FavoriteArticle(ctx context.Context, args struct{ Slug string }) (*articlePayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	view, err := r.articles.Favorite(ctx, viewer, args.Slug)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlePayloadResolver{&articleResolver{view}}, nil
}

func (r *Resolver) UnFavoriteArticle(ctx context.Context, args struct{ Slug string }) (*articlePayloadResolver, error) {
	viewer, err := requireViewer(ctx)
	if err != nil {
		return nil, err
	}
	view, err := r.articles.Unfavorite(ctx, viewer, args.Slug)
	if err != nil {
		return nil, resolverError(err)
	}
	return &articlePayloadResolver{&articleResolver{view}}, nil
}
