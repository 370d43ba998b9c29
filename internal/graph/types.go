package graph

import (
	"time"

	"github.com/sakif/conduit/internal/model"
)

// userResolver backs the User type. The same type serves three shapes:
// the authenticated user (token set, following unset), a profile
// (following set, email and token unset), and a raw account listing
// (email set, token and following unset).
type userResolver struct {
	username  string
	email     *string
	bio       string
	image     string
	token     *string
	following *bool
}

func authUser(u *model.AuthUser) *userResolver {
	return &userResolver{
		username: u.Username,
		email:    &u.Email,
		bio:      u.Bio,
		image:    u.Image,
		token:    &u.Token,
	}
}

func profileUser(p *model.Profile) *userResolver {
	return &userResolver{
		username:  p.Username,
		bio:       p.Bio,
		image:     p.Image,
		following: &p.Following,
	}
}

func plainUser(u *model.User) *userResolver {
	return &userResolver{
		username: u.Username,
		email:    &u.Email,
		bio:      u.Bio,
		image:    u.Image,
	}
}

func (r *userResolver) Username() string { return r.username }
func (r *userResolver) Email() *string { return r.email }
func (r *userResolver) Bio() string { return r.bio }
func (r *userResolver) Image() string { return r.image }
func (r *userResolver) Token() *string { return r.token }
func (r *userResolver) Following() *bool { return r.following }

type articleResolver struct {
	view *model.ArticleView
}

func (r *articleResolver) Slug() string { return r.view.Slug }
func (r *articleResolver) Title() string { return r.view.Title }
func (r *articleResolver) Description() string { return r.view.Description }
func (r *articleResolver) Body() string { return r.view.Body }
func (r *articleResolver) Favorited() bool { return r.view.Favorited }
func (r *articleResolver) FavoritesCount() int32 { return int32(r.view.FavoritesCount) }
func (r *articleResolver) TagList() []string { return r.view.TagList }
func (r *articleResolver) Author() *userResolver { return profileUser(r.view.Author) }
func (r *articleResolver) CreatedAt() string { return formatTime(r.view.CreatedAt) }
func (r *articleResolver) UpdatedAt() string { return formatTime(r.view.UpdatedAt) }

type commentResolver struct {
	view *model.CommentView
}

func (r *commentResolver) ID() string { return r.view.ID }
func (r *commentResolver) Body() string { return r.view.Body }
func (r *commentResolver) Author() *userResolver { return profileUser(r.view.Author) }
func (r *commentResolver) CreatedAt() string { return formatTime(r.view.CreatedAt) }
func (r *commentResolver) UpdatedAt() string { return formatTime(r.view.UpdatedAt) }

type userPayloadResolver struct {
	user *userResolver
}

func (r *userPayloadResolver) User() *userResolver { return r.user }

type articlePayloadResolver struct {
	article *articleResolver
}

func (r *articlePayloadResolver) Article() *articleResolver { return r.article }

type articlesPayloadResolver struct {
	list *model.ArticleList
}

func (r *articlesPayloadResolver) Articles() []*articleResolver {
	out := make([]*articleResolver, 0, len(r.list.Articles))
	for _, view := range r.list.Articles {
		out = append(out, &articleResolver{view})
	}
	return out
}

func (r *articlesPayloadResolver) ArticlesCount() int32 { return int32(r.list.ArticlesCount) }

type commentPayloadResolver struct {
	comment *commentResolver
}

func (r *commentPayloadResolver) Comment() *commentResolver { return r.comment }

type commentsPayloadResolver struct {
	views []*model.CommentView
}

func (r *commentsPayloadResolver) Comments() []*commentResolver {
	out := make([]*commentResolver, 0, len(r.views))
	for _, view := range r.views {
		out = append(out, &commentResolver{view})
	}
	return out
}

type tagPayloadResolver struct {
	tags []string
}

func (r *tagPayloadResolver) TagList() []string { return r.tags }

type successResolver struct {
	message string
}

func (r *successResolver) Message() string { return r.message }

// Timestamps go over the wire as RFC 3339 in UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
