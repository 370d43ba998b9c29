package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/conduit/internal/auth"
	"github.com/sakif/conduit/internal/model"
	"github.com/sakif/conduit/internal/repository/sqlite"
)

// testEnv bundles the services under test, all backed by one in-memory
// database so cross-service effects (follows showing up in feeds,
// favorites in counts) are visible.
type testEnv struct {
	users    *UserService
	profiles *ProfileService
	articles *ArticleService
	tags     *TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		users:    NewUserService(db, tokens, passwords, logger),
		profiles: NewProfileService(db, logger),
		articles: NewArticleService(db, db, db, logger),
		tags:     NewTagService(db, logger),
	}
}

// register creates an account and returns its internal ID, resolved by
// listing accounts.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.users.Register(ctx, username, username+"@example.com", "secret123")
	require.NoError(t, err)
	users, err := e.users.ListAll(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.Username == username {
			return u.ID
		}
	}
	t.Fatalf("registered user %q not found", username)
	return ""
}

func (e *testEnv) publish(t *testing.T, authorID, title string, tags ...string) *model.ArticleView {
	t.Helper()
	view, err := e.articles.Create(context.Background(), authorID, CreateArticleParams{
		Title:       title,
		Description: "desc",
		Body:        "body",
		TagList:     tags,
	})
	require.NoError(t, err)
	return view
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authed, err := env.users.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", authed.Username)
	assert.NotEmpty(t, authed.Token)

	loggedIn, err := env.users.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", loggedIn.Username)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "alice@example.com", "nope"},
		{"unknown email", "nobody@example.com", "secret123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			// Same message for both cases so a caller cannot probe
			// which emails are registered.
			assert.Contains(t, err.Error(), "email or password")
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, err := env.users.Register(ctx, "alice", "other@example.com", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestUpdateUserPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")

	bio := "gopher"
	updated, err := env.users.Update(ctx, aliceID, UpdateUserParams{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "gopher", updated.Bio)
	assert.Equal(t, "alice", updated.Username, "unset fields stay unchanged")
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestFollowIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	env.register(t, "bob")

	for i := 0; i < 2; i++ {
		p, err := env.profiles.Follow(ctx, aliceID, "bob")
		require.NoError(t, err)
		assert.True(t, p.Following)
	}

	p, err := env.profiles.Get(ctx, aliceID, "bob")
	require.NoError(t, err)
	assert.True(t, p.Following)

	p, err = env.profiles.Unfollow(ctx, aliceID, "bob")
	require.NoError(t, err)
	assert.False(t, p.Following)
}

func TestCreateArticleSlugAndAuthor(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.register(t, "alice")

	view := env.publish(t, aliceID, "Hello World", "go")
	assert.Regexp(t, `^hello-world-`, view.Slug)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, []string{"go"}, view.TagList)
	assert.False(t, view.Favorited)
	assert.Equal(t, 0, view.FavoritesCount)
}

func TestCreateArticleRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.register(t, "alice")

	_, err := env.articles.Create(context.Background(), aliceID, CreateArticleParams{Body: "body"})
	require.Error(t, err)
}

func TestUpdateArticleKeepsSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	view := env.publish(t, aliceID, "First Title")

	newTitle := "Second Title"
	updated, err := env.articles.Update(ctx, aliceID, view.Slug, UpdateArticleParams{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Second Title", updated.Title)
	assert.Equal(t, view.Slug, updated.Slug, "slug is fixed at creation")
}

func TestUpdateArticleByNonAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Alice Writes")

	title := "Hijacked"
	_, err := env.articles.Update(ctx, bobID, view.Slug, UpdateArticleParams{Title: &title})
	require.Error(t, err)
	// Non-authors get the same answer as a missing slug.
	assert.Contains(t, err.Error(), "could not be found")

	err = env.articles.Delete(ctx, bobID, view.Slug)
	require.Error(t, err)

	// Still there for the author.
	_, err = env.articles.GetBySlug(ctx, aliceID, view.Slug)
	require.NoError(t, err)
}

func TestFavoriteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Popular Post")

	for i := 0; i < 3; i++ {
		fav, err := env.articles.Favorite(ctx, bobID, view.Slug)
		require.NoError(t, err)
		assert.True(t, fav.Favorited)
		assert.Equal(t, 1, fav.FavoritesCount)
	}

	unfav, err := env.articles.Unfavorite(ctx, bobID, view.Slug)
	require.NoError(t, err)
	assert.False(t, unfav.Favorited)
	assert.Equal(t, 0, unfav.FavoritesCount)

	// Unfavoriting again stays at zero.
	unfav, err = env.articles.Unfavorite(ctx, bobID, view.Slug)
	require.NoError(t, err)
	assert.Equal(t, 0, unfav.FavoritesCount)
}

func TestFavoritedIsPerViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Popular Post")

	_, err := env.articles.Favorite(ctx, bobID, view.Slug)
	require.NoError(t, err)

	asBob, err := env.articles.GetBySlug(ctx, bobID, view.Slug)
	require.NoError(t, err)
	assert.True(t, asBob.Favorited)

	asAlice, err := env.articles.GetBySlug(ctx, aliceID, view.Slug)
	require.NoError(t, err)
	assert.False(t, asAlice.Favorited)
	assert.Equal(t, 1, asAlice.FavoritesCount)

	anon, err := env.articles.GetBySlug(ctx, "", view.Slug)
	require.NoError(t, err)
	assert.False(t, anon.Favorited)
	assert.Equal(t, 1, anon.FavoritesCount)
}

func TestListArticlesFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")

	env.publish(t, aliceID, "Go Talk", "go", "talks")
	env.publish(t, aliceID, "Rust Talk", "rust")
	bobPost := env.publish(t, bobID, "Bob On Go", "go")

	_, err := env.articles.Favorite(ctx, aliceID, bobPost.Slug)
	require.NoError(t, err)

	t.Run("by tag", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{Tag: "go"})
		require.NoError(t, err)
		assert.Equal(t, 2, list.ArticlesCount)
		for _, a := range list.Articles {
			assert.Contains(t, a.TagList, "go")
		}
	})

	t.Run("by author", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{Author: "bob"})
		require.NoError(t, err)
		require.Equal(t, 1, list.ArticlesCount)
		assert.Equal(t, "bob", list.Articles[0].Author.Username)
	})

	t.Run("unknown author filter is ignored", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{Author: "ghost"})
		require.NoError(t, err)
		assert.Equal(t, 3, list.ArticlesCount)
	})

	t.Run("by favorited", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{FavoritedBy: "alice"})
		require.NoError(t, err)
		require.Equal(t, 1, list.ArticlesCount)
		assert.Equal(t, bobPost.Slug, list.Articles[0].Slug)
	})

	t.Run("unknown favorited user yields empty list", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{FavoritedBy: "ghost"})
		require.NoError(t, err)
		assert.Equal(t, 0, list.ArticlesCount)
		assert.Empty(t, list.Articles)
	})

	t.Run("newest first", func(t *testing.T) {
		list, err := env.articles.List(ctx, "", ListArticlesParams{})
		require.NoError(t, err)
		require.Equal(t, 3, list.ArticlesCount)
		assert.Equal(t, "Bob On Go", list.Articles[0].Title)
	})
}

func TestListArticlesPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	for _, title := range []string{"One", "Two", "Three"} {
		env.publish(t, aliceID, title)
	}

	list, err := env.articles.List(ctx, "", ListArticlesParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Articles, 2)
	assert.Equal(t, 3, list.ArticlesCount, "count ignores pagination")

	rest, err := env.articles.List(ctx, "", ListArticlesParams{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Articles, 1)
	assert.Equal(t, 3, rest.ArticlesCount)
}

func TestFeedOnlyFollowedAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	carolID := env.register(t, "carol")

	env.publish(t, bobID, "From Bob")
	env.publish(t, carolID, "From Carol")

	_, err := env.profiles.Follow(ctx, aliceID, "bob")
	require.NoError(t, err)

	feed, err := env.articles.Feed(ctx, aliceID, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, feed.ArticlesCount)
	assert.Equal(t, "From Bob", feed.Articles[0].Title)

	// No follows, empty feed.
	feed, err = env.articles.Feed(ctx, carolID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, feed.ArticlesCount)
}

func TestDeleteArticleRemovesComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Short Lived")

	_, err := env.articles.AddComment(ctx, bobID, view.Slug, "nice one")
	require.NoError(t, err)

	require.NoError(t, env.articles.Delete(ctx, aliceID, view.Slug))

	_, err = env.articles.GetBySlug(ctx, "", view.Slug)
	require.Error(t, err)
	_, err = env.articles.Comments(ctx, "", view.Slug)
	require.Error(t, err, "comments of a removed article are gone with it")
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Discuss")

	first, err := env.articles.AddComment(ctx, bobID, view.Slug, "first")
	require.NoError(t, err)
	assert.Equal(t, "bob", first.Author.Username)

	_, err = env.articles.AddComment(ctx, aliceID, view.Slug, "second")
	require.NoError(t, err)

	comments, err := env.articles.Comments(ctx, "", view.Slug)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Body, "newest first")

	_, err = env.articles.AddComment(ctx, bobID, view.Slug, "   ")
	require.Error(t, err, "blank comment body")
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")
	bobID := env.register(t, "bob")
	view := env.publish(t, aliceID, "Discuss")

	comment, err := env.articles.AddComment(ctx, bobID, view.Slug, "mine")
	require.NoError(t, err)

	err = env.articles.DeleteComment(ctx, aliceID, view.Slug, comment.ID)
	require.Error(t, err, "only the comment author may delete it")

	require.NoError(t, env.articles.DeleteComment(ctx, bobID, view.Slug, comment.ID))

	comments, err := env.articles.Comments(ctx, "", view.Slug)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestTags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.register(t, "alice")

	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	env.publish(t, aliceID, "One", "go", "web")
	env.publish(t, aliceID, "Two", "go")

	tags, err = env.tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, tags, "distinct and sorted")
}
