package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/conduit/internal/apperror"
	"github.com/sakif/conduit/internal/model"
	"github.com/sakif/conduit/internal/repository"
)

// compile-time check that *DB implements repository.ArticleRepository
var _ repository.ArticleRepository = (*DB)(nil)

const articleColumns = `id, slug, title, description, body, author_id, favorites_count, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Description,
		&a.Body,
		&a.AuthorID,
		&a.FavoritesCount,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateArticle inserts a new article and its tag set, generating the ID and
// timestamps. The caller must have assigned the slug already.
func (db *DB) CreateArticle(ctx context.Context, article *model.Article) error {
	now := time.Now().UTC()
	article.ID = xid.New().String()
	article.CreatedAt = now
	article.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, slug, title, description, body, author_id, favorites_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		article.ID,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, "articles.slug") {
			return apperror.Conflict("slug")
		}
		return fmt.Errorf("sqlite: inserting article %q: %w", article.Slug, err)
	}

	if err := replaceTags(ctx, tx, article.ID, article.TagList); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing article %q: %w", article.Slug, err)
	}
	return nil
}

// GetArticleBySlug retrieves an article and its tag list.
// Returns apperror.ErrNotFound if no article has that slug.
func (db *DB) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	a, err := scanArticle(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("article")
		}
		return nil, fmt.Errorf("sqlite: getting article %q: %w", slug, err)
	}

	a.TagList, err = db.tagsFor(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateArticle persists the mutable fields of an article and replaces its tag
// set. The slug is deliberately not part of the UPDATE: once assigned it
// never changes.
func (db *DB) UpdateArticle(ctx context.Context, article *model.Article) error {
	article.UpdatedAt = time.Now().UTC()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE articles SET title = ?, description = ?, body = ?, updated_at = ?
		 WHERE id = ?`,
		article.Title,
		article.Description,
		article.Body,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating article %s: %w", article.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("article")
	}

	if err := replaceTags(ctx, tx, article.ID, article.TagList); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing article %s: %w", article.ID, err)
	}
	return nil
}

// DeleteArticle removes an article; comments, favorites rows, and tags go with
// it via ON DELETE CASCADE.
func (db *DB) DeleteArticle(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting article %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("article")
	}
	return nil
}

// ListArticles returns a page of articles newest-first plus the total count of
// articles matching the options.
func (db *DB) ListArticles(ctx context.Context, opts repository.ArticleListOptions) ([]*model.Article, int, error) {
	var where []string
	var args []any

	if opts.Tag != "" {
		where = append(where, `id IN (SELECT article_id FROM article_tags WHERE tag = ?)`)
		args = append(args, opts.Tag)
	}
	if opts.AuthorID != "" {
		where = append(where, `author_id = ?`)
		args = append(args, opts.AuthorID)
	}
	if opts.FavoritedByID != "" {
		where = append(where, `id IN (SELECT article_id FROM favorites WHERE user_id = ?)`)
		args = append(args, opts.FavoritedByID)
	}
	if opts.FollowedByID != "" {
		where = append(where, `author_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)`)
		args = append(args, opts.FollowedByID)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles`+clause, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting articles: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles`+clause+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing articles: %w", err)
	}
	defer rows.Close()

	articles := []*model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing articles: %w", err)
	}

	for _, a := range articles {
		if a.TagList, err = db.tagsFor(ctx, a.ID); err != nil {
			return nil, 0, err
		}
	}
	return articles, total, nil
}

// Favorite adds the article to the user's favorites set. Already
// favorited is a no-op.
func (db *DB) Favorite(ctx context.Context, userID, articleID string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, article_id) VALUES (?, ?)`,
		userID, articleID)
	if err != nil {
		return fmt.Errorf("sqlite: favoriting article %s: %w", articleID, err)
	}
	return nil
}

// Unfavorite removes the article from the user's favorites set. Not
// favorited is a no-op.
func (db *DB) Unfavorite(ctx context.Context, userID, articleID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND article_id = ?`,
		userID, articleID)
	if err != nil {
		return fmt.Errorf("sqlite: unfavoriting article %s: %w", articleID, err)
	}
	return nil
}

func (db *DB) IsFavorite(ctx context.Context, userID, articleID string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND article_id = ?`,
		userID, articleID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking favorite %s: %w", articleID, err)
	}
	return n > 0, nil
}

// RefreshFavoritesCount recomputes favorites_count from the favorites
// table in a single statement, so concurrent favorite/unfavorite calls
// cannot leave a stale count behind.
func (db *DB) RefreshFavoritesCount(ctx context.Context, articleID string) (int, error) {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE articles
		 SET favorites_count = (SELECT COUNT(*) FROM favorites WHERE article_id = ?)
		 WHERE id = ?`,
		articleID, articleID)
	if err != nil {
		return 0, fmt.Errorf("sqlite: refreshing favorites count for %s: %w", articleID, err)
	}

	var count int
	err = db.conn.QueryRowContext(ctx,
		`SELECT favorites_count FROM articles WHERE id = ?`, articleID).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apperror.NotFound("article")
		}
		return 0, fmt.Errorf("sqlite: reading favorites count for %s: %w", articleID, err)
	}
	return count, nil
}

// Tags returns the distinct tags across all articles, sorted.
func (db *DB) Tags(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT DISTINCT tag FROM article_tags ORDER BY tag ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	return tags, nil
}

func (db *DB) tagsFor(ctx context.Context, articleID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tag FROM article_tags WHERE article_id = ? ORDER BY tag ASC`, articleID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tags for %s: %w", articleID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func replaceTags(ctx context.Context, tx *sql.Tx, articleID string, tags []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM article_tags WHERE article_id = ?`, articleID); err != nil {
		return fmt.Errorf("sqlite: clearing tags for %s: %w", articleID, err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO article_tags (article_id, tag) VALUES (?, ?)`,
			articleID, tag); err != nil {
			return fmt.Errorf("sqlite: tagging article %s with %q: %w", articleID, tag, err)
		}
	}
	return nil
}
