package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `
	SELECT id::text, title, content, slug, image_url, author, tags,
	       meta_title, meta_description, created_at
	FROM blog_posts`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ListLatest(ctx context.Context, limit int) ([]Summary, error) {
	const sql = `
		SELECT id::text, title, slug, image_url, created_at
		FROM blog_posts
		ORDER BY created_at DESC
		LIMIT $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest posts: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.ImageURL, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetBySlug(ctx context.Context, slug string) (Post, error) {
	return r.getOne(ctx, postColumns+" WHERE slug = $1 LIMIT 1", slug)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Post, error) {
	return r.getOne(ctx, postColumns+" WHERE id::text = $1 LIMIT 1", id)
}

func (r *PostgresRepo) getOne(ctx context.Context, sql string, arg string) (Post, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		p                                          Post
		content, author, tags, metaTitle, metaDesc *string
	)
	err := r.db.QueryRow(timeoutCtx, sql, arg).Scan(
		&p.ID, &p.Title, &content, &p.Slug, &p.ImageURL, &author, &tags,
		&metaTitle, &metaDesc, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	p.Content = deref(content)
	p.Author = deref(author)
	p.Tags = deref(tags)
	p.MetaTitle = deref(metaTitle)
	p.MetaDescription = deref(metaDesc)
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
