package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
	SELECT id::text, name, description, website_url, image_url, category, tags,
	       pricing_type, is_free, trend_score, rating, users, has_api, is_trending,
	       created_at
	FROM tools`

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

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Tool, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argn))
		args = append(args, string(q.Category))
		argn++
	}

	if q.TrendingOnly {
		clauses = append(clauses, "is_trending = true")
	}

	orderBy := "created_at DESC, id DESC"
	if q.Order == OrderScore {
		orderBy = "trend_score DESC NULLS LAST, created_at DESC, id DESC"
	} else if !q.Cursor.IsZero() {
		clauses = append(clauses, fmt.Sprintf("(created_at, id) < ($%d, $%d::uuid)", argn, argn+1))
		args = append(args, q.Cursor.CreatedAt, q.Cursor.AfterID)
		argn += 2
	}

	sql := fmt.Sprintf("%s WHERE %s ORDER BY %s", selectColumns, strings.Join(clauses, " AND "), orderBy)
	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT $%d", argn)
		args = append(args, q.Limit)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var out []Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns ErrNotFound for ids that are not uuids without a round trip.
func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Tool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Tool{}, ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	t, err := scanTool(r.db.QueryRow(timeoutCtx, selectColumns+" WHERE id = $1::uuid", uid.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tool{}, ErrNotFound
		}
		return Tool{}, err
	}
	return t, nil
}

func (r *PostgresRepo) Create(ctx context.Context, t *Tool) (string, error) {
	const sql = `
		INSERT INTO tools (name, description, website_url, image_url, category, tags,
		                   pricing_type, has_api, users, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id::text, created_at`

	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id string
	err := r.db.QueryRow(timeoutCtx, sql,
		t.Name, t.Description, t.WebsiteURL, t.ImageURL, string(t.Category), tags,
		string(t.Pricing), t.HasAPI, t.Users,
	).Scan(&id, &t.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert tool: %w", err)
	}
	t.ID = id
	return id, nil
}

func (r *PostgresRepo) CountByCategory(ctx context.Context) (map[Category]int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, "SELECT category, COUNT(*) FROM tools GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("count tools by category: %w", err)
	}
	defer rows.Close()

	out := make(map[Category]int)
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		out[Category(category)] = count
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListLegacyPricing(ctx context.Context) ([]LegacyPricingRow, error) {
	const sql = `
		SELECT id::text, is_free
		FROM tools
		WHERE pricing_type IS NULL AND is_free IS NOT NULL
		ORDER BY created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, fmt.Errorf("list legacy pricing rows: %w", err)
	}
	defer rows.Close()

	var out []LegacyPricingRow
	for rows.Next() {
		var row LegacyPricingRow
		if err := rows.Scan(&row.ID, &row.IsFree); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) SetPricing(ctx context.Context, id string, p Pricing) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, "UPDATE tools SET pricing_type = $1 WHERE id = $2::uuid", string(p), uid.String())
	if err != nil {
		return fmt.Errorf("set pricing for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTool(row pgx.Row) (Tool, error) {
	var (
		t        Tool
		category string
		pricing  *string
		isFree   *bool
		users    *string
		desc     *string
	)
	err := row.Scan(
		&t.ID, &t.Name, &desc, &t.WebsiteURL, &t.ImageURL, &category, &t.Tags,
		&pricing, &isFree, &t.TrendScore, &t.Rating, &users, &t.HasAPI, &t.IsTrending,
		&t.CreatedAt,
	)
	if err != nil {
		return Tool{}, err
	}
	t.Category = Category(category)
	t.Pricing = resolvePricing(pricing, isFree)
	if desc != nil {
		t.Description = *desc
	}
	if users != nil {
		t.Users = *users
	}
	return t, nil
}

// resolvePricing prefers the canonical column and falls back to the legacy flag
// for rows that have not been migrated yet.
func resolvePricing(pricing *string, isFree *bool) Pricing {
	if pricing != nil {
		if p, err := ParsePricing(*pricing); err == nil {
			return p
		}
	}
	if isFree != nil {
		return PricingFromLegacy(*isFree)
	}
	return PricingFreemium
}
