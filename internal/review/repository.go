package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	List(ctx context.Context, filter Filter) ([]*Review, int, error)
	Delete(ctx context.Context, id string) error
}

var reviewColumns = []string{
	"rv.id", "rv.property_id", "rv.author_id", "COALESCE(u.display_name, u.email)",
	"rv.rating", "rv.comment", "rv.created_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *pgxRepository) Create(ctx context.Context, rv *Review) error {
	query, args, err := r.psql.Insert("public.reviews").
		Columns("property_id", "author_id", "rating", "comment").
		Values(rv.PropertyID, rv.AuthorID, rv.Rating, rv.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create review query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rv.ID, &rv.CreatedAt); err != nil {
		return mapCreateError(err)
	}
	return nil
}

// mapCreateError turns the (property_id, author_id) unique violation into
// ErrAlreadyReviewed.
func mapCreateError(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
		return ErrAlreadyReviewed
	}
	return fmt.Errorf("create review failed: %w", err)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Review, error) {
	query, args, err := r.psql.Select(reviewColumns...).
		From("public.reviews rv").
		Join("public.users u ON rv.author_id = u.id").
		Where(squirrel.Eq{"rv.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get review query failed: %w", err)
	}

	var rv Review
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&rv.ID, &rv.PropertyID, &rv.AuthorID, &rv.AuthorName,
		&rv.Rating, &rv.Comment, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review failed: %w", err)
	}
	return &rv, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Review, int, error) {
	query := r.psql.Select(append(reviewColumns, "count(*) OVER() AS total_count")...).
		From("public.reviews rv").
		Join("public.users u ON rv.author_id = u.id")

	if filter.PropertyID != "" {
		query = query.Where(squirrel.Eq{"rv.property_id": filter.PropertyID})
	}

	orderBy := "rv.created_at"
	if filter.SortBy == "rating" {
		orderBy = "rv.rating"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "rv.id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reviews query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	var total int
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.PropertyID, &rv.AuthorID, &rv.AuthorName,
			&rv.Rating, &rv.Comment, &rv.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review failed: %w", err)
		}
		reviews = append(reviews, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reviews failed: %w", err)
	}
	return reviews, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("public.reviews").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete review query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
