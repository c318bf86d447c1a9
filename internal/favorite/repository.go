package favorite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/property"
)

type Repository interface {
	// Add is idempotent.
	Add(ctx context.Context, userID, propertyID string) error
	Remove(ctx context.Context, userID, propertyID string) error
	List(ctx context.Context, userID string, page, pageSize int) ([]*Favorite, int, error)
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

func (r *pgxRepository) Add(ctx context.Context, userID, propertyID string) error {
	query, args, err := r.psql.Insert("public.favorites").
		Columns("user_id", "property_id").
		Values(userID, propertyID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add favorite query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("add favorite failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Remove(ctx context.Context, userID, propertyID string) error {
	query, args, err := r.psql.Delete("public.favorites").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"property_id": propertyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove favorite query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove favorite failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's saved properties, newest first. The property is
// loaded with the columns a listing card needs.
func (r *pgxRepository) List(ctx context.Context, userID string, page, pageSize int) ([]*Favorite, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query, args, err := r.psql.Select(
		"f.created_at",
		"p.id", "p.landlord_id", "COALESCE(u.display_name, u.email)",
		"p.title", "p.city", "p.country", "p.price_per_night::float8", "p.max_guests", "p.is_active",
		"COALESCE((SELECT array_agg(pi.file_id::text ORDER BY pi.position, pi.created_at) FROM public.property_images pi WHERE pi.property_id = p.id), '{}')",
		"count(*) OVER() AS total_count",
	).
		From("public.favorites f").
		Join("public.properties p ON f.property_id = p.id").
		Join("public.users u ON p.landlord_id = u.id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("f.created_at DESC", "p.id").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list favorites query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites failed: %w", err)
	}
	defer rows.Close()

	var favorites []*Favorite
	var total int
	for rows.Next() {
		f := &Favorite{UserID: userID, Property: &property.Property{}}
		p := f.Property
		if err := rows.Scan(
			&f.CreatedAt,
			&p.ID, &p.LandlordID, &p.LandlordName,
			&p.Title, &p.City, &p.Country, &p.PricePerNight, &p.MaxGuests, &p.IsActive,
			&p.ImageIDs, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan favorite failed: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorites failed: %w", err)
	}
	return favorites, total, nil
}
