package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/db"
)

// Repository defines data access methods for properties.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, filter PropertyFilter) ([]*Property, int, error)
	Update(ctx context.Context, p *Property) error
	Deactivate(ctx context.Context, id string) error
	// Image methods
	AddImage(ctx context.Context, propertyID, fileID string) error
	RemoveImage(ctx context.Context, propertyID, fileID string) error
}

var propertyColumns = []string{
	"p.id", "p.landlord_id", "COALESCE(u.display_name, u.email)",
	"p.title", "p.description", "p.address", "p.city", "p.country",
	"p.price_per_night::float8", "p.bedrooms", "p.bathrooms", "p.max_guests", "p.amenities",
	"p.is_active", "p.created_at", "p.updated_at",
	"COALESCE((SELECT array_agg(pi.file_id::text ORDER BY pi.position, pi.created_at) FROM public.property_images pi WHERE pi.property_id = p.id), '{}')",
	"COALESCE((SELECT AVG(r.rating)::float8 FROM public.reviews r WHERE r.property_id = p.id), 0)",
	"(SELECT COUNT(*) FROM public.reviews r WHERE r.property_id = p.id)",
}

var sortColumns = map[string]string{
	"created_at":      "p.created_at",
	"price_per_night": "p.price_per_night",
	"title":           "p.title",
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

func scanProperty(row pgx.Row, extra ...any) (*Property, error) {
	var p Property
	dest := []any{
		&p.ID, &p.LandlordID, &p.LandlordName,
		&p.Title, &p.Description, &p.Address, &p.City, &p.Country,
		&p.PricePerNight, &p.Bedrooms, &p.Bathrooms, &p.MaxGuests, &p.Amenities,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.ImageIDs, &p.AverageRating, &p.ReviewCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Property) error {
	query, args, err := r.psql.Insert("public.properties").
		Columns(
			"landlord_id", "title", "description", "address", "city", "country",
			"price_per_night", "bedrooms", "bathrooms", "max_guests", "amenities", "is_active",
		).
		Values(
			p.LandlordID, p.Title, p.Description, p.Address, p.City, p.Country,
			p.PricePerNight, p.Bedrooms, p.Bathrooms, p.MaxGuests, p.Amenities, p.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	query, args, err := r.psql.Select(propertyColumns...).
		From("public.properties p").
		Join("public.users u ON p.landlord_id = u.id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get property query failed: %w", err)
	}

	p, err := scanProperty(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter PropertyFilter) ([]*Property, int, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list properties query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties failed: %w", err)
	}
	defer rows.Close()

	var properties []*Property
	var total int
	for rows.Next() {
		p, err := scanProperty(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property failed: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties failed: %w", err)
	}

	return properties, total, nil
}

func (r *pgxRepository) listQuery(filter PropertyFilter) squirrel.SelectBuilder {
	query := r.psql.Select(append(propertyColumns, "count(*) OVER() AS total_count")...).
		From("public.properties p").
		Join("public.users u ON p.landlord_id = u.id")

	if !filter.IncludeInactive {
		query = query.Where(squirrel.Eq{"p.is_active": true})
	}
	if filter.Keyword != "" {
		kw := db.ContainsPattern(filter.Keyword)
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.title": kw},
			squirrel.ILike{"p.description": kw},
			squirrel.ILike{"p.city": kw},
		})
	}
	if filter.City != "" {
		query = query.Where(squirrel.Expr("lower(p.city) = lower(?)", filter.City))
	}
	if filter.Country != "" {
		query = query.Where(squirrel.Expr("lower(p.country) = lower(?)", filter.Country))
	}
	if filter.LandlordID != "" {
		query = query.Where(squirrel.Eq{"p.landlord_id": filter.LandlordID})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"p.price_per_night": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"p.price_per_night": *filter.MaxPrice})
	}
	if filter.Guests != nil {
		query = query.Where(squirrel.GtOrEq{"p.max_guests": *filter.Guests})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "p.created_at"
	}
	orderDir := "DESC"
	if filter.SortOrder == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "p.id")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	return query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
}

func (r *pgxRepository) Update(ctx context.Context, p *Property) error {
	query, args, err := r.psql.Update("public.properties").
		Set("title", p.Title).
		Set("description", p.Description).
		Set("address", p.Address).
		Set("city", p.City).
		Set("country", p.Country).
		Set("price_per_night", p.PricePerNight).
		Set("bedrooms", p.Bedrooms).
		Set("bathrooms", p.Bathrooms).
		Set("max_guests", p.MaxGuests).
		Set("amenities", p.Amenities).
		Set("is_active", p.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update property query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update property failed: %w", err)
	}
	return nil
}

// Deactivate hides a listing. Bookings and reviews keep referencing it.
func (r *pgxRepository) Deactivate(ctx context.Context, id string) error {
	query, args, err := r.psql.Update("public.properties").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate property query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate property failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ------------------------
//      Image methods
// ------------------------

// AddImage appends fileID to the end of the property's photo list.
func (r *pgxRepository) AddImage(ctx context.Context, propertyID, fileID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the property row so concurrent uploads get distinct positions.
		var count int
		err := tx.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM public.property_images WHERE property_id = p.id)
			FROM public.properties p
			WHERE p.id = $1
			FOR UPDATE`, propertyID).Scan(&count)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock property failed: %w", err)
		}
		if count >= MaxImages {
			return ErrTooManyImages
		}

		query, args, err := r.psql.Insert("public.property_images").
			Columns("property_id", "file_id", "position").
			Values(propertyID, fileID, count).
			ToSql()
		if err != nil {
			return fmt.Errorf("build add image query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("add property image failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) RemoveImage(ctx context.Context, propertyID, fileID string) error {
	query, args, err := r.psql.Delete("public.property_images").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.Eq{"file_id": fileID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove image query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove property image failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrImageNotFound
	}
	return nil
}
