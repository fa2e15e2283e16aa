package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"poultry-market-backend/internal/domains/listing/model"
	searchModel "poultry-market-backend/internal/domains/search/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// flatAttributes mirrors the nullable per-category columns of listings.
type flatAttributes struct {
	breed, ageRange, healthStatus    string
	eggType, feedType                string
	laidDate                         *time.Time
	quantityAvailable, farmPractices string
	size, material, condition        string
}

func flatten(l *model.Listing) flatAttributes {
	var f flatAttributes
	if a, ok := l.Poultry(); ok {
		f.breed, f.ageRange, f.healthStatus = a.Breed, a.AgeRange, a.HealthStatus
	}
	if a, ok := l.Eggs(); ok {
		f.eggType, f.feedType, f.laidDate = a.EggType, a.FeedType, a.LaidDate
		f.quantityAvailable, f.farmPractices = a.QuantityAvailable, a.FarmPractices
	}
	if a, ok := l.Housing(); ok {
		f.size, f.material, f.condition = a.Size, a.Material, a.Condition
	}
	return f
}

// attributes keeps only the columns that belong to category.
func (f flatAttributes) attributes(category model.Category) model.Attributes {
	switch {
	case category == model.CategoryPoultry:
		return model.PoultryAttributes{Breed: f.breed, AgeRange: f.ageRange, HealthStatus: f.healthStatus}
	case category == model.CategoryEggs:
		return model.EggAttributes{
			EggType:           f.eggType,
			FeedType:          f.feedType,
			LaidDate:          f.laidDate,
			QuantityAvailable: f.quantityAvailable,
			FarmPractices:     f.farmPractices,
		}
	case category.IsHousing():
		return model.HousingAttributes{Size: f.size, Material: f.material, Condition: f.condition}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanListing(row pgx.Row) (*model.Listing, error) {
	var (
		l        model.Listing
		category string
		images   []string
		f        flatAttributes
	)

	err := row.Scan(
		&l.ID,
		&l.SellerID,
		&category,
		&l.Title,
		&l.Description,
		&l.Price,
		&l.Location,
		pq.Array(&images),
		&f.breed, &f.ageRange, &f.healthStatus,
		&f.eggType, &f.feedType, &f.laidDate,
		&f.quantityAvailable, &f.farmPractices,
		&f.size, &f.material, &f.condition,
		&l.IsActive,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Category = model.Category(category)
	l.Images = images
	l.Attributes = f.attributes(l.Category)
	return &l, nil
}

func collectListings(rows pgx.Rows, capacity int) ([]*model.Listing, error) {
	defer rows.Close()

	listings := make([]*model.Listing, 0, capacity)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

func (r *postgresRepository) Create(ctx context.Context, l *model.Listing) error {
	query := `
		INSERT INTO listings (
			id, seller_id, category, title, description, price, location, images,
			breed, age_range, health_status,
			egg_type, feed_type, laid_date, quantity_available, farm_practices,
			size, material, condition,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19,
			$20, $21, $22
		)
	`

	f := flatten(l)
	_, err := r.pool.Exec(ctx, query,
		l.ID, l.SellerID, string(l.Category), l.Title, l.Description, l.Price, l.Location, pq.Array(l.Images),
		nullIfEmpty(f.breed), nullIfEmpty(f.ageRange), nullIfEmpty(f.healthStatus),
		nullIfEmpty(f.eggType), nullIfEmpty(f.feedType), f.laidDate,
		nullIfEmpty(f.quantityAvailable), nullIfEmpty(f.farmPractices),
		nullIfEmpty(f.size), nullIfEmpty(f.material), nullIfEmpty(f.condition),
		l.IsActive, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings l WHERE l.id = $1`

	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Listing, error) {
	out := make(map[uuid.UUID]*model.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + listingColumns + ` FROM listings l WHERE l.id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get listings: %w", err)
	}
	listings, err := collectListings(rows, len(ids))
	if err != nil {
		return nil, err
	}
	for _, l := range listings {
		out[l.ID] = l
	}
	return out, nil
}

func (r *postgresRepository) ListBySeller(
	ctx context.Context,
	sellerID uuid.UUID,
	opts SellerListingOptions,
) ([]*model.Listing, error) {
	conditions := []string{"l.seller_id = $1"}
	args := []interface{}{sellerID}

	if opts.ActiveOnly {
		conditions = append(conditions, "l.is_active = true")
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		conditions = append(conditions, fmt.Sprintf("l.created_at >= $%d", len(args)))
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM listings l
		WHERE %s
		ORDER BY l.created_at DESC, l.id ASC
		LIMIT $%d
	`, listingColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller listings: %w", err)
	}
	return collectListings(rows, limit)
}

func (r *postgresRepository) Search(
	ctx context.Context,
	filter searchModel.Filter,
	page searchModel.Page,
	now time.Time,
) ([]*model.Listing, error) {
	query, args := buildSearchQuery(filter, page, now)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return collectListings(rows, page.Limit)
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE listings SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrListingNotFound
	}
	return nil
}

func (r *postgresRepository) CountActiveByCategory(ctx context.Context) ([]model.ActiveCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*)
		FROM listings
		WHERE is_active = true
		GROUP BY category
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}
	defer rows.Close()

	var counts []model.ActiveCount
	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan listing count: %w", err)
		}
		counts = append(counts, model.ActiveCount{Category: model.Category(category), Count: count})
	}
	return counts, rows.Err()
}

func (r *postgresRepository) CountActiveBySellers(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT seller_id, COUNT(*)
		FROM listings
		WHERE is_active = true AND seller_id = ANY($1)
		GROUP BY seller_id
	`, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count seller listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sellerID uuid.UUID
			count    int64
		)
		if err := rows.Scan(&sellerID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan seller listing count: %w", err)
		}
		counts[sellerID] = count
	}
	return counts, rows.Err()
}
