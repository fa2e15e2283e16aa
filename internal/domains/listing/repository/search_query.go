package repository

import (
	"fmt"
	"strings"
	"time"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	searchModel "poultry-market-backend/internal/domains/search/model"
	"poultry-market-backend/internal/shared/utils"
)

const listingColumns = `
	l.id, l.seller_id, l.category, l.title, l.description, l.price, l.location, l.images,
	COALESCE(l.breed, ''), COALESCE(l.age_range, ''), COALESCE(l.health_status, ''),
	COALESCE(l.egg_type, ''), COALESCE(l.feed_type, ''), l.laid_date,
	COALESCE(l.quantity_available, ''), COALESCE(l.farm_practices, ''),
	COALESCE(l.size, ''), COALESCE(l.material, ''), COALESCE(l.condition, ''),
	l.is_active, l.created_at, l.updated_at`

// sellerRatingJoin exposes sr.avg_rating rounded like the rating aggregates.
const sellerRatingJoin = `
	LEFT JOIN (
		SELECT seller_id, ROUND(AVG(stars)::numeric, 1)::float8 AS avg_rating
		FROM seller_ratings
		GROUP BY seller_id
	) sr ON sr.seller_id = l.seller_id`

type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition whose placeholders are written as %[1]s.
func (w *whereBuilder) add(condition string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(condition, fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) raw(condition string) {
	w.conditions = append(w.conditions, condition)
}

func (w *whereBuilder) contains(column, value string) {
	if value == "" {
		return
	}
	w.add(column+" ILIKE %[1]s", utils.ContainsPattern(value))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return "TRUE"
	}
	return utils.JoinWithAnd(w.conditions)
}

// buildWhereClause translates a filter into SQL with positional arguments.
func buildWhereClause(filter searchModel.Filter, now time.Time) (string, []interface{}) {
	w := &whereBuilder{}

	if !filter.IncludeInactive() {
		w.raw("l.is_active = true")
	}

	if category := filter.Category(); category != nil {
		w.add("l.category = %[1]s", string(*category))
	}

	if text := filter.Text(); text != "" {
		w.add(fmt.Sprintf(
			"(l.title ILIKE %%[1]s OR l.description ILIKE %%[1]s OR (l.category = '%s' AND l.breed ILIKE %%[1]s))",
			listingModel.CategoryPoultry,
		), utils.ContainsPattern(text))
	}

	if minPrice := filter.MinPrice(); minPrice != nil {
		w.add("l.price >= %[1]s", *minPrice)
	}
	if maxPrice := filter.MaxPrice(); maxPrice != nil {
		w.add("l.price <= %[1]s", *maxPrice)
	}

	w.contains("l.location", filter.Location())

	if minRating := filter.MinRating(); minRating != nil {
		w.add("COALESCE(sr.avg_rating, 0) >= %[1]s", *minRating)
	}

	if facets, ok := filter.PoultryFacets(); ok {
		w.contains("l.breed", facets.Breed)
		w.contains("l.age_range", facets.AgeRange)
	}
	if facets, ok := filter.EggFacets(); ok {
		w.contains("l.egg_type", facets.EggType)
		w.contains("l.feed_type", facets.FeedType)
		if cutoff := filter.LaidCutoff(now); cutoff != nil {
			w.add("l.laid_date >= %[1]s", *cutoff)
		}
	}
	if facets, ok := filter.HousingFacets(); ok {
		w.contains("l.size", facets.Size)
		w.contains("l.material", facets.Material)
		w.contains("l.condition", facets.Condition)
	}

	return w.clause(), w.args
}

func needsRatingJoin(filter searchModel.Filter) bool {
	return filter.MinRating() != nil || filter.Sort().Field == searchModel.SortRating
}

func buildOrderBy(sort searchModel.Sort) string {
	var column string
	switch sort.Field {
	case searchModel.SortPrice:
		column = "l.price"
	case searchModel.SortRating:
		column = "COALESCE(sr.avg_rating, 0)"
	case searchModel.SortTitle:
		column = "LOWER(l.title)"
	default:
		column = "l.created_at"
	}

	direction := "DESC"
	if sort.Order == searchModel.SortAsc {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s, l.created_at DESC, l.id ASC", column, direction)
}

// buildSearchQuery assembles the full search statement.
func buildSearchQuery(filter searchModel.Filter, page searchModel.Page, now time.Time) (string, []interface{}) {
	where, args := buildWhereClause(filter, now)

	var join string
	if needsRatingJoin(filter) {
		join = sellerRatingJoin
	}

	args = append(args, page.Limit, page.Offset)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(listingColumns)
	b.WriteString("\nFROM listings l")
	b.WriteString(join)
	b.WriteString("\nWHERE ")
	b.WriteString(where)
	b.WriteString("\nORDER BY ")
	b.WriteString(buildOrderBy(filter.Sort()))
	fmt.Fprintf(&b, "\nLIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return b.String(), args
}
