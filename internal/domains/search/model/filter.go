package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/shared/utils"
)

// MaxDaysOldLimit bounds the max_days_old facet to ten years.
const MaxDaysOldLimit = 3650

// FilterParams is the mutable input of NewFilter.
type FilterParams struct {
	Text        string
	Category    *listingModel.Category
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Location    string
	RadiusMiles *float64
	MinRating   *float64
	Facets      Facets
	Sort        Sort
}

// Filter is a validated, immutable search query. The zero value matches
// every active listing, newest first.
type Filter struct {
	text            string
	category        *listingModel.Category
	minPrice        *decimal.Decimal
	maxPrice        *decimal.Decimal
	location        string
	radiusMiles     *float64
	minRating       *float64
	facets          Facets
	sort            Sort
	includeInactive bool
}

// NewFilter checks cross-field rules and freezes p. Facets that do not
// belong to the chosen category are dropped.
func NewFilter(p FilterParams) (Filter, error) {
	if p.MinPrice != nil && p.MaxPrice != nil && p.MinPrice.GreaterThan(*p.MaxPrice) {
		return Filter{}, NewInvalidRangeError("price", p.MinPrice.String(), p.MaxPrice.String())
	}
	if eggs, ok := p.Facets.(EggFacets); ok && eggs.MaxDaysOld != nil {
		if d := *eggs.MaxDaysOld; d < 0 || d > MaxDaysOldLimit {
			return Filter{}, NewMaxDaysOldError(d)
		}
	}

	f := Filter{
		text:        strings.TrimSpace(p.Text),
		location:    strings.TrimSpace(p.Location),
		sort:        p.Sort,
		category:    copyPtr(p.Category),
		minPrice:    copyPtr(p.MinPrice),
		maxPrice:    copyPtr(p.MaxPrice),
		radiusMiles: copyPtr(p.RadiusMiles),
		minRating:   copyPtr(p.MinRating),
	}

	if f.sort.Field == "" {
		f.sort.Field = DefaultSort.Field
	}
	if f.sort.Order == "" {
		f.sort.Order = DefaultSort.Order
	}

	if p.Facets != nil && f.category != nil && p.Facets.forCategory(*f.category) && !p.Facets.empty() {
		if eggs, ok := p.Facets.(EggFacets); ok {
			eggs.MaxDaysOld = copyPtr(eggs.MaxDaysOld)
			f.facets = eggs
		} else {
			f.facets = p.Facets
		}
	}

	return f, nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// WithInactive returns a copy that also matches deactivated listings.
func (f Filter) WithInactive() Filter {
	f.includeInactive = true
	return f
}

func (f Filter) Text() string                     { return f.text }
func (f Filter) Category() *listingModel.Category { return copyPtr(f.category) }
func (f Filter) MinPrice() *decimal.Decimal       { return copyPtr(f.minPrice) }
func (f Filter) MaxPrice() *decimal.Decimal       { return copyPtr(f.maxPrice) }
func (f Filter) Location() string                 { return f.location }
func (f Filter) RadiusMiles() *float64            { return copyPtr(f.radiusMiles) }
func (f Filter) MinRating() *float64              { return copyPtr(f.minRating) }
func (f Filter) Sort() Sort                       { return f.sort }
func (f Filter) IncludeInactive() bool            { return f.includeInactive }

func (f Filter) PoultryFacets() (PoultryFacets, bool) {
	p, ok := f.facets.(PoultryFacets)
	return p, ok
}

func (f Filter) EggFacets() (EggFacets, bool) {
	e, ok := f.facets.(EggFacets)
	if ok {
		e.MaxDaysOld = copyPtr(e.MaxDaysOld)
	}
	return e, ok
}

func (f Filter) HousingFacets() (HousingFacets, bool) {
	h, ok := f.facets.(HousingFacets)
	return h, ok
}

// LaidCutoff is the earliest laid date kept by the max_days_old facet.
func (f Filter) LaidCutoff(now time.Time) *time.Time {
	eggs, ok := f.facets.(EggFacets)
	if !ok || eggs.MaxDaysOld == nil {
		return nil
	}
	cutoff := listingModel.StartOfDay(now).AddDate(0, 0, -*eggs.MaxDaysOld)
	return &cutoff
}

// Candidate is a listing paired with its seller's average rating
// (0 when the seller has none).
type Candidate struct {
	Listing      *listingModel.Listing
	SellerRating float64
}

// Matches evaluates the filter in memory with the same semantics as the SQL
// store: case-insensitive substring matching and inclusive bounds.
func (f Filter) Matches(c Candidate, now time.Time) bool {
	l := c.Listing

	if !f.includeInactive && !l.IsActive {
		return false
	}
	if f.category != nil && l.Category != *f.category {
		return false
	}
	if f.text != "" && !matchesText(l, f.text) {
		return false
	}
	if f.minPrice != nil && l.Price.LessThan(*f.minPrice) {
		return false
	}
	if f.maxPrice != nil && l.Price.GreaterThan(*f.maxPrice) {
		return false
	}
	if f.location != "" && !utils.ContainsFold(l.Location, f.location) {
		return false
	}
	if f.minRating != nil && c.SellerRating < *f.minRating {
		return false
	}

	switch facets := f.facets.(type) {
	case PoultryFacets:
		a, ok := l.Poultry()
		if !ok ||
			!utils.ContainsFold(a.Breed, facets.Breed) ||
			!utils.ContainsFold(a.AgeRange, facets.AgeRange) {
			return false
		}
	case EggFacets:
		a, ok := l.Eggs()
		if !ok ||
			!utils.ContainsFold(a.EggType, facets.EggType) ||
			!utils.ContainsFold(a.FeedType, facets.FeedType) {
			return false
		}
		if cutoff := f.LaidCutoff(now); cutoff != nil {
			if a.LaidDate == nil || listingModel.StartOfDay(*a.LaidDate).Before(*cutoff) {
				return false
			}
		}
	case HousingFacets:
		a, ok := l.Housing()
		if !ok ||
			!utils.ContainsFold(a.Size, facets.Size) ||
			!utils.ContainsFold(a.Material, facets.Material) ||
			!utils.ContainsFold(a.Condition, facets.Condition) {
			return false
		}
	}

	return true
}

func matchesText(l *listingModel.Listing, text string) bool {
	if utils.ContainsFold(l.Title, text) || utils.ContainsFold(l.Description, text) {
		return true
	}
	if a, ok := l.Poultry(); ok && utils.ContainsFold(a.Breed, text) {
		return true
	}
	return false
}

// Less orders by the requested field, then created_at DESC, then id ASC.
func (f Filter) Less(a, b Candidate) bool {
	if c := f.compareField(a, b); c != 0 {
		if f.sort.Order == SortAsc {
			return c < 0
		}
		return c > 0
	}

	la, lb := a.Listing, b.Listing
	if !la.CreatedAt.Equal(lb.CreatedAt) {
		return la.CreatedAt.After(lb.CreatedAt)
	}
	return bytes.Compare(la.ID[:], lb.ID[:]) < 0
}

func (f Filter) compareField(a, b Candidate) int {
	switch f.sort.Field {
	case SortPrice:
		return a.Listing.Price.Cmp(b.Listing.Price)
	case SortRating:
		switch {
		case a.SellerRating < b.SellerRating:
			return -1
		case a.SellerRating > b.SellerRating:
			return 1
		}
		return 0
	case SortTitle:
		return strings.Compare(strings.ToLower(a.Listing.Title), strings.ToLower(b.Listing.Title))
	default:
		return a.Listing.CreatedAt.Compare(b.Listing.CreatedAt)
	}
}

// CacheKey identifies a filter and page for result caching.
func (f Filter) CacheKey(page Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%s|l=%s|s=%s:%s|i=%t|p=%d:%d",
		strings.ToLower(f.text), strings.ToLower(f.location),
		f.sort.Field, f.sort.Order, f.includeInactive, page.Limit, page.Offset)
	if f.category != nil {
		fmt.Fprintf(&b, "|c=%s", *f.category)
	}
	if f.minPrice != nil {
		fmt.Fprintf(&b, "|min=%s", f.minPrice.String())
	}
	if f.maxPrice != nil {
		fmt.Fprintf(&b, "|max=%s", f.maxPrice.String())
	}
	if f.radiusMiles != nil {
		fmt.Fprintf(&b, "|r=%g", *f.radiusMiles)
	}
	if f.minRating != nil {
		fmt.Fprintf(&b, "|mr=%g", *f.minRating)
	}
	switch facets := f.facets.(type) {
	case PoultryFacets:
		fmt.Fprintf(&b, "|pf=%s:%s", strings.ToLower(facets.Breed), strings.ToLower(facets.AgeRange))
	case EggFacets:
		fmt.Fprintf(&b, "|ef=%s:%s", strings.ToLower(facets.EggType), strings.ToLower(facets.FeedType))
		if facets.MaxDaysOld != nil {
			fmt.Fprintf(&b, ":%d", *facets.MaxDaysOld)
		}
	case HousingFacets:
		fmt.Fprintf(&b, "|hf=%s:%s:%s", strings.ToLower(facets.Size), strings.ToLower(facets.Material), strings.ToLower(facets.Condition))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "search:" + hex.EncodeToString(sum[:16])
}
