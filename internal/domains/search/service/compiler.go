package service

import (
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	listingModel "poultry-market-backend/internal/domains/listing/model"
	"poultry-market-backend/internal/domains/search/model"
)

// Params is a flat set of raw search parameters. Empty values are absent.
type Params map[string]string

// get returns the first non-empty value among keys.
func (p Params) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(p[k]); v != "" {
			return v
		}
	}
	return ""
}

// Compiler validates raw parameters once and produces an immutable filter.
type Compiler struct {
	defaultLimit int
	maxLimit     int
}

func NewCompiler(defaultLimit, maxLimit int) *Compiler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Compiler{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// Compile parses p. Unknown keys and facets that do not belong to the chosen
// category are ignored.
func (c *Compiler) Compile(p Params) (model.Filter, model.Page, error) {
	var params model.FilterParams

	params.Text = p.get("q", "query", "text")
	params.Location = p.get("location")

	if raw := p.get("category"); raw != "" && !strings.EqualFold(raw, "all") {
		category, ok := listingModel.ParseCategory(raw)
		if !ok {
			return model.Filter{}, model.Page{}, model.NewInvalidCategoryError(raw)
		}
		params.Category = &category
	}

	var err error
	if params.MinPrice, err = parseDecimal(p, "min_price"); err != nil {
		return model.Filter{}, model.Page{}, err
	}
	if params.MaxPrice, err = parseDecimal(p, "max_price"); err != nil {
		return model.Filter{}, model.Page{}, err
	}
	if params.RadiusMiles, err = parseFloat(p, "radius_miles", validation.Min(0.0)); err != nil {
		return model.Filter{}, model.Page{}, err
	}
	if params.MinRating, err = parseFloat(p, "min_rating", validation.Min(0.0), validation.Max(5.0)); err != nil {
		return model.Filter{}, model.Page{}, err
	}

	if params.Category != nil {
		if params.Facets, err = compileFacets(p, *params.Category); err != nil {
			return model.Filter{}, model.Page{}, err
		}
	}

	if params.Sort, err = compileSort(p); err != nil {
		return model.Filter{}, model.Page{}, err
	}

	page, err := c.compilePage(p)
	if err != nil {
		return model.Filter{}, model.Page{}, err
	}

	filter, err := model.NewFilter(params)
	if err != nil {
		return model.Filter{}, model.Page{}, err
	}
	return filter, page, nil
}

func compileFacets(p Params, category listingModel.Category) (model.Facets, error) {
	switch {
	case category == listingModel.CategoryPoultry:
		return model.PoultryFacets{
			Breed:    p.get("breed"),
			AgeRange: p.get("age_range", "age"),
		}, nil
	case category == listingModel.CategoryEggs:
		maxDaysOld, err := parseInt(p, "max_days_old", validation.Min(0), validation.Max(model.MaxDaysOldLimit))
		if err != nil {
			return nil, err
		}
		return model.EggFacets{
			EggType:    p.get("egg_type"),
			FeedType:   p.get("feed_type"),
			MaxDaysOld: maxDaysOld,
		}, nil
	case category.IsHousing():
		return model.HousingFacets{
			Size:      p.get("size"),
			Material:  p.get("material"),
			Condition: p.get("condition"),
		}, nil
	}
	return nil, nil
}

func compileSort(p Params) (model.Sort, error) {
	sort := model.DefaultSort

	if raw := p.get("sort_by"); raw != "" {
		field, ok := model.ParseSortField(strings.ToLower(raw))
		if !ok {
			return sort, model.NewInvalidSortError("sort_by", raw)
		}
		sort.Field = field
	}

	if raw := p.get("sort_order"); raw != "" {
		order, ok := model.ParseSortOrder(strings.ToLower(raw))
		if !ok {
			return sort, model.NewInvalidSortError("sort_order", raw)
		}
		sort.Order = order
	}

	return sort, nil
}

func (c *Compiler) compilePage(p Params) (model.Page, error) {
	page := model.Page{Limit: c.defaultLimit}

	limit, err := parseInt(p, "limit", validation.Min(1))
	if err != nil {
		return page, err
	}
	if limit != nil {
		// Min skips zero values, so a zero limit is rejected here.
		if *limit < 1 {
			return page, model.NewInvalidParamError(validation.Errors{"limit": validation.NewError("validation_min_greater_equal_than_required", "must be no less than 1")})
		}
		page.Limit = *limit
	}
	if page.Limit > c.maxLimit {
		page.Limit = c.maxLimit
	}

	offset, err := parseInt(p, "offset", validation.Min(0))
	if err != nil {
		return page, err
	}
	if offset == nil {
		if offset, err = parseInt(p, "skip", validation.Min(0)); err != nil {
			return page, err
		}
	}
	if offset != nil {
		page.Offset = *offset
	}

	return page, nil
}

func parseDecimal(p Params, key string) (*decimal.Decimal, error) {
	raw := p.get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, model.NewInvalidNumberError(key, raw)
	}
	if d.IsNegative() {
		return nil, model.NewInvalidParamError(validation.Errors{key: validation.NewError("validation_min_greater_equal_than_required", "must be no less than 0")})
	}
	return &d, nil
}

func parseFloat(p Params, key string, rules ...validation.Rule) (*float64, error) {
	raw := p.get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, model.NewInvalidNumberError(key, raw)
	}
	if err := validation.Validate(v, rules...); err != nil {
		return nil, model.NewInvalidParamError(validation.Errors{key: err})
	}
	return &v, nil
}

func parseInt(p Params, key string, rules ...validation.Rule) (*int, error) {
	raw := p.get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	v := int(n)
	if err != nil {
		// Accept integral JSON numbers such as "7.0".
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return nil, model.NewInvalidNumberError(key, raw)
		}
		v = int(f)
	}
	if err := validation.Validate(v, rules...); err != nil {
		return nil, model.NewInvalidParamError(validation.Errors{key: err})
	}
	return &v, nil
}
