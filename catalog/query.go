package catalog

import (
	"fmt"
	"insta-marketplace/errs"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

const (
	SortPriceLow  = "priceLow"
	SortPriceHigh = "priceHigh"
	SortRating    = "rating"
	SortDiscount  = "discount"
	SortReviews   = "reviews"
)

// Query narrows and orders the public catalog. The zero value matches
// everything and keeps store order.
type Query struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// ParseQuery reads a Query from request parameters.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Category: strings.TrimSpace(values.Get("category")),
		Search:   strings.TrimSpace(values.Get("q")),
		Sort:     values.Get("sort"),
	}

	var err error
	if q.MinPrice, err = parsePrice(values, "minPrice"); err != nil {
		return Query{}, err
	}
	if q.MaxPrice, err = parsePrice(values, "maxPrice"); err != nil {
		return Query{}, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return Query{}, errs.New(errs.ErrValidation, "minPrice cannot exceed maxPrice")
	}

	switch q.Sort {
	case "", SortPriceLow, SortPriceHigh, SortRating, SortDiscount, SortReviews:
	default:
		return Query{}, errs.New(errs.ErrValidation, fmt.Sprintf("Unknown sort %q", q.Sort))
	}

	if q.Page, err = parsePositive(values, "page"); err != nil {
		return Query{}, err
	}
	if q.Limit, err = parsePositive(values, "limit"); err != nil {
		return Query{}, err
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Page > 0 && q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > 0 && q.Page == 0 {
		q.Page = 1
	}
	return q, nil
}

func parsePrice(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil, errs.New(errs.ErrValidation, fmt.Sprintf("Invalid %s", key))
	}
	return &v, nil
}

func parsePositive(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errs.New(errs.ErrValidation, fmt.Sprintf("Invalid %s", key))
	}
	return v, nil
}

// Apply filters, sorts and pages views. It returns the requested page and
// the number of views that matched before paging.
func (q Query) Apply(views []ProductView) ([]ProductView, int) {
	matched := make([]ProductView, 0, len(views))
	search := strings.ToLower(q.Search)
	for _, v := range views {
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(v.Title), search) &&
			!strings.Contains(strings.ToLower(v.Seller.Name), search) {
			continue
		}
		if q.MinPrice != nil && v.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && v.Price > *q.MaxPrice {
			continue
		}
		matched = append(matched, v)
	}

	if less := q.less(matched); less != nil {
		sort.SliceStable(matched, less)
	}

	total := len(matched)
	if q.Limit == 0 {
		return matched, total
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	// compare page indexes first so huge pages cannot overflow the offset
	if total == 0 || page-1 > (total-1)/q.Limit {
		return []ProductView{}, total
	}
	start := (page - 1) * q.Limit
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func (q Query) less(v []ProductView) func(i, j int) bool {
	switch q.Sort {
	case SortPriceLow:
		return func(i, j int) bool { return v[i].Price < v[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return v[i].Price > v[j].Price }
	case SortRating:
		return func(i, j int) bool { return v[i].Rating > v[j].Rating }
	case SortDiscount:
		return func(i, j int) bool { return v[i].Discount > v[j].Discount }
	case SortReviews:
		return func(i, j int) bool { return v[i].Reviews > v[j].Reviews }
	}
	return nil
}

// IsZero reports whether q leaves the catalog untouched.
func (q Query) IsZero() bool {
	return q.Category == "" && q.Search == "" && q.MinPrice == nil && q.MaxPrice == nil &&
		q.Sort == "" && q.Limit == 0
}
