// Package request turns a validated filter set into the query the provider
// receives.
package request

import (
	"net/url"
	"strconv"

	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

type param struct {
	key string
	val any
}

// params lists every provider-facing field; view_type stays local.
func params(f filters.SearchFilters) []param {
	return []param{
		{"location", f.Location},
		{"latitude", f.Latitude},
		{"longitude", f.Longitude},
		{"term", f.Term},
		{"radius", f.Radius},
		{"categories", f.Categories},
		{"locale", f.Locale},
		{"price", f.Price},
		{"open_now", f.OpenNow},
		{"open_at", f.OpenAt},
		{"attributes", f.Attributes},
		{"sort_by", string(f.SortBy)},
		{"limit", f.Limit},
		{"offset", f.Offset},
		{"reservation_date", f.ReservationDate},
		{"reservation_time", f.ReservationTime},
		{"reservation_covers", f.ReservationCovers},
	}
}

// Build encodes f as query parameters. Unset values are dropped; explicit
// zero and false are kept.
func Build(f filters.SearchFilters) url.Values {
	v := url.Values{}
	for _, p := range params(f) {
		if s, ok := encode(p.val); ok {
			v.Set(p.key, s)
		}
	}
	return v
}

// Body is Build for JSON transports: same omissions, native JSON types.
func Body(f filters.SearchFilters) map[string]any {
	out := map[string]any{}
	for _, p := range params(f) {
		switch t := p.val.(type) {
		case string:
			if t != "" {
				out[p.key] = t
			}
		case *float64:
			if t != nil {
				out[p.key] = *t
			}
		case *int:
			if t != nil {
				out[p.key] = *t
			}
		case *int64:
			if t != nil {
				out[p.key] = *t
			}
		case *bool:
			if t != nil {
				out[p.key] = *t
			}
		}
	}
	return out
}

func encode(val any) (string, bool) {
	switch t := val.(type) {
	case string:
		return t, t != ""
	case *float64:
		if t == nil {
			return "", false
		}
		return strconv.FormatFloat(*t, 'f', -1, 64), true
	case *int:
		if t == nil {
			return "", false
		}
		return strconv.Itoa(*t), true
	case *int64:
		if t == nil {
			return "", false
		}
		return strconv.FormatInt(*t, 10), true
	case *bool:
		if t == nil {
			return "", false
		}
		return strconv.FormatBool(*t), true
	}
	return "", false
}
