// Package filters defines the recognized restaurant search parameters and
// their validation rules.
package filters

// SearchFilters is the user-editable query. Optional numbers and booleans are
// pointers so an explicit 0 or false stays distinct from "not set"; strings
// treat "" as not set.
type SearchFilters struct {
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Term       string `json:"term,omitempty"`
	Radius     *int   `json:"radius,omitempty"`
	Categories string `json:"categories,omitempty"`
	Locale     string `json:"locale,omitempty"`

	Price   string `json:"price,omitempty"`
	OpenNow *bool  `json:"open_now,omitempty"`
	OpenAt  *int64 `json:"open_at,omitempty"`

	Attributes string `json:"attributes,omitempty"`

	SortBy SortBy `json:"sort_by,omitempty"`
	Limit  *int   `json:"limit,omitempty"`
	Offset *int   `json:"offset,omitempty"`

	ReservationDate   string `json:"reservation_date,omitempty"`
	ReservationTime   string `json:"reservation_time,omitempty"`
	ReservationCovers *int   `json:"reservation_covers,omitempty"`

	ViewType ViewType `json:"view_type,omitempty"`
}

func Int(v int) *int           { return &v }
func Int64(v int64) *int64     { return &v }
func Float(v float64) *float64 { return &v }
func Bool(v bool) *bool        { return &v }

func ptrCopy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return ptrCopy(b)
	}
	return ptrCopy(a)
}

func pickStr(a, b string) string {
	if b != "" {
		return b
	}
	return a
}

// Defaults are the values a fresh form starts from.
func Defaults() SearchFilters {
	return SearchFilters{
		Term:     "restaurant",
		Radius:   Int(10000),
		SortBy:   SortBestMatch,
		Limit:    Int(20),
		Offset:   Int(0),
		ViewType: ViewList,
	}
}

// WithDefaults fills every unset field of f from Defaults.
func WithDefaults(f SearchFilters) SearchFilters {
	return Merge(Defaults(), f)
}

// Merge returns base overridden by every field set in patch.
func Merge(base, patch SearchFilters) SearchFilters {
	return SearchFilters{
		Location:          pickStr(base.Location, patch.Location),
		Latitude:          pick(base.Latitude, patch.Latitude),
		Longitude:         pick(base.Longitude, patch.Longitude),
		Term:              pickStr(base.Term, patch.Term),
		Radius:            pick(base.Radius, patch.Radius),
		Categories:        pickStr(base.Categories, patch.Categories),
		Locale:            pickStr(base.Locale, patch.Locale),
		Price:             pickStr(base.Price, patch.Price),
		OpenNow:           pick(base.OpenNow, patch.OpenNow),
		OpenAt:            pick(base.OpenAt, patch.OpenAt),
		Attributes:        pickStr(base.Attributes, patch.Attributes),
		SortBy:            SortBy(pickStr(string(base.SortBy), string(patch.SortBy))),
		Limit:             pick(base.Limit, patch.Limit),
		Offset:            pick(base.Offset, patch.Offset),
		ReservationDate:   pickStr(base.ReservationDate, patch.ReservationDate),
		ReservationTime:   pickStr(base.ReservationTime, patch.ReservationTime),
		ReservationCovers: pick(base.ReservationCovers, patch.ReservationCovers),
		ViewType:          ViewType(pickStr(string(base.ViewType), string(patch.ViewType))),
	}
}

// Clone returns a deep copy so callers never share pointer fields.
func (f SearchFilters) Clone() SearchFilters {
	return Merge(SearchFilters{}, f)
}

// HasCoordinates reports whether both latitude and longitude are set.
func (f SearchFilters) HasCoordinates() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// View returns the requested presentation mode, list when unset.
func (f SearchFilters) View() ViewType {
	if f.ViewType == "" {
		return ViewList
	}
	return f.ViewType
}
