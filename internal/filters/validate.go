package filters

import (
	"fmt"
	"strings"
	"time"
)

// FieldError is a validation failure scoped to one wire field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failing field of one filter set.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid search filters: " + strings.Join(parts, "; ")
}

// Fields maps each failing field to its first message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

const (
	MaxRadius       = 40000
	MaxLimit        = 50
	MaxCovers       = 10
	MaxLocationLen  = 250
	MissingLocation = "Either location or both latitude and longitude must be provided"
)

// Validate checks f against the filter rules and returns ValidationErrors, or
// nil when f is acceptable.
func Validate(f SearchFilters) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		add("latitude", "must be between -90 and 90")
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		add("longitude", "must be between -180 and 180")
	}
	if strings.TrimSpace(f.Location) == "" && !f.HasCoordinates() {
		add("location", MissingLocation)
	}
	if len(f.Location) > MaxLocationLen {
		add("location", "must be at most %d characters", MaxLocationLen)
	}
	if f.Radius != nil && (*f.Radius < 0 || *f.Radius > MaxRadius) {
		add("radius", "must be between 0 and %d", MaxRadius)
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > MaxLimit) {
		add("limit", "must be between 1 and %d", MaxLimit)
	}
	if f.Offset != nil && *f.Offset < 0 {
		add("offset", "must be zero or greater")
	}
	if f.OpenAt != nil && *f.OpenAt < 0 {
		add("open_at", "must be a unix timestamp")
	}
	if f.ReservationCovers != nil && (*f.ReservationCovers < 1 || *f.ReservationCovers > MaxCovers) {
		add("reservation_covers", "must be between 1 and %d", MaxCovers)
	}
	if f.ReservationDate != "" {
		if _, err := time.Parse(time.DateOnly, f.ReservationDate); err != nil {
			add("reservation_date", "must be formatted YYYY-MM-DD")
		}
	}
	if f.ReservationTime != "" {
		if _, err := time.Parse("15:04", f.ReservationTime); err != nil {
			add("reservation_time", "must be formatted HH:MM")
		}
	}
	if f.SortBy != "" && !f.SortBy.Valid() {
		add("sort_by", "must be one of best_match, rating, review_count, distance")
	}
	if f.ViewType != "" && !f.ViewType.Valid() {
		add("view_type", "must be list or map")
	}
	for _, t := range PriceTiers(f.Price) {
		if !t.Valid() {
			add("price", "unknown price level %q (use 1, 2, 3, 4)", string(t))
			break
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
