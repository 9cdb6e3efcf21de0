// Package store holds the per-session search state. State only changes by
// passing an Action through Reduce.
package store

import (
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

// State is one session's search snapshot as the UI sees it.
type State struct {
	IsLoading    bool                  `json:"isLoading"`
	Error        *string               `json:"error"`
	SearchParams filters.SearchFilters `json:"searchParams"`
	Restaurants  []model.Restaurant    `json:"restaurants"`
	TotalResults int                   `json:"totalResults"`
	HasSearched  bool                  `json:"hasSearched"`
	Region       *model.Region         `json:"region"`
	FieldErrors  map[string]string     `json:"fieldErrors,omitempty"`

	// latest issued search token; terminal actions carrying another token
	// are discarded
	seq uint64
}

// Initial is the Idle state with params as the starting filters.
func Initial(params filters.SearchFilters) State {
	return State{
		SearchParams: params.Clone(),
		Restaurants:  []model.Restaurant{},
	}
}

// Seq returns the token of the most recently issued search.
func (s State) Seq() uint64 { return s.seq }

// Accepts reports whether a resolution tagged seq is still authoritative.
func (s State) Accepts(seq uint64) bool { return seq == s.seq }

type Action interface{ action() }

// SetFilters merges Filters into the current params without searching.
type SetFilters struct{ Filters filters.SearchFilters }

// SetPrice replaces the price tier string; "" clears it.
type SetPrice struct{ Price string }

type SearchStarted struct {
	Seq     uint64
	Filters filters.SearchFilters
}

type SearchSucceeded struct {
	Seq    uint64
	Result model.SearchResult
}

type SearchFailed struct {
	Seq     uint64
	Message string
}

// SearchRejected records local validation failures. No call is issued; a
// search still in flight is superseded so its results never land next to
// the rejected form's errors.
type SearchRejected struct{ Errors filters.ValidationErrors }

// Reset returns to Idle with Defaults and invalidates any in-flight search.
type Reset struct{ Defaults filters.SearchFilters }

func (SetFilters) action()      {}
func (SetPrice) action()        {}
func (SearchStarted) action()   {}
func (SearchSucceeded) action() {}
func (SearchFailed) action()    {}
func (SearchRejected) action()  {}
func (Reset) action()           {}

// Reduce is the transition function. It is pure: s is never modified in
// place and the returned State shares no mutable data with a.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetFilters:
		s.SearchParams = filters.Merge(s.SearchParams, a.Filters)

	case SetPrice:
		s.SearchParams = s.SearchParams.Clone()
		s.SearchParams.Price = a.Price

	case SearchStarted:
		if a.Seq <= s.seq {
			return s
		}
		s.seq = a.Seq
		s.IsLoading = true
		s.Error = nil
		s.HasSearched = true
		s.FieldErrors = nil
		s.SearchParams = a.Filters.Clone()

	case SearchSucceeded:
		if !s.Accepts(a.Seq) {
			return s
		}
		s.IsLoading = false
		s.Error = nil
		s.Restaurants = copyRestaurants(a.Result.Restaurants)
		s.TotalResults = a.Result.Total
		s.Region = copyRegion(a.Result.Region)

	case SearchFailed:
		if !s.Accepts(a.Seq) {
			return s
		}
		msg := a.Message
		s.IsLoading = false
		s.Error = &msg
		s.Restaurants = []model.Restaurant{}
		s.TotalResults = 0

	case SearchRejected:
		s.FieldErrors = a.Errors.Fields()
		if s.IsLoading {
			s.seq++
			s.IsLoading = false
		}

	case Reset:
		next := Initial(a.Defaults)
		next.seq = s.seq + 1
		return next
	}
	return s
}

func copyRestaurants(in []model.Restaurant) []model.Restaurant {
	out := make([]model.Restaurant, len(in))
	copy(out, in)
	return out
}

func copyRegion(r *model.Region) *model.Region {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// clone deep-copies the parts of s a caller could mutate.
func (s State) clone() State {
	s.SearchParams = s.SearchParams.Clone()
	s.Restaurants = copyRestaurants(s.Restaurants)
	s.Region = copyRegion(s.Region)
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	if s.FieldErrors != nil {
		fe := make(map[string]string, len(s.FieldErrors))
		for k, v := range s.FieldErrors {
			fe[k] = v
		}
		s.FieldErrors = fe
	}
	return s
}
