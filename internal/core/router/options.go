package router

import (
	"net/http"

	"github.com/mohammed-shakir/restaurant-recommender/internal/clientprofile"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
)

// FormOptions lists the selectable values of the search and client forms.
type FormOptions struct {
	SortBy             []filters.Option `json:"sortBy"`
	ViewType           []filters.Option `json:"viewType"`
	Price              []filters.Option `json:"price"`
	ClientDesignation  []filters.Option `json:"clientDesignation"`
	MeetingPurpose     []filters.Option `json:"meetingPurpose"`
	RelationshipStatus []filters.Option `json:"relationshipStatus"`
	MeetingDuration    []filters.Option `json:"meetingDuration"`
}

func Options() http.HandlerFunc {
	opts := FormOptions{
		SortBy:             filters.SortOptions(),
		ViewType:           filters.ViewOptions(),
		Price:              filters.PriceOptions(),
		ClientDesignation:  clientprofile.DesignationOptions(),
		MeetingPurpose:     clientprofile.PurposeOptions(),
		RelationshipStatus: clientprofile.RelationshipOptions(),
		MeetingDuration:    clientprofile.DurationOptions(),
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, opts)
	}
}
