package present

import (
	"fmt"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

type DetailView struct {
	Card
	Phone        string   `json:"phone,omitempty"`
	MenuURL      string   `json:"menu_url,omitempty"`
	Reservations bool     `json:"reservations"`
	Transactions []string `json:"transactions,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	OpenNow      *bool    `json:"open_now,omitempty"`
	Hours        []string `json:"hours,omitempty"`
}

// Detail finds id among the current results.
func Detail(st store.State, id string) (DetailView, bool) {
	for _, r := range st.Restaurants {
		if r.ID == id {
			return detail(r), true
		}
	}
	return DetailView{}, false
}

func detail(r model.Restaurant) DetailView {
	d := DetailView{
		Card:         card(r),
		Phone:        r.DisplayPhone,
		Transactions: r.Transactions,
		Photos:       r.Photos,
	}
	if d.Phone == "" {
		d.Phone = r.Phone
	}
	if s, ok := r.Attributes["menu_url"].(string); ok {
		d.MenuURL = s
	}
	d.Reservations = truthy(r.Attributes["waitlist_reservation"])
	// the first entry holds the regular hours
	if len(r.Hours) > 0 {
		open := r.Hours[0].IsOpenNow
		d.OpenNow = &open
		d.Hours = FormatHours(r.Hours[0].Open)
	}
	return d
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "false"
	case float64:
		return t != 0
	}
	return false
}

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FormatHours renders each span as "Mon 11:00 - 22:00". Day 0 is Monday.
func FormatHours(spans []model.OpenSpan) []string {
	out := make([]string, 0, len(spans))
	for _, s := range spans {
		if s.Day < 0 || s.Day > 6 {
			continue
		}
		line := fmt.Sprintf("%s %s - %s", dayNames[s.Day], clock(s.Start), clock(s.End))
		if s.IsOvernight {
			line += " (next day)"
		}
		out = append(out, line)
	}
	return out
}

// "1130" -> "11:30"; anything else is returned as is
func clock(hhmm string) string {
	if len(hhmm) != 4 {
		return hhmm
	}
	return hhmm[:2] + ":" + hhmm[2:]
}
