// Package present builds read-only view models from a store snapshot.
// Nothing here mutates the state it is given.
package present

import (
	"fmt"
	"strings"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/filters"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

const (
	BannerLoading = "loading"
	BannerError   = "error"
	BannerEmpty   = "empty"
)

// Banner replaces the result list when there is nothing to show.
type Banner struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ImageURL    string   `json:"image_url,omitempty"`
	URL         string   `json:"url,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Price       string   `json:"price,omitempty"`
	Categories  []string `json:"categories"`
	Address     string   `json:"address,omitempty"`
	Distance    string   `json:"distance,omitempty"`
	IsClosed    bool     `json:"is_closed"`
}

type ListView struct {
	ViewType    filters.ViewType `json:"view_type"`
	Heading     string           `json:"heading,omitempty"`
	Range       string           `json:"range,omitempty"`
	PriceFilter string           `json:"price_filter,omitempty"`
	PriceChips  []PriceChip      `json:"price_chips"`
	Cards       []Card           `json:"cards"`
	Banner      *Banner          `json:"banner,omitempty"`
}

// PriceChip is one toggle of the price filter bar.
type PriceChip struct {
	Tier     filters.PriceTier `json:"tier"`
	Label    string            `json:"label"`
	Selected bool              `json:"selected"`
}

func priceChips(price string) []PriceChip {
	opts := filters.PriceOptions()
	out := make([]PriceChip, 0, len(opts))
	for _, o := range opts {
		t := filters.PriceTier(o.Value)
		out = append(out, PriceChip{Tier: t, Label: o.Label, Selected: filters.HasPrice(price, t)})
	}
	return out
}

type GridView struct {
	ListView
	Columns int      `json:"columns"`
	Rows    [][]Card `json:"rows"`
}

// banner returns what should stand in for the results, if anything.
// Before the first search there is neither results nor banner.
func banner(st store.State) *Banner {
	switch {
	case !st.HasSearched:
		return nil
	case st.IsLoading:
		return &Banner{Kind: BannerLoading, Title: "Searching restaurants..."}
	case st.Error != nil:
		return &Banner{Kind: BannerError, Title: "Error", Message: *st.Error}
	case len(st.Restaurants) == 0:
		return &Banner{
			Kind:    BannerEmpty,
			Title:   "No results found",
			Message: "Try adjusting your search criteria to find more restaurants.",
		}
	}
	return nil
}

func List(st store.State) ListView {
	v := ListView{
		ViewType:    st.SearchParams.View(),
		PriceFilter: PriceLabel(st.SearchParams.Price),
		PriceChips:  priceChips(st.SearchParams.Price),
		Cards:       []Card{},
		Banner:      banner(st),
	}
	if v.Banner != nil || !st.HasSearched {
		return v
	}

	for _, r := range st.Restaurants {
		v.Cards = append(v.Cards, card(r))
	}
	v.Heading = "Search Results"
	if st.TotalResults > 0 {
		v.Heading = fmt.Sprintf("Found %d restaurants", st.TotalResults)
	}
	v.Range = rangeText(st)
	return v
}

// Grid lays the list cards out in rows of cols; cols outside 1..6 becomes 3.
func Grid(st store.State, cols int) GridView {
	if cols < 1 || cols > 6 {
		cols = 3
	}
	g := GridView{ListView: List(st), Columns: cols, Rows: [][]Card{}}
	for i := 0; i < len(g.Cards); i += cols {
		end := min(i+cols, len(g.Cards))
		g.Rows = append(g.Rows, g.Cards[i:end])
	}
	return g
}

func rangeText(st store.State) string {
	n := len(st.Restaurants)
	if n == 0 {
		return ""
	}
	offset := 0
	if st.SearchParams.Offset != nil {
		offset = *st.SearchParams.Offset
	}
	total := max(st.TotalResults, offset+n)
	return fmt.Sprintf("Showing %d-%d of %d", offset+1, offset+n, total)
}

func card(r model.Restaurant) Card {
	cats := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, c.Title)
	}
	c := Card{
		ID:          r.ID,
		Name:        r.Name,
		ImageURL:    r.ImageURL,
		URL:         r.URL,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Price:       r.Price,
		Categories:  cats,
		Address:     address(r.Location),
		IsClosed:    r.IsClosed != nil && *r.IsClosed,
	}
	if r.Distance != nil {
		c.Distance = FormatDistance(*r.Distance)
	}
	return c
}

func address(l model.Location) string {
	if len(l.DisplayAddress) > 0 {
		return strings.Join(l.DisplayAddress, ", ")
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Address1, l.City, l.ZipCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// FormatDistance renders meters as kilometers with one decimal. Zero means
// the provider did not know.
func FormatDistance(meters float64) string {
	if meters <= 0 {
		return "Unknown distance"
	}
	return fmt.Sprintf("%.1f km away", meters/1000)
}

// PriceLabel renders a price filter string as its dollar labels, e.g.
// "1,3" -> "$, $$$". Unknown tiers are skipped.
func PriceLabel(price string) string {
	var out []string
	for _, t := range filters.PriceTiers(price) {
		if t.Valid() {
			out = append(out, t.Label())
		}
	}
	return strings.Join(out, ", ")
}
