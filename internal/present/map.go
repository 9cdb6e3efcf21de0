package present

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/mapper"
	"github.com/mohammed-shakir/restaurant-recommender/internal/store"
)

const embedBase = "https://www.google.com/maps/embed/v1/view"

type MapOptions struct {
	APIKey     string
	Zoom       int
	ClusterRes int
	Mapper     mapper.Interface // nil disables clustering
}

// Pin is one marker. Left and Top are percentages of the map box relative
// to the region center.
type Pin struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"review_count"`
	Price       string            `json:"price,omitempty"`
	Categories  string            `json:"categories,omitempty"`
	Coordinates model.Coordinates `json:"coordinates"`
	Left        float64           `json:"left"`
	Top         float64           `json:"top"`
	Cell        string            `json:"cell,omitempty"`
}

type Cluster struct {
	Cell   string            `json:"cell"`
	Center model.Coordinates `json:"center"`
	Count  int               `json:"count"`
	IDs    []string          `json:"ids"`
}

type MapView struct {
	Center   *model.Coordinates `json:"center"`
	Zoom     int                `json:"zoom"`
	EmbedURL string             `json:"embed_url,omitempty"`
	Pins     []Pin              `json:"pins"`
	Clusters []Cluster          `json:"clusters"`
	Banner   *Banner            `json:"banner,omitempty"`
	// restaurants left off the map for lack of coordinates
	Unplaced int `json:"unplaced"`
}

func Map(st store.State, opts MapOptions) MapView {
	if opts.Zoom <= 0 {
		opts.Zoom = 13
	}
	v := MapView{Zoom: opts.Zoom, Pins: []Pin{}, Clusters: []Cluster{}, Banner: banner(st)}
	if v.Banner != nil || !st.HasSearched {
		return v
	}

	center, ok := mapCenter(st)
	if !ok {
		v.Unplaced = len(st.Restaurants)
		return v
	}
	v.Center = &center
	v.EmbedURL = EmbedURL(opts.APIKey, center, opts.Zoom)

	for _, r := range st.Restaurants {
		if r.Coordinates == nil {
			v.Unplaced++
			continue
		}
		v.Pins = append(v.Pins, pin(r, center))
	}
	if opts.Mapper != nil {
		v.Clusters = clusters(v.Pins, opts.Mapper, opts.ClusterRes)
	}
	return v
}

// EmbedURL is the iframe source for the map background; "" without a key.
func EmbedURL(apiKey string, center model.Coordinates, zoom int) string {
	if apiKey == "" {
		return ""
	}
	return embedBase + "?key=" + url.QueryEscape(apiKey) +
		"&center=" + formatCoord(center.Latitude) + "," + formatCoord(center.Longitude) +
		"&zoom=" + strconv.Itoa(zoom)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// region center when the provider sent one, otherwise the mean of the pins
func mapCenter(st store.State) (model.Coordinates, bool) {
	if st.Region != nil {
		return st.Region.Center, true
	}
	var sum model.Coordinates
	n := 0
	for _, r := range st.Restaurants {
		if r.Coordinates != nil {
			sum.Latitude += r.Coordinates.Latitude
			sum.Longitude += r.Coordinates.Longitude
			n++
		}
	}
	if n == 0 {
		return model.Coordinates{}, false
	}
	return model.Coordinates{Latitude: sum.Latitude / float64(n), Longitude: sum.Longitude / float64(n)}, true
}

func pin(r model.Restaurant, center model.Coordinates) Pin {
	cats := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		cats = append(cats, c.Title)
	}
	return Pin{
		ID:          r.ID,
		Name:        r.Name,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Price:       r.Price,
		Categories:  strings.Join(cats, ", "),
		Coordinates: *r.Coordinates,
		Left:        50 + (r.Coordinates.Longitude-center.Longitude)*1000,
		Top:         50 - (r.Coordinates.Latitude-center.Latitude)*1000,
	}
}

// clusters groups pins by H3 cell and tags each pin with its cell. Largest
// clusters come first; ties break on cell id.
func clusters(pins []Pin, m mapper.Interface, res int) []Cluster {
	byCell := map[string]*Cluster{}
	for i := range pins {
		cell, err := m.CellForPoint(pins[i].Coordinates, res)
		if err != nil {
			continue
		}
		pins[i].Cell = cell
		c, ok := byCell[cell]
		if !ok {
			c = &Cluster{Cell: cell}
			if ctr, err := m.CellCenter(cell); err == nil {
				c.Center = ctr
			}
			byCell[cell] = c
		}
		c.Count++
		c.IDs = append(c.IDs, pins[i].ID)
	}

	out := make([]Cluster, 0, len(byCell))
	for _, c := range byCell {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cell < out[j].Cell
	})
	return out
}
