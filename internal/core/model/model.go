// Package model defines core domain types shared across the service.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Region struct {
	Center Coordinates `json:"center"`
}

type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type Location struct {
	Address1       string   `json:"address1,omitempty"`
	Address2       string   `json:"address2,omitempty"`
	Address3       string   `json:"address3,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	ZipCode        string   `json:"zip_code,omitempty"`
	Country        string   `json:"country,omitempty"`
	DisplayAddress []string `json:"display_address,omitempty"`
	CrossStreets   string   `json:"cross_streets,omitempty"`
}

type OpenSpan struct {
	Day         int    `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsOvernight bool   `json:"is_overnight"`
}

type Hours struct {
	HourType  string     `json:"hour_type,omitempty"`
	Open      []OpenSpan `json:"open"`
	IsOpenNow bool       `json:"is_open_now"`
}

type Restaurant struct {
	ID           string         `json:"id"`
	Alias        string         `json:"alias,omitempty"`
	Name         string         `json:"name"`
	ImageURL     string         `json:"image_url,omitempty"`
	URL          string         `json:"url,omitempty"`
	IsClosed     *bool          `json:"is_closed,omitempty"`
	ReviewCount  int            `json:"review_count"`
	Rating       float64        `json:"rating"`
	Price        string         `json:"price,omitempty"`
	Categories   []Category     `json:"categories"`
	Location     Location       `json:"location"`
	Coordinates  *Coordinates   `json:"coordinates,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	DisplayPhone string         `json:"display_phone,omitempty"`
	Distance     *float64       `json:"distance,omitempty"`
	Transactions []string       `json:"transactions,omitempty"`
	Photos       []string       `json:"photos,omitempty"`
	Hours        []Hours        `json:"hours,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

// SearchResult is the canonical response shape handed to the store
type SearchResult struct {
	Restaurants []Restaurant `json:"restaurants"`
	Total       int          `json:"total"`
	Region      *Region      `json:"region,omitempty"`
}

// MapLocation is the simplified per-restaurant payload of a map-oriented response
type MapLocation struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Rating      float64     `json:"rating"`
	Price       string      `json:"price,omitempty"`
	Categories  []string    `json:"categories"`
	ImageURL    string      `json:"image_url,omitempty"`
}

// UnmarshalJSON accepts both {"alias","title"} objects and bare title strings,
// which older list payloads send.
func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = Category{Alias: slug(s), Title: s}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = Category(p)
	return nil
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '/':
			b.WriteByte('_')
		}
	}
	return b.String()
}
