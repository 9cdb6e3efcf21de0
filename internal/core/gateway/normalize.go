package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
)

type listPayload struct {
	Restaurants []model.Restaurant `json:"restaurants"`
	Businesses  []model.Restaurant `json:"businesses"`
	Total       *int               `json:"total"`
	Region      *model.Region      `json:"region"`
}

type mapPayload struct {
	Locations []model.MapLocation `json:"locations"`
	Total     *int                `json:"total"`
	Region    *model.Region       `json:"region"`
}

type envelope struct {
	listPayload
	Map  *mapPayload  `json:"map"`
	List *listPayload `json:"list"`
}

// Normalize decodes any of the provider response shapes into one
// SearchResult: a top-level list (restaurants or businesses), or the
// {map, list} split sharing a region.
func Normalize(body []byte) (model.SearchResult, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return model.SearchResult{}, fmt.Errorf("decode search response: %w", err)
	}

	if env.Map == nil && env.List == nil {
		return fromList(env.listPayload), nil
	}

	var res model.SearchResult
	if env.List != nil {
		res = fromList(*env.List)
	}
	if env.Map != nil {
		if len(res.Restaurants) == 0 && len(env.Map.Locations) > 0 {
			res.Restaurants = dedupe(fromMapLocations(env.Map.Locations))
			res.Total = len(res.Restaurants)
		}
		if env.List == nil || env.List.Total == nil {
			if env.Map.Total != nil {
				res.Total = *env.Map.Total
			}
		}
		if res.Region == nil {
			res.Region = env.Map.Region
		}
	}
	if res.Restaurants == nil {
		res.Restaurants = []model.Restaurant{}
	}
	return res, nil
}

func fromList(p listPayload) model.SearchResult {
	items := p.Restaurants
	if len(items) == 0 {
		items = p.Businesses
	}
	items = dedupe(items)
	total := len(items)
	if p.Total != nil && *p.Total >= 0 {
		total = *p.Total
	}
	return model.SearchResult{Restaurants: items, Total: total, Region: p.Region}
}

func fromMapLocations(locs []model.MapLocation) []model.Restaurant {
	out := make([]model.Restaurant, 0, len(locs))
	for _, l := range locs {
		coords := l.Coordinates
		cats := make([]model.Category, 0, len(l.Categories))
		for _, c := range l.Categories {
			cats = append(cats, model.Category{Title: c})
		}
		out = append(out, model.Restaurant{
			ID:          l.ID,
			Name:        l.Name,
			ImageURL:    l.ImageURL,
			Rating:      l.Rating,
			Price:       l.Price,
			Categories:  cats,
			Coordinates: &coords,
		})
	}
	return out
}

// ids are unique within a result set; the first occurrence wins. Categories
// always encode as a list.
func dedupe(items []model.Restaurant) []model.Restaurant {
	out := make([]model.Restaurant, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, r := range items {
		if r.Categories == nil {
			r.Categories = []model.Category{}
		}
		if r.ID != "" {
			if _, ok := seen[r.ID]; ok {
				continue
			}
			seen[r.ID] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}
