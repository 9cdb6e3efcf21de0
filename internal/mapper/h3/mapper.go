package h3mapper

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
	"github.com/mohammed-shakir/restaurant-recommender/internal/mapper"
)

type Mapper struct{}

var _ mapper.Interface = (*Mapper)(nil)

func New() *Mapper { return &Mapper{} }

// CellForPoint returns the cell containing p at res.
func (m *Mapper) CellForPoint(p model.Coordinates, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return "", fmt.Errorf("coordinates out of range: %v,%v", p.Latitude, p.Longitude)
	}
	c, err := h3.LatLngToCell(h3.LatLng{Lat: p.Latitude, Lng: p.Longitude}, res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return c.String(), nil
}

// CellCenter returns the centroid of cell.
func (m *Mapper) CellCenter(cell string) (model.Coordinates, error) {
	c, err := parse(cell)
	if err != nil {
		return model.Coordinates{}, err
	}
	ll, err := h3.CellToLatLng(c)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("h3 center: %w", err)
	}
	return model.Coordinates{Latitude: ll.Lat, Longitude: ll.Lng}, nil
}

// --- helpers ---

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

func parse(cell string) (h3.Cell, error) {
	var c h3.Cell
	if err := c.UnmarshalText([]byte(cell)); err != nil {
		return 0, fmt.Errorf("parse cell: %w", err)
	}
	if !c.IsValid() {
		return 0, fmt.Errorf("invalid h3 cell %q", cell)
	}
	return c, nil
}
