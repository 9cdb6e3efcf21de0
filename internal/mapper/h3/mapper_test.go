package h3mapper

import (
	"math"
	"testing"

	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
)

var toronto = model.Coordinates{Latitude: 43.6532, Longitude: -79.3832}

func TestCellForPoint_Deterministic(t *testing.T) {
	m := New()
	a, err := m.CellForPoint(toronto, 9)
	if err != nil {
		t.Fatalf("CellForPoint: %v", err)
	}
	b, _ := m.CellForPoint(toronto, 9)
	if a == "" || a != b {
		t.Fatalf("cells %q %q", a, b)
	}
}

func TestCellForPoint_NearbyShareCoarseCell(t *testing.T) {
	m := New()
	a, _ := m.CellForPoint(toronto, 6)
	center, err := m.CellCenter(a)
	if err != nil {
		t.Fatalf("CellCenter: %v", err)
	}
	near := model.Coordinates{Latitude: center.Latitude + 0.0005, Longitude: center.Longitude + 0.0005}
	b, _ := m.CellForPoint(near, 6)
	if a != b {
		t.Fatalf("point ~70m from the cell center should stay in it: %s vs %s", a, b)
	}
}

func TestCellCenter_CloseToPoint(t *testing.T) {
	m := New()
	cell, _ := m.CellForPoint(toronto, 10)
	c, err := m.CellCenter(cell)
	if err != nil {
		t.Fatalf("CellCenter: %v", err)
	}
	if math.Abs(c.Latitude-toronto.Latitude) > 0.01 || math.Abs(c.Longitude-toronto.Longitude) > 0.01 {
		t.Fatalf("center %v too far from %v", c, toronto)
	}
}

func TestInvalidInputs(t *testing.T) {
	m := New()
	if _, err := m.CellForPoint(toronto, 16); err == nil {
		t.Fatal("expected res error")
	}
	if _, err := m.CellForPoint(model.Coordinates{Latitude: 91}, 5); err == nil {
		t.Fatal("expected range error")
	}
	if _, err := m.CellCenter("not-a-cell"); err == nil {
		t.Fatal("expected parse error")
	}
}
