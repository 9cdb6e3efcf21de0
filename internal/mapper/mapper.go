// Package mapper converts between coordinates and H3 cells.
package mapper

import (
	"github.com/mohammed-shakir/restaurant-recommender/internal/core/model"
)

type Interface interface {
	CellForPoint(p model.Coordinates, res int) (string, error)
	CellCenter(cell string) (model.Coordinates, error)
}
