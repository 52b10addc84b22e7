package render

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

// cellAspect is how many times taller a terminal cell is than it is wide.
const cellAspect = 2

// Viewport fits the playfield into a block of terminal cells, leaving
// Left columns free for the HUD.
type Viewport struct {
	Top, Left     int
	Rows, Columns int
}

// NewViewport centres the playfield in the rows and columns right of left.
func NewViewport(rows, columns, left int) Viewport {
	width := float64(columns - left)
	height := float64(rows)
	scale := math.Min(width/game.PlayfieldSize.X, height*cellAspect/game.PlayfieldSize.Y)
	w := int(game.PlayfieldSize.X * scale)
	h := int(game.PlayfieldSize.Y * scale / cellAspect)
	return Viewport{
		Top:     1 + (rows-h)/2,
		Left:    1 + left + (columns-left-w)/2,
		Rows:    max(h, 1),
		Columns: max(w, 1),
	}
}

// Project maps a playfield position to a 1-based cell.
func (v Viewport) Project(p game.Vec2) (row, col int) {
	x := math.Max(0, math.Min(1, p.X/game.PlayfieldSize.X))
	y := math.Max(0, math.Min(1, p.Y/game.PlayfieldSize.Y))
	col = v.Left + int(math.Round(x*float64(v.Columns-1)))
	row = v.Top + int(math.Round(y*float64(v.Rows-1)))
	return row, col
}

// Radius is r playfield pixels in columns.
func (v Viewport) Radius(r float64) int {
	return int(math.Round(r * float64(v.Columns) / game.PlayfieldSize.X))
}
