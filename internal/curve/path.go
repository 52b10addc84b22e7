// Package curve turns slider control points into sampled paths.
package curve

import (
	"math"
	"sort"

	"git.lost.host/meutraa/circles/internal/game"
)

// Path is a polyline with the fractional arc length at every point.
// Completions is non-decreasing, starts at 0 and ends at 1, except for a
// single point path whose only completion is 0.
type Path struct {
	Points      []game.Vec2
	Completions []float64
}

// Point is the path of a slider that never moves.
func Point(p game.Vec2) Path {
	return Path{Points: []game.Vec2{p}, Completions: []float64{0}}
}

func (p Path) Empty() bool { return len(p.Points) == 0 }

func (p Path) Start() game.Vec2 {
	if p.Empty() {
		return game.Vec2{}
	}
	return p.Points[0]
}

func (p Path) End() game.Vec2 {
	if p.Empty() {
		return game.Vec2{}
	}
	return p.Points[len(p.Points)-1]
}

// segment returns i such that the completion c lies on the segment from
// point i-1 to point i.
func (p Path) segment(c float64) int {
	i := sort.SearchFloat64s(p.Completions, c)
	switch {
	case i < 1:
		return 1
	case i >= len(p.Points):
		return len(p.Points) - 1
	}
	return i
}

// PointAt returns the position at completion c, clamped to [0, 1].
func (p Path) PointAt(c float64) game.Vec2 {
	switch len(p.Points) {
	case 0:
		return game.Vec2{}
	case 1:
		return p.Points[0]
	}
	c = math.Max(0, math.Min(1, c))

	i := p.segment(c)
	if p.Completions[i] == c {
		return p.Points[i]
	}
	lo, hi := p.Completions[i-1], p.Completions[i]
	if hi <= lo {
		return p.Points[i]
	}
	return p.Points[i-1].Lerp(p.Points[i], (c-lo)/(hi-lo))
}

// AngleAt returns the direction of travel, in radians, at completion c.
func (p Path) AngleAt(c float64) float64 {
	if len(p.Points) < 2 {
		return 0
	}
	c = math.Max(0, math.Min(1, c))

	i := p.segment(c)
	for j := i; j >= 1; j-- {
		if d := p.Points[j].Sub(p.Points[j-1]); d.Len() > 0 {
			return d.Angle()
		}
	}
	for j := i + 1; j < len(p.Points); j++ {
		if d := p.Points[j].Sub(p.Points[j-1]); d.Len() > 0 {
			return d.Angle()
		}
	}
	return 0
}

// Translate returns a copy of the path moved by offset.
func (p Path) Translate(offset game.Vec2) Path {
	points := make([]game.Vec2, len(p.Points))
	for i, pt := range p.Points {
		points[i] = pt.Add(offset)
	}
	completions := make([]float64, len(p.Completions))
	copy(completions, p.Completions)
	return Path{Points: points, Completions: completions}
}
