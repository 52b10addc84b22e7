package curve

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

const (
	bezierMaxStep = 0.02
	bezierMinStep = 0.001
	// bezierMaxTurn is the largest change of direction, in radians, allowed
	// between two samples.
	bezierMaxTurn = 0.05
)

// bezier samples each section and concatenates them. Two point sections are
// straight joins and pass through unchanged.
func bezier(sections [][]game.Vec2) []game.Vec2 {
	var out []game.Vec2
	add := func(p game.Vec2) {
		if len(out) > 0 && out[len(out)-1] == p {
			return
		}
		out = append(out, p)
	}
	for _, s := range sections {
		if len(s) <= 2 {
			for _, p := range s {
				add(p)
			}
			continue
		}
		for _, p := range sampleBezier(s) {
			add(p)
		}
	}
	return out
}

// sampleBezier walks the parameter space with a step that shrinks where the
// curve turns quickly. The step never exceeds bezierMaxStep, so a curve gets
// at least 50 samples.
func sampleBezier(points []game.Vec2) []game.Vec2 {
	d1 := derivative(points)
	d2 := derivative(d1)

	out := []game.Vec2{points[0]}
	for t := 0.0; t < 1; {
		step := bezierMaxStep
		v := deCasteljau(d1, t)
		if speed := v.Len(); speed > 0 {
			a := deCasteljau(d2, t)
			// dθ/dt of the tangent direction.
			turn := math.Abs(v.Cross(a)) / (speed * speed)
			if turn > 0 {
				step = math.Max(bezierMinStep, math.Min(bezierMaxStep, bezierMaxTurn/turn))
			}
		}
		t = math.Min(1, t+step)
		out = append(out, deCasteljau(points, t))
	}
	return out
}

// derivative returns the control points of the derivative curve.
func derivative(points []game.Vec2) []game.Vec2 {
	n := len(points) - 1
	if n < 1 {
		return []game.Vec2{{}}
	}
	out := make([]game.Vec2, n)
	for i := range out {
		out[i] = points[i+1].Sub(points[i]).Scale(float64(n))
	}
	return out
}

func deCasteljau(points []game.Vec2, t float64) game.Vec2 {
	work := make([]game.Vec2, len(points))
	copy(work, points)
	for n := len(work) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			work[i] = work[i].Lerp(work[i+1], t)
		}
	}
	return work[0]
}
