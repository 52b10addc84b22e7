package curve

import "git.lost.host/meutraa/circles/internal/game"

const catmullDetail = 50

// catmull samples a uniform Catmull-Rom spline through points. The
// first span repeats the start point as its outer neighbour and the last span
// extrapolates one past the end.
func catmull(points []game.Vec2) []game.Vec2 {
	if len(points) < 2 {
		return points
	}
	out := []game.Vec2{points[0]}
	for i := 0; i < len(points)-1; i++ {
		v1 := points[i]
		if i > 0 {
			v1 = points[i-1]
		}
		v2 := points[i]
		v3 := points[i+1]
		v4 := v3.Scale(2).Sub(v2)
		if i+2 < len(points) {
			v4 = points[i+2]
		}
		for c := 1; c <= catmullDetail; c++ {
			out = append(out, catmullPoint(v1, v2, v3, v4, float64(c)/catmullDetail))
		}
	}
	return out
}

func catmullPoint(v1, v2, v3, v4 game.Vec2, t float64) game.Vec2 {
	t2 := t * t
	t3 := t2 * t
	f := func(a, b, c, d float64) float64 {
		return 0.5 * (2*b + (-a+c)*t + (2*a-5*b+4*c-d)*t2 + (-a+3*b-3*c+d)*t3)
	}
	return game.Vec2{X: f(v1.X, v2.X, v3.X, v4.X), Y: f(v1.Y, v2.Y, v3.Y, v4.Y)}
}
