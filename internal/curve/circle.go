package curve

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

// arcMaxSegment is the longest chord, in osu!pixels, used to sample an arc.
const arcMaxSegment = 4.0

// circularArc samples the arc from a through b to c. It reports false when
// the points are collinear (including coincident points).
func circularArc(a, b, c game.Vec2) ([]game.Vec2, bool) {
	aSq := b.Sub(c).Dot(b.Sub(c))
	bSq := a.Sub(c).Dot(a.Sub(c))
	cSq := a.Sub(b).Dot(a.Sub(b))

	s := aSq * (bSq + cSq - aSq)
	t := bSq * (aSq + cSq - bSq)
	u := cSq * (aSq + bSq - cSq)
	sum := s + t + u
	if math.Abs(sum) < 1e-6 || math.Abs(b.Sub(a).Cross(c.Sub(a))) < 1e-6 {
		return nil, false
	}

	centre := a.Scale(s).Add(b.Scale(t)).Add(c.Scale(u)).Scale(1 / sum)
	dA := a.Sub(centre)
	dC := c.Sub(centre)
	radius := dA.Len()

	start := dA.Angle()
	end := dC.Angle()
	for end < start {
		end += 2 * math.Pi
	}
	dir := 1.0
	theta := end - start

	// Go the other way round when b is not on the counter-clockwise arc.
	ortho := c.Sub(a)
	ortho = game.Vec2{X: ortho.Y, Y: -ortho.X}
	if ortho.Dot(b.Sub(a)) < 0 {
		dir = -dir
		theta = 2*math.Pi - theta
	}

	n := int(math.Max(2, math.Ceil(radius*theta/arcMaxSegment)+1))
	out := make([]game.Vec2, n)
	for i := range out {
		angle := start + dir*float64(i)/float64(n-1)*theta
		out[i] = centre.Add(game.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(radius))
	}
	out[0], out[n-1] = a, c
	return out, true
}
