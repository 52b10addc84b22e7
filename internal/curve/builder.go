package curve

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

// Build samples the control point sections of a slider and fits the result
// to length. A length of zero or less keeps the natural length of the
// geometry. It returns the path and the resolved length.
//
// Sections with no points produce an empty path; callers decide where such a
// slider lives.
func Build(t game.CurveType, sections [][]game.Vec2, length float64) (Path, float64) {
	var points []game.Vec2
	extend := extendLast

	switch t {
	case game.CurveLinear:
		points = join(sections)
	case game.CurvePerfect:
		all := join(sections)
		if len(all) != 3 {
			points = bezier(sections)
			break
		}
		arc, ok := circularArc(all[0], all[1], all[2])
		switch {
		case ok:
			points = arc
			extend = appendSegment
		case all[0] == all[2]:
			points = bezier([][]game.Vec2{all[:2], all[1:]})
		default:
			points = []game.Vec2{all[0], all[2]}
		}
	case game.CurveCatmull:
		points = catmull(join(sections))
	default:
		points = bezier(sections)
	}

	return fit(points, length, extend)
}

type extension int

const (
	// extendLast moves the final point along the last segment.
	extendLast extension = iota
	// appendSegment adds a straight segment after the final point.
	appendSegment
)

// fit truncates or extends points so the polyline measures length, then
// derives completions by arc length.
func fit(points []game.Vec2, length float64, extend extension) (Path, float64) {
	switch len(points) {
	case 0:
		return Path{}, math.Max(0, length)
	case 1:
		return Point(points[0]), math.Max(0, length)
	}

	cumulative := cumulativeLengths(points)
	natural := cumulative[len(cumulative)-1]
	if natural == 0 {
		return Point(points[0]), math.Max(0, length)
	}
	if length <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		length = natural
	}

	const epsilon = 1e-7
	switch {
	case length < natural-epsilon:
		points, cumulative = truncate(points, cumulative, length)
	case length > natural+epsilon:
		points, cumulative = extendTo(points, cumulative, length, extend)
	}

	total := cumulative[len(cumulative)-1]
	completions := make([]float64, len(points))
	for i, l := range cumulative {
		completions[i] = l / total
	}
	completions[len(completions)-1] = 1
	return Path{Points: points, Completions: completions}, length
}

func cumulativeLengths(points []game.Vec2) []float64 {
	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + points[i].Dist(points[i-1])
	}
	return cumulative
}

func truncate(points []game.Vec2, cumulative []float64, length float64) ([]game.Vec2, []float64) {
	i := 1
	for i < len(points)-1 && cumulative[i] < length {
		i++
	}
	seg := cumulative[i] - cumulative[i-1]
	end := points[i]
	if seg > 0 {
		end = points[i-1].Lerp(points[i], (length-cumulative[i-1])/seg)
	}
	out := append(append([]game.Vec2{}, points[:i]...), end)
	lengths := append(append([]float64{}, cumulative[:i]...), length)
	return out, lengths
}

func extendTo(points []game.Vec2, cumulative []float64, length float64, extend extension) ([]game.Vec2, []float64) {
	// The direction comes from the last segment that has one.
	last := len(points) - 1
	j := last
	for j > 0 && points[j] == points[j-1] {
		j--
	}
	dir := points[j].Sub(points[j-1]).Normalize()

	out := append([]game.Vec2{}, points...)
	lengths := append([]float64{}, cumulative...)
	if extend == appendSegment {
		out = append(out, points[last].Add(dir.Scale(length-cumulative[last])))
		return out, append(lengths, length)
	}
	// Rewind to the start of the final moving segment and reach length from there.
	out = out[:j+1]
	lengths = lengths[:j+1]
	out[j] = points[j-1].Add(dir.Scale(length - cumulative[j-1]))
	lengths[j] = length
	return out, lengths
}

// join concatenates sections, dropping points repeated at the joins.
func join(sections [][]game.Vec2) []game.Vec2 {
	var out []game.Vec2
	for _, s := range sections {
		for _, p := range s {
			if len(out) > 0 && out[len(out)-1] == p {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
