package beatmap

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

// defaultMsPerBeat is the tempo assumed by a chart without timing points.
const defaultMsPerBeat = 500

// TimingSnapshot is the tempo state governing a hit object.
type TimingSnapshot struct {
	// Point is the last timing point passed, inherited or not.
	Point         game.TimingPoint
	BaseMsPerBeat float64
	Multiplier    float64
}

// MsPerBeat is the effective beat length after the inherited multiplier.
func (s TimingSnapshot) MsPerBeat() float64 {
	return s.BaseMsPerBeat * s.Multiplier
}

// timingCursor walks timing points forward as hit objects are visited in
// time order.
type timingCursor struct {
	points []game.TimingPoint
	next   int
	state  TimingSnapshot
}

func newTimingCursor(points []game.TimingPoint) *timingCursor {
	c := &timingCursor{
		points: points,
		state:  TimingSnapshot{BaseMsPerBeat: defaultMsPerBeat, Multiplier: 1},
	}
	// The first point governs time 0 whatever its offset.
	if len(points) > 0 {
		c.apply(points[0])
		c.next = 1
	}
	return c
}

// apply decides inheritance by the sign of the beat length. The point's own
// inheritable flag is ignored.
func (c *timingCursor) apply(tp game.TimingPoint) {
	c.state.Point = tp
	if tp.MsPerBeat >= 0 {
		c.state.BaseMsPerBeat = tp.MsPerBeat
		c.state.Multiplier = 1
		return
	}
	c.state.Multiplier = math.Max(0.1, math.Min(10, -tp.MsPerBeat/100))
}

// at advances to time and returns the snapshot in effect.
func (c *timingCursor) at(time float64) TimingSnapshot {
	for c.next < len(c.points) && c.points[c.next].Offset <= time {
		c.apply(c.points[c.next])
		c.next++
	}
	return c.state
}
