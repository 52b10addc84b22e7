package score

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	calibrationIterations = 64
	calibrationTolerance  = 0.01
	calibrationStep       = 0.01
)

// Health drains over the play window, outside breaks, and moves with every
// judgement. It never exceeds 1 but may fall below 0.
type Health struct {
	Value float64
	// DrainRate is in health per second.
	DrainRate float64

	breaks     []game.Break
	start, end float64
	last       float64
}

// NewHealth starts full at the beginning of the play window [start, end].
func NewHealth(drainRate float64, breaks []game.Break, start, end float64) *Health {
	return &Health{Value: 1, DrainRate: drainRate, breaks: breaks, start: start, end: end, last: start}
}

func (h *Health) Reset() {
	h.Value = 1
	h.last = h.start
}

// Advance drains health up to time.
func (h *Health) Advance(time float64) {
	if time <= h.last {
		return
	}
	h.Value -= h.DrainRate * h.drainTime(h.last, time) / 1000
	h.last = time
}

// drainTime is the part of [from, to] inside the play window and outside
// every break.
func (h *Health) drainTime(from, to float64) float64 {
	from = math.Max(from, h.start)
	to = math.Min(to, h.end)
	if to <= from {
		return 0
	}
	total := to - from
	for _, b := range h.breaks {
		lo, hi := math.Max(from, b.Start), math.Min(to, b.End)
		if hi > lo {
			total -= hi - lo
		}
	}
	return math.Max(0, total)
}

// Apply drains up to the judgement and then applies its change.
func (h *Health) Apply(j game.Judgement) {
	h.Advance(j.Time)
	h.Value = math.Min(1, h.Value+HealthDelta(j))
}

func (h *Health) Failed() bool {
	return h.Value <= 0
}

// HealthDelta is the change a judgement makes to health.
func HealthDelta(j game.Judgement) float64 {
	if j.Partial {
		switch {
		case j.Value > 0:
			return 0.01
		case j.AffectsCombo:
			return -0.05
		}
		return 0
	}
	switch j.Value {
	case game.Hit300:
		return 0.05
	case game.Hit100:
		return 0.025
	case game.Hit50:
		return -0.0025
	}
	return -0.05
}

// lowest replays history at drainRate and returns the lowest health seen.
func lowest(history []game.Judgement, drainRate float64, breaks []game.Break, start, end float64) float64 {
	h := NewHealth(drainRate, breaks, start, end)
	low := h.Value
	for _, j := range history {
		h.Advance(j.Time)
		low = math.Min(low, h.Value)
		h.Apply(j)
	}
	h.Advance(end)
	return math.Min(low, h.Value)
}

// Calibrate searches for the drain rate at which a replay of history bottoms
// out at the health target for hp. The search is bounded; when it runs out
// the last rate tried is returned with ok unset. There is nothing to drain
// over an empty window or a history of at most one judgement, so the rate
// is 0.
func Calibrate(history []game.Judgement, breaks []game.Break, start, end, hp float64, log logrus.FieldLogger) (rate float64, ok bool) {
	if end <= start || len(history) <= 1 {
		return 0, true
	}
	target := game.DifficultyRange(hp, 0.95, 0.70, 0.30)
	adjustment := calibrationStep
	direction := 0
	bracketed := false
	low := 1.0

	for i := 0; i < calibrationIterations; i++ {
		low = lowest(history, rate, breaks, start, end)
		if math.Abs(low-target) <= calibrationTolerance*target {
			return rate, true
		}

		next := 1
		if low < target {
			next = -1
		}
		// Grow the step until the target is overshot, then bisect.
		switch {
		case direction != 0 && direction != next:
			bracketed = true
			adjustment /= 2
		case bracketed:
			adjustment /= 2
		case direction == next:
			adjustment *= 2
		}
		direction = next

		if rate == 0 && next < 0 {
			break
		}
		rate = math.Max(0, rate+float64(next)*adjustment)
	}

	if nil != log {
		log.WithFields(logrus.Fields{
			"rate":   rate,
			"lowest": low,
			"target": target,
		}).Warn("health drain calibration did not converge")
	}
	return rate, false
}
