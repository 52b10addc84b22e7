package beatmap

import (
	"cmp"
	"slices"

	"git.lost.host/meutraa/circles/internal/game"
)

type EventKind uint8

const (
	PerfectHeadHit EventKind = iota
	HeadHitWindowEnd
	SliderSlide
	SliderRepeat
	SliderTick
	SliderEndCheck
	SliderEnd
	SpinnerSpin
	SpinnerEnd
)

var eventNames = [...]string{
	PerfectHeadHit:   "head",
	HeadHitWindowEnd: "head-window-end",
	SliderSlide:      "slide",
	SliderRepeat:     "repeat",
	SliderTick:       "tick",
	SliderEndCheck:   "end-check",
	SliderEnd:        "slider-end",
	SpinnerSpin:      "spin",
	SpinnerEnd:       "spinner-end",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// PlayEvent is one scorable moment. Sustained events span Time to EndTime.
type PlayEvent struct {
	Kind      EventKind
	Object    int
	Time      float64
	EndTime   float64
	Sustained bool

	Position    game.Vec2
	HasPosition bool
	// Index is the ordinal of a repeat or tick within its slider.
	Index int
}

// generateEvents collects the events of every object and orders them by
// time. Events at the same time keep object order, then emission order.
func generateEvents(objects []HitObject, windows game.HitWindows) []PlayEvent {
	var events []PlayEvent
	for _, o := range objects {
		events = o.AddPlayEvents(events, windows)
	}
	slices.SortStableFunc(events, func(a, b PlayEvent) int { return cmp.Compare(a.Time, b.Time) })
	return events
}
