package judge

import (
	"math"
	"sort"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/game"
)

const (
	// AutoSampleRate is how many times a second Autoplay ticks the engine.
	AutoSampleRate = 60
	autoSpinRadius = 50
)

// Auto is the input of a perfect player: it rests on every head, follows
// every slider ball and turns spinners as fast as they count.
type Auto struct {
	beatmap *beatmap.Beatmap
}

func NewAuto(b *beatmap.Beatmap) *Auto {
	return &Auto{beatmap: b}
}

func (a *Auto) Sample(time float64) InputState {
	objects := a.beatmap.Objects
	// First object starting after time.
	i := sort.Search(len(objects), func(i int) bool { return objects[i].StartTime() > time })

	// The earliest object still running owns the cursor, so a circle
	// starting inside a slider body does not pull it off the ball.
	for k := 0; k < i; k++ {
		if time > objects[k].EndTime() {
			continue
		}
		switch o := objects[k].(type) {
		case *beatmap.Slider:
			return InputState{Held: true, Cursor: o.PositionAtTime(time)}
		case *beatmap.Spinner:
			angle := (time - o.Start) * MaxSpinRate
			offset := game.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(autoSpinRadius)
			return InputState{Held: true, Cursor: game.PlayfieldCenter.Add(offset)}
		}
	}

	// Travel between the previous end and the next start.
	switch {
	case len(objects) == 0:
		return InputState{Cursor: game.PlayfieldCenter}
	case i == 0:
		return InputState{Cursor: objects[0].Common().StartPoint}
	case i == len(objects):
		return InputState{Cursor: objects[i-1].Common().EndPoint}
	}
	prev, next := objects[i-1].Common(), objects[i].Common()
	span := next.Start - prev.End
	if span <= 0 {
		return InputState{Cursor: next.StartPoint}
	}
	t := math.Max(0, math.Min(1, (time-prev.End)/span))
	return InputState{Cursor: prev.EndPoint.Lerp(next.StartPoint, t)}
}

// Autoplay runs the engine over b with perfect input and returns every
// judgement in the order it was made.
func Autoplay(b *beatmap.Beatmap) []game.Judgement {
	engine := NewEngine(b, NewAuto(b))

	var heads []beatmap.PlayEvent
	for _, ev := range b.Events {
		if ev.Kind == beatmap.PerfectHeadHit {
			heads = append(heads, ev)
		}
	}

	var out []game.Judgement
	step := 1000.0 / AutoSampleRate
	next := 0
	for frame := 0; !engine.Done(); frame++ {
		t := b.StartTime() + float64(frame)*step
		for next < len(heads) && heads[next].Time <= t {
			out = append(out, engine.Click(heads[next].Time, heads[next].Position)...)
			next++
		}
		out = append(out, engine.Tick(t)...)
	}
	return out
}
