// Package judge scores input against the play events of a beatmap.
package judge

import (
	"fmt"
	"math"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/game"
)

const (
	// FollowScale is the follow circle radius as a multiple of the circle
	// radius.
	FollowScale = 2.4
	// MaxSpinRate caps the spinner rotation counted per ms, in radians.
	MaxSpinRate = 0.05
)

// InputState is what the player is doing at an instant.
type InputState struct {
	Held   bool
	Cursor game.Vec2
}

// InputSource is sampled whenever an event needs to know the input state.
type InputSource interface {
	Sample(time float64) InputState
}

// record is the scoring state of one object.
type record struct {
	headResolved bool
	partsHit     int
	partsTotal   int

	spinning  bool
	hasAngle  bool
	lastAngle float64
	lastTime  float64
	rotation  float64
	spins     int
}

// Engine walks the event stream once, forward. Time passed to Click and Tick
// must never decrease.
type Engine struct {
	beatmap      *beatmap.Beatmap
	input        InputSource
	windows      game.HitWindows
	radius       float64
	followRadius float64
	// AutoSpin turns spinners by themselves at the maximum rate.
	AutoSpin bool

	next     int
	nextHead int
	heads    []int
	time     float64
	records  []record
	spinners []int
}

func NewEngine(b *beatmap.Beatmap, input InputSource) *Engine {
	e := &Engine{
		beatmap:      b,
		input:        input,
		windows:      b.Difficulty.HitWindows(),
		radius:       b.Difficulty.CircleRadius(),
		followRadius: b.Difficulty.CircleRadius() * FollowScale,
		AutoSpin:     b.Mods.Has(beatmap.SpunOut),
	}
	for i, o := range b.Objects {
		switch o.(type) {
		case *beatmap.Circle, *beatmap.Slider:
			e.heads = append(e.heads, i)
		}
	}
	e.Reset()
	return e
}

// Reset rewinds the engine for a new attempt.
func (e *Engine) Reset() {
	e.next = 0
	e.nextHead = 0
	e.time = math.Inf(-1)
	e.records = make([]record, len(e.beatmap.Objects))
	e.spinners = e.spinners[:0]
}

// Done reports whether every event has been judged.
func (e *Engine) Done() bool {
	return e.next >= len(e.beatmap.Events)
}

func (e *Engine) advanceTime(time float64) {
	if time < e.time {
		panic(fmt.Sprintf("judge: time went backwards from %v to %v", e.time, time))
	}
	e.time = time
}

// Tick judges every event at or before time and turns active spinners.
func (e *Engine) Tick(time float64) []game.Judgement {
	e.advanceTime(time)
	var out []game.Judgement
	for e.next < len(e.beatmap.Events) && e.beatmap.Events[e.next].Time <= time {
		out = e.process(out, e.beatmap.Events[e.next])
		e.next++
	}
	return e.spin(out, time)
}

// Click judges a press at time and pos. Only the earliest unresolved head
// can be hit, and a press earlier than the widest window is ignored.
func (e *Engine) Click(time float64, pos game.Vec2) []game.Judgement {
	e.advanceTime(time)
	var out []game.Judgement
	for e.next < len(e.beatmap.Events) && e.beatmap.Events[e.next].Time < time {
		out = e.process(out, e.beatmap.Events[e.next])
		e.next++
	}
	out = e.spin(out, time)

	index, ok := e.pendingHead()
	if !ok {
		return out
	}
	obj := e.beatmap.Objects[index].Common()
	delta := time - obj.Start
	if math.Abs(delta) > e.windows.Hit50 {
		return out
	}
	if pos.Dist(obj.StartPoint) > e.radius {
		return out
	}

	e.records[index].headResolved = true
	j := game.Judgement{
		Object:       index,
		Time:         time,
		Position:     obj.StartPoint,
		HasPosition:  true,
		Delta:        delta,
		Timed:        true,
		AffectsCombo: true,
	}
	if _, isSlider := e.beatmap.Objects[index].(*beatmap.Slider); isSlider {
		e.records[index].partsHit++
		e.records[index].partsTotal++
		j.Value = game.EdgeValue
		j.Partial = true
	} else {
		j.Value = e.windows.Judge(delta)
		j.LastInCombo = obj.Combo.LastInCombo
	}
	return append(out, j)
}

func (e *Engine) pendingHead() (int, bool) {
	for e.nextHead < len(e.heads) && e.records[e.heads[e.nextHead]].headResolved {
		e.nextHead++
	}
	if e.nextHead >= len(e.heads) {
		return 0, false
	}
	return e.heads[e.nextHead], true
}

// missHead resolves an unhit head as a miss.
func (e *Engine) missHead(out []game.Judgement, index int, time float64) []game.Judgement {
	rec := &e.records[index]
	if rec.headResolved {
		return out
	}
	rec.headResolved = true
	obj := e.beatmap.Objects[index].Common()
	j := game.Judgement{Value: game.Miss, AffectsCombo: true, Object: index, Time: time, Position: obj.StartPoint, HasPosition: true}
	if _, isSlider := e.beatmap.Objects[index].(*beatmap.Slider); isSlider {
		rec.partsTotal++
		j.Partial = true
	} else {
		j.LastInCombo = obj.Combo.LastInCombo
	}
	return append(out, j)
}

func (e *Engine) following(time float64, target game.Vec2) bool {
	in := e.input.Sample(time)
	return in.Held && in.Cursor.Dist(target) <= e.followRadius
}

func (e *Engine) process(out []game.Judgement, ev beatmap.PlayEvent) []game.Judgement {
	rec := &e.records[ev.Object]
	switch ev.Kind {
	case beatmap.HeadHitWindowEnd:
		return e.missHead(out, ev.Object, ev.Time)

	case beatmap.SliderRepeat, beatmap.SliderTick:
		value := game.TickValue
		if ev.Kind == beatmap.SliderRepeat {
			value = game.EdgeValue
		}
		rec.partsTotal++
		j := game.Judgement{Value: game.Miss, Partial: true, AffectsCombo: true, Object: ev.Object, Time: ev.Time, Position: ev.Position, HasPosition: true}
		if e.following(ev.Time, ev.Position) {
			rec.partsHit++
			j.Value = value
		}
		return append(out, j)

	case beatmap.SliderEndCheck:
		out = e.missHead(out, ev.Object, ev.Time)
		slider := e.beatmap.Objects[ev.Object].(*beatmap.Slider)
		ball := slider.PositionAtTime(ev.Time)
		rec.partsTotal++
		// A dropped end costs points but not combo.
		j := game.Judgement{Value: game.Miss, Partial: true, Object: ev.Object, Time: ev.Time, Position: ball, HasPosition: true}
		if e.following(ev.Time, ball) {
			rec.partsHit++
			j.Value = game.EdgeValue
			j.AffectsCombo = true
		}
		return append(out, j)

	case beatmap.SliderEnd:
		obj := e.beatmap.Objects[ev.Object].Common()
		return append(out, game.Judgement{
			Value:       sliderValue(rec.partsHit, rec.partsTotal),
			Object:      ev.Object,
			Time:        ev.Time,
			Position:    ev.Position,
			HasPosition: true,
			LastInCombo: obj.Combo.LastInCombo,
		})

	case beatmap.SpinnerSpin:
		rec.spinning = true
		rec.lastTime = ev.Time
		e.spinners = append(e.spinners, ev.Object)

	case beatmap.SpinnerEnd:
		out = e.turn(out, ev.Object, ev.Time)
		rec.spinning = false
		spinner := e.beatmap.Objects[ev.Object].(*beatmap.Spinner)
		return append(out, game.Judgement{
			Value:        spinnerValue(rec.rotation, spinner.RequiredSpins),
			AffectsCombo: true,
			Object:       ev.Object,
			Time:         ev.Time,
			LastInCombo:  spinner.Combo.LastInCombo,
		})
	}
	return out
}

func sliderValue(hit, total int) game.ScoreValue {
	switch {
	case total == 0 || hit == total:
		return game.Hit300
	case 2*hit >= total:
		return game.Hit100
	case hit > 0:
		return game.Hit50
	}
	return game.Miss
}

func spinnerValue(rotation float64, required int) game.ScoreValue {
	if required <= 0 {
		return game.Hit300
	}
	progress := rotation / (2 * math.Pi * float64(required))
	switch {
	case progress >= 1:
		return game.Hit300
	case progress > 0.9:
		return game.Hit100
	case progress > 0.75:
		return game.Hit50
	}
	return game.Miss
}

// spin turns every active spinner up to time and drops finished ones.
func (e *Engine) spin(out []game.Judgement, time float64) []game.Judgement {
	active := e.spinners[:0]
	for _, index := range e.spinners {
		if !e.records[index].spinning {
			continue
		}
		out = e.turn(out, index, time)
		active = append(active, index)
	}
	e.spinners = active
	return out
}

func (e *Engine) turn(out []game.Judgement, index int, time float64) []game.Judgement {
	rec := &e.records[index]
	if !rec.spinning {
		return out
	}
	elapsed := time - rec.lastTime
	rec.lastTime = time
	limit := MaxSpinRate * math.Max(0, elapsed)

	if e.AutoSpin {
		rec.rotation += limit
	} else {
		in := e.input.Sample(time)
		if !in.Held {
			rec.hasAngle = false
			return e.awardSpins(out, index, time)
		}
		angle := in.Cursor.Sub(game.PlayfieldCenter).Angle()
		if rec.hasAngle {
			delta := math.Remainder(angle-rec.lastAngle, 2*math.Pi)
			rec.rotation += math.Min(math.Abs(delta), limit)
		}
		rec.lastAngle = angle
		rec.hasAngle = true
	}
	return e.awardSpins(out, index, time)
}

// awardSpins pays for every whole turn completed since the last call.
func (e *Engine) awardSpins(out []game.Judgement, index int, time float64) []game.Judgement {
	rec := &e.records[index]
	required := e.beatmap.Objects[index].(*beatmap.Spinner).RequiredSpins
	for float64(rec.spins+1)*2*math.Pi <= rec.rotation {
		rec.spins++
		value := game.SpinValue
		if rec.spins > required {
			value = game.SpinBonusValue
		}
		out = append(out, game.Judgement{Value: value, Partial: true, Object: index, Time: time})
	}
	return out
}

// Spins returns the whole turns made on a spinner so far.
func (e *Engine) Spins(index int) int {
	return e.records[index].spins
}
