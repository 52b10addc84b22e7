// Package beatmap compiles a parsed chart into processed hit objects and the
// time ordered stream of play events scored against them.
package beatmap

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/circles/internal/game"
	"github.com/sirupsen/logrus"
)

var ErrNoChart = errors.New("no chart to process")

type Options struct {
	Mods Mods
	// ComboColourSkip advances the combo number by the chart's colour skip
	// count. Without it every new combo advances by one.
	ComboColourSkip bool
	Log             logrus.FieldLogger
}

// Beatmap is a chart prepared for one play session. It is rebuilt when the
// mods change.
type Beatmap struct {
	Chart *game.Chart
	Mods  Mods
	// BaseDifficulty is the chart's own difficulty, before mods.
	BaseDifficulty game.Difficulty
	Difficulty     game.Difficulty

	Objects []HitObject
	Events  []PlayEvent
}

// Process builds the beatmap for chart. The chart itself is not modified.
func Process(chart *game.Chart, opts Options) (*Beatmap, error) {
	if chart == nil {
		return nil, ErrNoChart
	}
	if err := opts.Mods.Validate(); nil != err {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	modded := opts.Mods.ApplyChart(chart)
	b := &Beatmap{
		Chart:          modded,
		Mods:           opts.Mods,
		BaseDifficulty: chart.Difficulty,
		Difficulty:     modded.Difficulty,
		Objects:        make([]HitObject, 0, len(modded.HitObjects)),
	}

	cursor := newTimingCursor(modded.TimingPoints)
	comboNum, indexInCombo := 0, 0
	var prev HitObject
	for i, raw := range modded.HitObjects {
		timing := cursor.at(raw.Base().Time)

		var obj HitObject
		switch o := raw.(type) {
		case game.Circle:
			obj = newCircle(o)
		case game.Slider:
			s := newSlider(o, timing, b.Difficulty)
			if s.Invisible {
				log.WithFields(logrus.Fields{"object": i, "time": o.Time}).Debug("slider has no usable body")
			}
			obj = s
		case game.Spinner:
			obj = newSpinner(o, b.Difficulty)
		default:
			return nil, fmt.Errorf("unknown hit object %T at %v", raw, raw.Base().Time)
		}

		common := obj.Common()
		common.Index = i
		common.Timing = timing

		skips := raw.Base().ComboSkips
		if prev == nil || skips != 0 || isSpinner(prev) {
			advance := 1
			if opts.ComboColourSkip && skips > 0 {
				advance = skips
			}
			comboNum += advance
			indexInCombo = 0
			if prev != nil {
				prev.Common().Combo.LastInCombo = true
			}
		} else {
			indexInCombo++
		}
		common.Combo = ComboInfo{ComboNum: comboNum, IndexInCombo: indexInCombo}

		b.Objects = append(b.Objects, obj)
		prev = obj
	}
	if prev != nil {
		prev.Common().Combo.LastInCombo = true
	}

	b.ApplyStacking()
	return b, nil
}

// MaxCombo is the combo of a perfect play.
func (b *Beatmap) MaxCombo() int {
	combo := 0
	for _, e := range b.Events {
		switch e.Kind {
		case PerfectHeadHit, SliderRepeat, SliderTick, SliderEndCheck, SpinnerEnd:
			combo++
		}
	}
	return combo
}

// StartTime is the time of the first object.
func (b *Beatmap) StartTime() float64 {
	if len(b.Objects) == 0 {
		return 0
	}
	return b.Objects[0].StartTime()
}

// EndTime is the latest time any object ends.
func (b *Beatmap) EndTime() float64 {
	end := 0.0
	for _, o := range b.Objects {
		end = max(end, o.EndTime())
	}
	return end
}

// Breaks are the intervals without play.
func (b *Beatmap) Breaks() []game.Break {
	return b.Chart.Breaks
}

// DifficultyMultiplier feeds the score formula. It comes from the chart's
// difficulty before mods.
func (b *Beatmap) DifficultyMultiplier() float64 {
	return b.BaseDifficulty.ScoreMultiplier()
}

// ComboColour returns the colour for an object, or false when the chart
// defines none.
func (b *Beatmap) ComboColour(index int) (game.Colour, bool) {
	colours := b.Chart.Colours
	if len(colours) == 0 || index < 0 || index >= len(b.Objects) {
		return game.Colour{}, false
	}
	n := b.Objects[index].Common().Combo.ComboNum - 1
	return colours[n%len(colours)], true
}
