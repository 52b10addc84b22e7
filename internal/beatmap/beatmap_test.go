package beatmap

import (
	"math"
	"strings"
	"testing"

	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/parser"
	"git.lost.host/meutraa/circles/internal/testdata"
	"github.com/sirupsen/logrus/hooks/test"
)

func parseChart(t *testing.T, text string) *game.Chart {
	t.Helper()
	log, _ := test.NewNullLogger()
	p := parser.DefaultParser{Log: log}
	chart, err := p.Parse(strings.NewReader(text))
	if nil != err {
		t.Fatalf("unable to parse chart: %v", err)
	}
	return chart
}

func process(t *testing.T, chart *game.Chart, opts Options) *Beatmap {
	t.Helper()
	if opts.Log == nil {
		log, _ := test.NewNullLogger()
		opts.Log = log
	}
	b, err := Process(chart, opts)
	if nil != err {
		t.Fatalf("unable to process chart: %v", err)
	}
	return b
}

func chartWith(d game.Difficulty, points []game.TimingPoint, objects ...game.HitObject) *game.Chart {
	return &game.Chart{Difficulty: d, TimingPoints: points, HitObjects: objects}
}

func circle(x, y, time float64, skips int) game.Circle {
	return game.Circle{BaseHO: game.BaseHO{Pos: game.Vec2{X: x, Y: y}, Time: time, ComboSkips: skips}}
}

func linear(time, length float64, repeat int) game.Slider {
	return game.Slider{
		BaseHO:    game.BaseHO{Pos: game.Vec2{X: 100, Y: 100}, Time: time},
		CurveType: game.CurveLinear,
		Sections:  [][]game.Vec2{{{X: 100, Y: 100}, {X: 400, Y: 100}}},
		Repeat:    repeat,
		Length:    length,
	}
}

func TestSliderVelocity(t *testing.T) {
	b := process(t, parseChart(t, testdata.Basic), Options{})

	s := b.Objects[1].(*Slider)
	if s.Velocity != 0.2 {
		t.Errorf("velocity = %v, want 0.2", s.Velocity)
	}
	if s.Duration != 500 || s.End != 2500 {
		t.Errorf("duration = %v, end = %v, want 500 and 2500", s.Duration, s.End)
	}
	if len(s.TickCompletions) != 1 || s.TickCompletions[0] != 0.5 {
		t.Errorf("ticks = %v, want [0.5]", s.TickCompletions)
	}
	if s.EndPoint != (game.Vec2{X: 200, Y: 100}) {
		t.Errorf("end point = %v", s.EndPoint)
	}
}

func TestInheritedMultiplier(t *testing.T) {
	b := process(t, parseChart(t, testdata.Basic), Options{})

	s := b.Objects[2].(*Slider)
	if s.Timing.Multiplier != 0.5 || s.Timing.BaseMsPerBeat != 500 {
		t.Errorf("timing = %+v, want multiplier 0.5 on 500", s.Timing)
	}
	if s.Velocity != 0.4 || s.Duration != 500 {
		t.Errorf("velocity = %v, duration = %v", s.Velocity, s.Duration)
	}
	// Two cycles end back at the head.
	if s.EndPoint != s.StartPoint {
		t.Errorf("end point %v, want head %v", s.EndPoint, s.StartPoint)
	}
	if len(s.TickCompletions) != 0 {
		t.Errorf("ticks = %v, want none", s.TickCompletions)
	}

	sp := b.Objects[3].(*Spinner)
	if sp.RequiredSpins != 10 {
		t.Errorf("required spins = %d, want 10", sp.RequiredSpins)
	}
}

func TestTimingCursor(t *testing.T) {
	points := []game.TimingPoint{
		{Offset: 500, MsPerBeat: 400, Inheritable: true},
		{Offset: 1000, MsPerBeat: -2000, Inheritable: true},
		{Offset: 2000, MsPerBeat: -1},
		{Offset: 3000, MsPerBeat: 300, Inheritable: false},
		{Offset: 4000, MsPerBeat: -50},
	}
	tests := []struct {
		time       float64
		base, mult float64
	}{
		{0, 400, 1},
		{999, 400, 1},
		{1000, 400, 10},
		{2500, 400, 0.1},
		{3000, 300, 1},
		{5000, 300, 0.5},
	}
	c := newTimingCursor(points)
	for _, tt := range tests {
		s := c.at(tt.time)
		if s.BaseMsPerBeat != tt.base || s.Multiplier != tt.mult {
			t.Errorf("at %v: base %v mult %v, want %v and %v", tt.time, s.BaseMsPerBeat, s.Multiplier, tt.base, tt.mult)
		}
	}
}

func TestCombo(t *testing.T) {
	d := game.DefaultDifficulty()
	tp := []game.TimingPoint{{MsPerBeat: 500, Inheritable: true}}
	chart := chartWith(d, tp,
		circle(10, 10, 1000, 0),
		circle(50, 10, 1100, 0),
		circle(90, 10, 1200, 3),
		game.Spinner{BaseHO: game.BaseHO{Time: 1500}, EndTime: 2500},
		circle(130, 10, 3000, 0),
		circle(170, 10, 3100, 0),
	)

	tests := []struct {
		skip bool
		nums []int
	}{
		{false, []int{1, 1, 2, 2, 3, 3}},
		{true, []int{1, 1, 4, 4, 5, 5}},
	}
	for _, tt := range tests {
		b := process(t, chart, Options{ComboColourSkip: tt.skip})
		for i, o := range b.Objects {
			if got := o.Common().Combo.ComboNum; got != tt.nums[i] {
				t.Errorf("skip=%v object %d combo %d, want %d", tt.skip, i, got, tt.nums[i])
			}
		}
	}

	b := process(t, chart, Options{})
	// The object after a spinner starts a combo without asking.
	last := []bool{false, true, false, true, false, true}
	index := []int{0, 1, 0, 1, 0, 1}
	for i, o := range b.Objects {
		info := o.Common().Combo
		if info.LastInCombo != last[i] || info.IndexInCombo != index[i] {
			t.Errorf("object %d combo info %+v", i, info)
		}
	}
}

func TestSliderEndTimeRounding(t *testing.T) {
	tp := []game.TimingPoint{{MsPerBeat: 500, Inheritable: true}}
	start := 123456.789
	b := process(t, chartWith(game.DefaultDifficulty(), tp, linear(start, 100, 1)), Options{})

	s := b.Objects[0].(*Slider)
	want := float64(float32(start + 500))
	if s.End != want {
		t.Errorf("end = %v, want %v", s.End, want)
	}
	if s.End == start+500 {
		t.Error("end time was not rounded to single precision")
	}
}

func TestInvisibleSliders(t *testing.T) {
	d := game.DefaultDifficulty()
	noSections := linear(1000, 100, 1)
	noSections.Sections = nil
	negative := linear(1000, -5, 1)

	tests := []struct {
		name   string
		points []game.TimingPoint
		slider game.Slider
	}{
		{"no sections", []game.TimingPoint{{MsPerBeat: 500}}, noSections},
		{"negative length", []game.TimingPoint{{MsPerBeat: 500}}, negative},
		{"endless", []game.TimingPoint{{MsPerBeat: 1e40}}, linear(1000, 100, 1)},
	}
	for _, tt := range tests {
		b := process(t, chartWith(d, tt.points, tt.slider), Options{})
		s := b.Objects[0].(*Slider)
		if !s.Invisible {
			t.Errorf("%s: slider is visible", tt.name)
			continue
		}
		if math.IsInf(s.End, 0) || math.IsNaN(s.End) {
			t.Errorf("%s: end = %v", tt.name, s.End)
		}
		kinds := map[EventKind]int{}
		for _, e := range b.Events {
			kinds[e.Kind]++
		}
		if kinds[SliderSlide] != 0 || kinds[PerfectHeadHit] != 1 || kinds[SliderEnd] != 1 {
			t.Errorf("%s: events %v", tt.name, kinds)
		}
		if b.MaxCombo() != 2 {
			t.Errorf("%s: max combo %d, want 2", tt.name, b.MaxCombo())
		}
	}

	b := process(t, chartWith(d, []game.TimingPoint{{MsPerBeat: 1e40}}, linear(1000, 100, 1)), Options{})
	if s := b.Objects[0].(*Slider); s.End != s.Start || s.Duration != 0 {
		t.Errorf("endless slider ends at %v, want its start", s.End)
	}
}

func TestTicks(t *testing.T) {
	d := game.DefaultDifficulty()
	d.TR = 4
	tp := []game.TimingPoint{{MsPerBeat: 400, Inheritable: true}}

	tests := []struct {
		length float64
		repeat int
		want   []float64
	}{
		{90, 1, []float64{25.0 / 90, 50.0 / 90, 75.0 / 90}},
		{90, 2, []float64{25.0 / 90, 50.0 / 90, 75.0 / 90, 2 - 75.0/90, 2 - 50.0/90, 2 - 25.0/90}},
		// The tick at 100px lands 4ms before the end.
		{101, 1, []float64{25.0 / 101, 50.0 / 101, 75.0 / 101}},
		{20, 3, nil},
	}
	for _, tt := range tests {
		b := process(t, chartWith(d, tp, linear(0, tt.length, tt.repeat)), Options{})
		got := b.Objects[0].(*Slider).TickCompletions
		if len(got) != len(tt.want) {
			t.Errorf("length %v repeat %d: ticks %v, want %v", tt.length, tt.repeat, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("length %v repeat %d: ticks %v, want %v", tt.length, tt.repeat, got, tt.want)
				break
			}
		}
	}
}

func TestSliderPosition(t *testing.T) {
	tp := []game.TimingPoint{{MsPerBeat: 500, Inheritable: true}}
	// 0.2 px/ms, 200px: 1000ms per cycle.
	b := process(t, chartWith(game.DefaultDifficulty(), tp, linear(0, 200, 3)), Options{})
	s := b.Objects[0].(*Slider)

	tests := []struct {
		time float64
		x    float64
	}{
		{-100, 100},
		{0, 100},
		{500, 200},
		{1000, 300},
		{1500, 200},
		{2000, 100},
		{2250, 150},
		{3000, 300},
		{4000, 300},
	}
	for _, tt := range tests {
		if got := s.PositionAtTime(tt.time); math.Abs(got.X-tt.x) > 1e-9 || got.Y != 100 {
			t.Errorf("position at %v = %v, want x %v", tt.time, got, tt.x)
		}
	}
	if s.EndPoint != (game.Vec2{X: 300, Y: 100}) || s.TailPoint() != s.EndPoint {
		t.Errorf("end %v tail %v", s.EndPoint, s.TailPoint())
	}
}

func TestProcessNil(t *testing.T) {
	if _, err := Process(nil, Options{}); err != ErrNoChart {
		t.Errorf("err = %v, want ErrNoChart", err)
	}
	if _, err := Process(&game.Chart{}, Options{Mods: Easy | HardRock}); err == nil {
		t.Error("incompatible mods were accepted")
	}
}

func defaultDifficulty() game.Difficulty { return game.DefaultDifficulty() }

func basicTiming() []game.TimingPoint {
	return []game.TimingPoint{{MsPerBeat: 500, Inheritable: true}}
}
