package beatmap

import (
	"math"
	"testing"

	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/testdata"
)

func heights(b *Beatmap) []int {
	out := make([]int, len(b.Objects))
	for i, o := range b.Objects {
		out[i] = o.Common().StackHeight
	}
	return out
}

func TestStackHeights(t *testing.T) {
	b := process(t, parseChart(t, testdata.Stacked), Options{})

	want := []int{2, 1, 0, 0}
	got := heights(b)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack heights = %v, want %v", got, want)
		}
	}

	offset := b.Difficulty.StackOffset()
	top := b.Objects[0].Common()
	wantPoint := game.Vec2{X: 200 - 2*offset, Y: 200 - 2*offset}
	if top.StartPoint.Dist(wantPoint) > 1e-9 {
		t.Errorf("stacked start = %v, want %v", top.StartPoint, wantPoint)
	}
	if top.BaseStartPoint != (game.Vec2{X: 200, Y: 200}) {
		t.Errorf("base start moved to %v", top.BaseStartPoint)
	}
	for _, e := range b.Events {
		if e.Object == 0 && e.Kind == PerfectHeadHit && e.Position != top.StartPoint {
			t.Errorf("head event at %v, want the stacked point %v", e.Position, top.StartPoint)
		}
	}
}

func TestStackingDeterministic(t *testing.T) {
	for _, text := range []string{testdata.Stacked, testdata.Basic, testdata.Long} {
		b := process(t, parseChart(t, text), Options{})
		first := heights(b)
		points := make([]game.Vec2, len(b.Objects))
		for i, o := range b.Objects {
			points[i] = o.Common().StartPoint
		}

		b.ApplyStacking()
		second := heights(b)
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("heights changed from %v to %v", first, second)
			}
			if p := b.Objects[i].Common().StartPoint; p != points[i] {
				t.Fatalf("object %d moved from %v to %v", i, points[i], p)
			}
		}
	}
}

func TestStackOutsideThreshold(t *testing.T) {
	d := game.DefaultDifficulty()
	d.AR = 9
	tp := []game.TimingPoint{{MsPerBeat: 500}}
	// 600ms approach and 0.7 leniency give a 420ms window.
	b := process(t, chartWith(d, tp,
		circle(100, 100, 1000, 0),
		circle(101, 101, 1500, 0),
		circle(100, 100, 1900, 0),
	), Options{})

	want := []int{0, 1, 0}
	got := heights(b)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack heights = %v, want %v", got, want)
		}
	}
}

func TestStackSliderEnd(t *testing.T) {
	d := game.DefaultDifficulty()
	d.AR = 9
	tp := []game.TimingPoint{{MsPerBeat: 500}}
	s := linear(1000, 100, 1) // ends at (200, 100) at 1500
	b := process(t, chartWith(d, tp,
		s,
		circle(200, 100, 1700, 0),
		circle(200, 100, 1800, 0),
	), Options{})

	// Circles on a slider end stack downwards.
	want := []int{0, -1, -2}
	got := heights(b)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stack heights = %v, want %v", got, want)
		}
	}
	offset := b.Difficulty.StackOffset()
	if p := b.Objects[2].Common().StartPoint; math.Abs(p.X-(200+2*offset)) > 1e-9 {
		t.Errorf("lowest circle at %v", p)
	}
}
