package main

import (
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/circles/internal/config"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/render"
	"git.lost.host/meutraa/circles/internal/score"
)

type cell struct {
	row, col int
	message  string
}

// recorder is a 40x160 terminal that keeps everything filled into it.
type recorder struct {
	cells []cell
}

func (r *recorder) Init() error                                      { return nil }
func (r *recorder) Deinit() error                                    { return nil }
func (r *recorder) Size() (int, int)                                 { return 40, 160 }
func (r *recorder) AddDecoration(row, col int, s string, frames int) {}
func (r *recorder) Clear()                                           { r.cells = nil }
func (r *recorder) Fill(row, col int, message string) {
	r.cells = append(r.cells, cell{row, col, message})
}

func (r *recorder) RenderLoop(framePeriod time.Duration, frame func(time.Duration) bool) {
	for frame(framePeriod) {
	}
}

func (r *recorder) FillColor(row, col int, c game.Colour, message string) {
	r.Fill(row, col, message)
}

func (r *recorder) has(want cell) bool {
	for _, c := range r.cells {
		if c == want {
			return true
		}
	}
	return false
}

func newTestSession(t *testing.T) (*session, *recorder) {
	t.Helper()
	p, _ := program(t, config.Play, 0, filepath.Join(t.TempDir(), "scores.db"))
	p.Config.Keys = []rune("zx")
	p.Config.HoldWindow = 100 * time.Millisecond
	p.Config.FramePeriod = 8 * time.Millisecond
	r := &recorder{}
	p.Renderer = r
	return newSession(p), r
}

func TestFrameKeyRepeatsAfterNow(t *testing.T) {
	s, _ := newTestSession(t)
	events := make(chan input.Event, 4)

	events <- input.Event{Rune: 'z', Time: 1000}
	s.frame(1000, events)
	events <- input.Event{Rune: 'z', Time: 2000}
	s.frame(2000, events)
	// The slider runs 2000 to 2500. Each repeat is read a little after the
	// frame it lands in.
	for now := 2020.0; now <= 2600; now += 20 {
		events <- input.Event{Rune: 'z', Time: now + 10}
		s.frame(now, events)
		if !s.hold.Held(now) {
			t.Fatalf("key not held at %v", now)
		}
	}

	if want := (score.Counts{Hit300: 2}); s.proc.Counts != want {
		t.Errorf("counts = %+v, want %+v", s.proc.Counts, want)
	}
	if s.proc.Combo != s.proc.MaxCombo || s.proc.Combo <= 2 {
		t.Errorf("combo %v of max %v", s.proc.Combo, s.proc.MaxCombo)
	}
	if !s.resolved[0] || !s.resolved[1] {
		t.Errorf("resolved = %v", s.resolved)
	}
}

func TestFrameDrawsApproachCircle(t *testing.T) {
	s, r := newTestSession(t)
	events := make(chan input.Event)
	s.frame(700, events)

	b := s.b
	vp := render.NewViewport(40, 160, hudWidth)
	c := b.Objects[0].Common()
	row, col := vp.Project(c.StartPoint)
	untilHit := (c.Start - 700) / b.Difficulty.ApproachTime()
	rc := vp.Radius(b.Difficulty.CircleRadius() * (1 + 3*untilHit))
	if rc <= 2 {
		t.Fatalf("approach radius %v columns", rc)
	}

	ring := s.p.Theme.RenderApproachCircle()
	for _, want := range []cell{
		{row, col - rc, ring},
		{row, col + rc, ring},
		{row - rc/2, col, ring},
		{row + rc/2, col, ring},
		{row, col - 1, s.p.Theme.RenderHead(1, untilHit)},
	} {
		if !r.has(want) {
			t.Errorf("nothing drawn as %+v", want)
		}
	}
}
