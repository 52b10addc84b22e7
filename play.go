package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/input"
	"git.lost.host/meutraa/circles/internal/judge"
	"git.lost.host/meutraa/circles/internal/render"
	"git.lost.host/meutraa/circles/internal/score"
)

const (
	hudWidth       = 28
	judgementMs    = 400
	fadeMs         = 200
	flashlightSize = 140
	outroMs        = 1500
)

// session is the state of one play.
type session struct {
	p        *Program
	b        *beatmap.Beatmap
	engine   *judge.Engine
	aim      *judge.Auto
	hold     *input.Hold
	proc     *score.Processor
	health   *score.Health
	resolved []bool

	now     float64
	judged  float64 // latest time handed to the engine
	failed  bool
	aborted bool
}

func (p *Program) songPath() string {
	if p.Config.AudioFile != "" {
		return p.Config.AudioFile
	}
	if p.chart.General.AudioFilename == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(p.Config.ChartFile), p.chart.General.AudioFilename)
}

func newSession(p *Program) *session {
	b := p.beatmap
	s := &session{
		p:        p,
		b:        b,
		aim:      judge.NewAuto(b),
		hold:     input.NewHold(float64(p.Config.HoldWindow) / float64(time.Millisecond)),
		proc:     score.NewProcessor(b.DifficultyMultiplier(), b.Mods.ScoreMultiplier()),
		health:   score.NewHealth(p.drainRate(), b.Breaks(), b.StartTime(), b.EndTime()),
		resolved: make([]bool, len(b.Objects)),
		now:      math.Inf(-1),
		judged:   math.Inf(-1),
	}
	s.engine = judge.NewEngine(b, &input.Source{Hold: s.hold, Aim: s.aim})
	return s
}

func (p *Program) Play() error {
	b := p.beatmap
	cfg := p.Config
	rate := b.Mods.Rate()
	delay := max(cfg.Delay, time.Duration(p.chart.General.AudioLeadIn)*time.Millisecond)

	s := newSession(p)

	var clock Clock = newWallClock(delay, rate)
	if path := p.songPath(); path != "" {
		song, stop, err := startSong(path, delay, rate)
		if nil != err {
			p.Log.WithError(err).Warn("playing without audio")
		} else {
			defer stop()
			clock = song
		}
	}
	offset := float64(cfg.Offset) / float64(time.Millisecond)
	songTime := func() float64 { return clock.Now() + offset }

	// Log lines would tear the playfield; hold them until the end.
	var logs bytes.Buffer
	p.Log.SetOutput(&logs)
	defer func() {
		p.Log.SetOutput(os.Stderr)
		os.Stderr.Write(logs.Bytes())
	}()

	events := make(chan input.Event, 128)
	reader := &input.Reader{Clock: songTime, Log: p.Log}
	if err := reader.Open(events); nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := reader.Close(); nil != err {
			p.Log.WithError(err).Warn("unable to close keyboard")
		}
	}()

	if err := p.Renderer.Init(); nil != err {
		return fmt.Errorf("unable to prepare terminal: %w", err)
	}
	p.Renderer.RenderLoop(cfg.FramePeriod, func(time.Duration) bool {
		return s.frame(songTime(), events)
	})
	if err := p.Renderer.Deinit(); nil != err {
		p.Log.WithError(err).Warn("unable to restore terminal")
	}

	if s.aborted {
		fmt.Fprintln(p.Out, "Aborted")
		return nil
	}
	r := s.proc.Record(p.chart, b.Mods.String(), rate, b.Mods.Has(beatmap.Hidden))
	r.Stats.Failed = s.failed
	printRecord(p.Out, r)
	return p.Store.Save(p.chart, r)
}

// frame advances the play to now and draws it. It returns false once the
// play is over.
func (s *session) frame(now float64, events chan input.Event) bool {
	cfg := s.p.Config
	s.now = math.Max(s.now, now)

drain:
	for {
		select {
		case ev := <-events:
			if ev.Escape {
				s.aborted = true
				return false
			}
			// Presses read after now are judged at now.
			t := math.Max(s.judged, math.Min(ev.Time, s.now))
			if !cfg.IsKey(ev.Rune) || !s.hold.Press(ev.Rune, t) {
				continue
			}
			s.judged = t
			s.judge(s.engine.Click(t, s.aim.Sample(t).Cursor))
		default:
			break drain
		}
	}
	s.judged = s.now
	s.judge(s.engine.Tick(s.now))
	s.health.Advance(s.now)

	if s.health.Failed() && !s.failed {
		s.failed = true
		if !cfg.NoFail {
			return false
		}
	}
	s.draw()
	return !s.engine.Done() || s.now < s.b.EndTime()+outroMs
}

func (s *session) judge(js []game.Judgement) {
	r := s.p.Renderer
	rows, cols := r.Size()
	vp := render.NewViewport(rows, cols, hudWidth)
	frames := max(1, int(judgementMs*time.Millisecond/s.p.Config.FramePeriod))

	for _, j := range js {
		s.proc.Apply(j)
		s.health.Apply(j)
		if j.Timed || !j.Partial {
			s.resolved[j.Object] = true
		}
		if j.Partial && !j.IsMiss() {
			continue
		}
		pos := s.b.Objects[j.Object].Common().EndPoint
		if j.HasPosition {
			pos = j.Position
		}
		row, col := vp.Project(pos)
		r.AddDecoration(row+1, col, s.p.Theme.RenderJudgement(j.Value), frames)
	}
}

func (s *session) visible(pos, cursor game.Vec2) bool {
	return !s.b.Mods.Has(beatmap.Flashlight) || pos.Dist(cursor) <= flashlightSize
}

func (s *session) draw() {
	r, th, b := s.p.Renderer, s.p.Theme, s.b
	rows, cols := r.Size()
	vp := render.NewViewport(rows, cols, hudWidth)
	approach := b.Difficulty.ApproachTime()
	aim := s.aim.Sample(s.now)
	held := s.hold.Held(s.now)

	// Later objects are drawn first so earlier ones end up on top.
	for i := len(b.Objects) - 1; i >= 0; i-- {
		o := b.Objects[i]
		c := o.Common()
		if c.Start-approach > s.now || c.End+fadeMs < s.now {
			continue
		}
		chartColour, ok := b.ComboColour(i)
		colour := th.ComboColour(chartColour, ok, c.Combo.ComboNum)
		untilHit := (c.Start - s.now) / approach

		switch o := o.(type) {
		case *beatmap.Slider:
			if !o.Invisible {
				step := max(1, len(o.Path.Points)/vp.Columns)
				for k := 0; k < len(o.Path.Points); k += step {
					p := o.Path.Points[k]
					if s.visible(p, aim.Cursor) {
						row, col := vp.Project(p)
						r.FillColor(row, col, colour, th.RenderSliderBody())
					}
				}
			}
			if s.now >= o.Start && s.now <= o.End {
				ball := o.PositionAtTime(s.now)
				row, col := vp.Project(ball)
				r.Fill(row, col, th.RenderSliderBall(held && ball.Dist(aim.Cursor) <= b.Difficulty.CircleRadius()*judge.FollowScale))
			}
		case *beatmap.Spinner:
			if s.now >= o.Start {
				progress := 1.0
				if o.RequiredSpins > 0 {
					progress = float64(s.engine.Spins(i)) / float64(o.RequiredSpins)
				}
				row, col := vp.Project(c.StartPoint)
				r.Fill(row, col-2, th.RenderSpinner(progress))
			}
			continue
		}

		if s.resolved[i] || s.now > c.Start+b.Difficulty.HitWindows().Hit50 {
			continue
		}
		// Hidden fades heads out before they are due.
		if b.Mods.Has(beatmap.Hidden) && untilHit < 0.3 {
			continue
		}
		if s.visible(c.StartPoint, aim.Cursor) {
			row, col := vp.Project(c.StartPoint)
			// The approach circle closes from four radii down onto the head.
			if rc := vp.Radius(b.Difficulty.CircleRadius() * (1 + 3*untilHit)); untilHit > 0 && rc > 2 {
				ring := th.RenderApproachCircle()
				r.FillColor(row, col-rc, colour, ring)
				r.FillColor(row, col+rc, colour, ring)
				r.FillColor(row-rc/2, col, colour, ring)
				r.FillColor(row+rc/2, col, colour, ring)
			}
			r.FillColor(row, col-1, colour, th.RenderHead(c.Combo.IndexInCombo+1, untilHit))
		}
	}

	row, col := vp.Project(aim.Cursor)
	r.Fill(row, col, th.RenderCursor(held))
	s.drawHUD()
}

func (s *session) drawHUD() {
	r, th, proc := s.p.Renderer, s.p.Theme, s.proc
	c := proc.Counts
	lines := []string{
		s.p.chart.Metadata.DisplayTitle(),
		fmt.Sprintf("[%v] %v", s.p.chart.Metadata.Version, s.b.Mods),
		"",
		fmt.Sprintf("     Score: %10v", proc.Points),
		fmt.Sprintf("     Combo: %9vx", proc.Combo),
		fmt.Sprintf("  Accuracy: %9.2f%%", proc.Accuracy()*100),
		fmt.Sprintf("     Grade: %10v", proc.Grade(s.b.Mods.Has(beatmap.Hidden))),
		fmt.Sprintf("        UR: %10.2f", proc.UnstableRate()),
		"",
		fmt.Sprintf("       300: %10v", c.Hit300),
		fmt.Sprintf("       100: %10v", c.Hit100),
		fmt.Sprintf("        50: %10v", c.Hit50),
		fmt.Sprintf("      Miss: %10v", c.Miss),
		"",
		fmt.Sprintf("      Time: %10v", formatMs(math.Max(0, s.now))+"/"+formatMs(s.b.EndTime())),
	}
	for i, l := range lines {
		r.Fill(2+i, 2, l)
	}
	r.Fill(2+len(lines)+1, 2, th.RenderHealth(s.health.Value, hudWidth-4))
	if s.failed {
		r.Fill(2+len(lines)+2, 2, "\033[1;31mFAILED\033[0m")
	}
}
