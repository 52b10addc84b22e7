package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"git.lost.host/meutraa/circles/internal/config"
	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/judge"
	"git.lost.host/meutraa/circles/internal/parser"
	"git.lost.host/meutraa/circles/internal/render"
	"git.lost.host/meutraa/circles/internal/score"
	"git.lost.host/meutraa/circles/internal/theme"
	"github.com/sirupsen/logrus"
)

type Program struct {
	Config   config.Config
	Log      *logrus.Logger
	Parser   parser.Parser
	Store    score.Store
	Theme    theme.Theme
	Renderer render.Renderer
	Out      io.Writer

	chart   *game.Chart
	beatmap *beatmap.Beatmap
}

func (p *Program) Init() error {
	var err error
	p.chart, err = p.Parser.ParseFile(p.Config.ChartFile)
	if nil != err {
		return err
	}
	p.beatmap, err = beatmap.Process(p.chart, beatmap.Options{
		Mods:            p.Config.Mods,
		ComboColourSkip: p.Config.ComboColourSkip,
		Log:             p.Log,
	})
	if nil != err {
		return fmt.Errorf("unable to process chart: %w", err)
	}

	switch p.Config.Command {
	case config.Play, config.History:
		if err := p.Store.Init(); nil != err {
			return err
		}
	}
	return nil
}

func (p *Program) Deinit() {
	p.Store.Deinit()
}

func (p *Program) Run() error {
	switch p.Config.Command {
	case config.Info:
		p.Info()
	case config.Auto:
		p.Auto()
	case config.History:
		return p.History()
	case config.Play:
		return p.Play()
	}
	return nil
}

func formatMs(ms float64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// drainRate calibrates health drain against a perfect play.
func (p *Program) drainRate() float64 {
	b := p.beatmap
	rate, _ := score.Calibrate(judge.Autoplay(b), b.Breaks(), b.StartTime(), b.EndTime(), b.Difficulty.HP, p.Log)
	return rate
}

func (p *Program) Info() {
	c, b := p.chart, p.beatmap
	w := p.Out

	circles, sliders, spinners := 0, 0, 0
	for _, o := range b.Objects {
		switch o.(type) {
		case *beatmap.Circle:
			circles++
		case *beatmap.Slider:
			sliders++
		case *beatmap.Spinner:
			spinners++
		}
	}

	fmt.Fprintf(w, "%v - %v [%v]\n", c.Metadata.DisplayArtist(), c.Metadata.DisplayTitle(), c.Metadata.Version)
	fmt.Fprintf(w, "  Mapped by:  %v\n", c.Metadata.Creator)
	fmt.Fprintf(w, "     Format:  v%v\n", c.FormatVersion)
	fmt.Fprintf(w, "      Audio:  %v\n", c.General.AudioFilename)
	if c.BPMMin == c.BPMMax {
		fmt.Fprintf(w, "        BPM:  %.0f\n", c.BPMMin)
	} else {
		fmt.Fprintf(w, "        BPM:  %.0f-%.0f\n", c.BPMMin, c.BPMMax)
	}
	fmt.Fprintf(w, "     Length:  %v (%v drain)\n", formatMs(b.EndTime()), formatMs(drainLength(b)))
	fmt.Fprintf(w, "       Mods:  %v (x%.2f, rate %.2f)\n", b.Mods, b.Mods.ScoreMultiplier(), b.Mods.Rate())
	d := b.Difficulty
	fmt.Fprintf(w, " Difficulty:  CS %.1f  AR %.1f  OD %.1f  HP %.1f\n", d.CS, d.AR, d.OD, d.HP)
	windows := d.HitWindows()
	fmt.Fprintf(w, "    Windows:  300 ±%.0f  100 ±%.0f  50 ±%.0f ms\n", windows.Hit300, windows.Hit100, windows.Hit50)
	fmt.Fprintf(w, "    Objects:  %v circles, %v sliders, %v spinners\n", circles, sliders, spinners)
	fmt.Fprintf(w, "  Max combo:  %v\n", b.MaxCombo())
	fmt.Fprintf(w, "     Breaks:  %v\n", len(b.Breaks()))
	fmt.Fprintf(w, " Drain rate:  %.4f/s\n", p.drainRate())
}

// drainLength is the play window less its breaks.
func drainLength(b *beatmap.Beatmap) float64 {
	total := b.EndTime() - b.StartTime()
	for _, br := range b.Breaks() {
		total -= math.Max(0, math.Min(br.End, b.EndTime())-math.Max(br.Start, b.StartTime()))
	}
	return math.Max(0, total)
}

// Auto scores a perfect play without saving it.
func (p *Program) Auto() {
	b := p.beatmap
	js := judge.Autoplay(b)

	proc := score.NewProcessor(b.DifficultyMultiplier(), b.Mods.ScoreMultiplier())
	health := score.NewHealth(p.drainRate(), b.Breaks(), b.StartTime(), b.EndTime())
	low := health.Value
	for _, j := range js {
		proc.Apply(j)
		health.Apply(j)
		low = math.Min(low, health.Value)
	}
	health.Advance(b.EndTime())

	r := proc.Record(p.chart, b.Mods.String(), b.Mods.Rate(), b.Mods.Has(beatmap.Hidden))
	printRecord(p.Out, r)
	fmt.Fprintf(p.Out, "     Health:  %.1f%% lowest, %.1f%% at the end\n", low*100, health.Value*100)
}

func (p *Program) History() error {
	records, err := p.Store.Load(p.chart)
	if nil != err {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(p.Out, "No scores yet")
		return nil
	}
	fmt.Fprintf(p.Out, "%3v  %10v  %7v  %6v  %-3v  %-6v  %6v  %7v  %v\n", "#", "Score", "Acc", "Combo", "", "Mods", "UR", "Err", "Played")
	for i, r := range records {
		grade := string(r.Grade)
		if r.Stats.Failed {
			grade = "F"
		}
		fmt.Fprintf(p.Out, "%3v  %10v  %6.2f%%  %5vx  %-3v  %-6v  %6.2f  %+5.1fms  %v\n",
			i+1, r.Points, r.Accuracy*100, r.MaxCombo, grade, r.Mods, r.Stats.UnstableRate,
			r.Stats.MeanError(), r.PlayedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printRecord(w io.Writer, r score.Record) {
	c := r.Stats.Counts
	fmt.Fprintf(w, "      Score:  %v\n", r.Points)
	fmt.Fprintf(w, "   Accuracy:  %.2f%%\n", r.Accuracy*100)
	fmt.Fprintf(w, "  Max combo:  %vx\n", r.MaxCombo)
	fmt.Fprintf(w, "      Grade:  %v\n", r.Grade)
	fmt.Fprintf(w, "       Hits:  %v/%v/%v/%v  (geki %v, katu %v)\n", c.Hit300, c.Hit100, c.Hit50, c.Miss, c.Geki, c.Katu)
	fmt.Fprintf(w, "         UR:  %.2f (mean error %+.1fms)\n", r.Stats.UnstableRate, r.Stats.MeanError())
	if r.Stats.Failed {
		fmt.Fprintln(w, "     Failed:  health ran out")
	}
}
