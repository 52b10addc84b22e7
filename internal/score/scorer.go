package score

import (
	"errors"
	"time"

	"git.lost.host/meutraa/circles/internal/game"
)

var ErrNoStore = errors.New("score store is not initialised")

type Store interface {
	Init() error
	Deinit()

	// Save the result of a play of the chart
	Save(chart *game.Chart, record Record) error

	// Load previous results for the chart, best first
	Load(chart *game.Chart) ([]Record, error)
}

type Grade string

const (
	GradeSSH Grade = "SSH"
	GradeSS  Grade = "SS"
	GradeSH  Grade = "SH"
	GradeS   Grade = "S"
	GradeA   Grade = "A"
	GradeB   Grade = "B"
	GradeC   Grade = "C"
	GradeD   Grade = "D"
)

// Record is a finished play.
type Record struct {
	ID       int64
	Sum      string
	Mods     string
	Rate     float64
	Points   int64
	Accuracy float64
	MaxCombo int
	Grade    Grade
	Stats    Stats
	PlayedAt time.Time
}

type Stats struct {
	Counts       Counts
	Errors       []ErrorBucket
	UnstableRate float64
	// Failed is set when health ran out and the play went on anyway.
	Failed bool
}

// ErrorBucket counts the hits made Offset ms from perfect.
type ErrorBucket struct {
	Offset int
	Count  int
}

// Record captures the processor's current state.
func (p *Processor) Record(chart *game.Chart, mods string, rate float64, hidden bool) Record {
	return Record{
		Sum:      hashChart(chart),
		Mods:     mods,
		Rate:     rate,
		Points:   p.Points,
		Accuracy: p.Accuracy(),
		MaxCombo: p.MaxCombo,
		Grade:    p.Grade(hidden),
		Stats: Stats{
			Counts:       p.Counts,
			Errors:       compactErrors(p.HitErrors),
			UnstableRate: p.UnstableRate(),
		},
		PlayedAt: time.Now(),
	}
}
