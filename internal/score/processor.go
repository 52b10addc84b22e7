package score

import (
	"math"

	"git.lost.host/meutraa/circles/internal/game"
)

// Counts is the histogram of graded judgements.
type Counts struct {
	Hit300, Hit100, Hit50, Miss int
	// Geki and Katu count combos finished with only 300s, or without misses.
	Geki, Katu int
}

// Total is the number of graded judgements.
func (c Counts) Total() int {
	return c.Hit300 + c.Hit100 + c.Hit50 + c.Miss
}

// Processor folds judgements into score, combo and accuracy.
type Processor struct {
	// DifficultyMultiplier must come from the chart's difficulty before mods.
	DifficultyMultiplier float64
	ModMultiplier        float64

	Points    int64
	Combo     int
	MaxCombo  int
	Counts    Counts
	HitErrors []float64

	raw          int
	groupPerfect bool
	groupClean   bool
}

func NewProcessor(difficultyMultiplier, modMultiplier float64) *Processor {
	p := &Processor{DifficultyMultiplier: difficultyMultiplier, ModMultiplier: modMultiplier}
	p.Reset()
	return p
}

func (p *Processor) Reset() {
	p.Points = 0
	p.Combo = 0
	p.MaxCombo = 0
	p.Counts = Counts{}
	p.HitErrors = nil
	p.raw = 0
	p.groupPerfect = true
	p.groupClean = true
}

// Apply folds one judgement.
func (p *Processor) Apply(j game.Judgement) {
	comboBefore := p.Combo
	raw := int64(j.Value)

	if j.Partial {
		p.Points += raw
	} else {
		bonus := float64(raw) * float64(max(0, comboBefore-1)) * p.DifficultyMultiplier * p.ModMultiplier / 25
		p.Points += raw + int64(math.Floor(bonus))
		p.raw += int(j.Value)
		switch j.Value {
		case game.Hit300:
			p.Counts.Hit300++
		case game.Hit100:
			p.Counts.Hit100++
		case game.Hit50:
			p.Counts.Hit50++
		default:
			p.Counts.Miss++
		}
	}

	if j.Timed {
		p.HitErrors = append(p.HitErrors, j.Delta)
	}

	if j.AffectsCombo {
		if j.Value == game.Miss {
			p.Combo = 0
		} else {
			p.Combo++
			p.MaxCombo = max(p.MaxCombo, p.Combo)
		}
	}

	switch {
	case j.IsMiss(), !j.Partial && (j.Value == game.Miss || j.Value == game.Hit50):
		p.groupPerfect = false
		p.groupClean = false
	case !j.Partial && j.Value != game.Hit300:
		p.groupPerfect = false
	}
	if j.LastInCombo && !j.Partial {
		switch {
		case p.groupPerfect:
			p.Counts.Geki++
		case p.groupClean:
			p.Counts.Katu++
		}
		p.groupPerfect = true
		p.groupClean = true
	}
}

// Accuracy is the share of the best possible raw points earned by graded
// judgements. It is 1 before anything is judged.
func (p *Processor) Accuracy() float64 {
	total := p.Counts.Total()
	if total == 0 {
		return 1
	}
	return float64(p.raw) / float64(total*int(game.Hit300))
}

// Grade ranks the play. Silver grades replace SS and S when hidden is set.
func (p *Processor) Grade(hidden bool) Grade {
	c := p.Counts
	total := float64(c.Total())
	if total == 0 {
		return GradeD
	}
	r300 := float64(c.Hit300) / total
	r50 := float64(c.Hit50) / total

	var g Grade
	switch {
	case c.Hit300 == c.Total():
		g = GradeSS
	case r300 > 0.9 && r50 < 0.01 && c.Miss == 0:
		g = GradeS
	case (r300 > 0.8 && c.Miss == 0) || r300 > 0.9:
		g = GradeA
	case (r300 > 0.7 && c.Miss == 0) || r300 > 0.8:
		g = GradeB
	case r300 > 0.6:
		g = GradeC
	default:
		g = GradeD
	}
	if hidden {
		switch g {
		case GradeSS:
			g = GradeSSH
		case GradeS:
			g = GradeSH
		}
	}
	return g
}

// UnstableRate is ten times the standard deviation of the hit errors.
func (p *Processor) UnstableRate() float64 {
	n := float64(len(p.HitErrors))
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, e := range p.HitErrors {
		mean += e
	}
	mean /= n
	variance := 0.0
	for _, e := range p.HitErrors {
		variance += (e - mean) * (e - mean)
	}
	return 10 * math.Sqrt(variance/n)
}
