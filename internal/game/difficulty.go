package game

import "math"

// Difficulty holds the scalar knobs of a chart. The zero value is not useful;
// start from DefaultDifficulty.
type Difficulty struct {
	CS float64 // circle size
	AR float64 // approach rate
	OD float64 // overall difficulty
	HP float64 // drain rate
	SL float64 // stack leniency
	SV float64 // slider velocity (multiplier)
	TR float64 // slider tick rate
}

func DefaultDifficulty() Difficulty {
	return Difficulty{CS: 5, AR: 5, OD: 5, HP: 5, SL: 0.7, SV: 1, TR: 1}
}

// DifficultyRange maps a 0..10 difficulty value onto min (at 0), mid (at 5)
// and max (at 10), linearly on each half.
func DifficultyRange(v, min, mid, max float64) float64 {
	switch {
	case v > 5:
		return mid + (max-mid)*(v-5)/5
	case v < 5:
		return mid - (mid-min)*(5-v)/5
	default:
		return mid
	}
}

// ApproachTime is how long, in ms, an object is visible before its start time.
func (d Difficulty) ApproachTime() float64 {
	return DifficultyRange(d.AR, 1800, 1200, 450)
}

// HitWindows are the largest absolute hit deltas, in ms, for each timed value.
type HitWindows struct {
	Hit300, Hit100, Hit50 float64
}

func (d Difficulty) HitWindows() HitWindows {
	return HitWindows{
		Hit300: math.Ceil(79.5 - 6*d.OD),
		Hit100: math.Ceil(139.5 - 8*d.OD),
		Hit50:  math.Ceil(199.5 - 10*d.OD),
	}
}

// Judge returns the value earned by a hit with the given delta, or Miss when
// the delta is outside every window.
func (w HitWindows) Judge(delta float64) ScoreValue {
	delta = math.Abs(delta)
	switch {
	case delta <= w.Hit300:
		return Hit300
	case delta <= w.Hit100:
		return Hit100
	case delta <= w.Hit50:
		return Hit50
	default:
		return Miss
	}
}

// CircleRadius is the hit circle radius in osu!pixels.
func (d Difficulty) CircleRadius() float64 {
	return 32 * (1 - 0.7*(d.CS-5)/5)
}

// StackOffset is the distance each stack level moves an object up and left.
func (d Difficulty) StackOffset() float64 {
	return d.CircleRadius() / 10
}

// ScoreMultiplier is the stepped difficulty multiplier used by the score
// formula. It must be computed from the chart's unmodified difficulty.
func (d Difficulty) ScoreMultiplier() float64 {
	sum := d.CS + d.HP + d.OD
	switch {
	case sum <= 3.0:
		return 2
	case sum <= 10.5:
		return 3
	case sum <= 18.2:
		return 4
	case sum <= 25.7:
		return 5
	default:
		return 6
	}
}

// SpinsPerSecond is the rotation rate a spinner demands.
func (d Difficulty) SpinsPerSecond() float64 {
	return DifficultyRange(d.OD, 3, 5, 7.5)
}
