package game

// ScoreValue is the number of raw points a judgement is worth. Timed values
// (Hit300, Hit100, Hit50, Miss) feed accuracy; the rest are partial credit.
type ScoreValue int

const (
	Miss   ScoreValue = 0
	Hit50  ScoreValue = 50
	Hit100 ScoreValue = 100
	Hit300 ScoreValue = 300

	TickValue      ScoreValue = 10
	EdgeValue      ScoreValue = 30
	SpinValue      ScoreValue = 100
	SpinBonusValue ScoreValue = 1000
)

func (v ScoreValue) String() string {
	switch v {
	case Miss:
		return "miss"
	case Hit50:
		return "50"
	case Hit100:
		return "100"
	case Hit300:
		return "300"
	}
	return "raw"
}

// Judgement is one scoring outcome. Object indexes the processed beatmap's
// object slice.
type Judgement struct {
	Value ScoreValue
	// Partial judgements award raw points only: no accuracy, no histogram.
	Partial      bool
	AffectsCombo bool
	Object       int
	Time         float64

	Position    Vec2
	HasPosition bool

	// Delta is the signed click error in ms when Timed is set.
	Delta float64
	Timed bool

	LastInCombo bool
}

// IsMiss reports whether the judgement breaks combo.
func (j Judgement) IsMiss() bool {
	return j.Value == Miss && j.AffectsCombo
}
