package game

// NoBPM is returned by TimingPoint.BPM for points that do not set a tempo.
const NoBPM = -1.0

// TimingPoint is a row of [TimingPoints]. A non-negative MsPerBeat sets the
// tempo; a negative one sets a slider velocity multiplier of -100/MsPerBeat.
type TimingPoint struct {
	Offset      float64
	MsPerBeat   float64
	Meter       int
	SampleSet   int
	SampleIndex int
	Volume      int
	Inheritable bool // the chart's "uninherited" flag, as written
	Effects     int
}

const (
	EffectKiai        = 1 << 0
	EffectOmitBarline = 1 << 3
)

func (tp TimingPoint) BPM() float64 {
	if tp.MsPerBeat > 0 {
		return 60000 / tp.MsPerBeat
	}
	return NoBPM
}

func (tp TimingPoint) Kiai() bool { return tp.Effects&EffectKiai != 0 }
