package game

type HitObjectKind uint8

const (
	KindCircle HitObjectKind = iota
	KindSlider
	KindSpinner
)

func (k HitObjectKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	}
	return "unknown"
}

// TypeFlags is the bitfield in the fourth column of a [HitObjects] row.
type TypeFlags int

const (
	TypeCircle     TypeFlags = 1 << iota // 1
	TypeSlider                           // 2
	TypeNewCombo                         // 4
	TypeSpinner                          // 8
	TypeComboSkip1                       // 16
	TypeComboSkip2                       // 32
	TypeComboSkip3                       // 64
	TypeHold                             // 128
)

// ComboSkips decodes the colour skip count: 0 for no new combo, otherwise
// one plus the three skip bits.
func (t TypeFlags) ComboSkips() int {
	if t&TypeNewCombo == 0 {
		return 0
	}
	return 1 + int(t>>4)&0b111
}

type HitSound uint8

const (
	HitSoundNormal HitSound = 1 << iota
	HitSoundWhistle
	HitSoundFinish
	HitSoundClap
)

type SampleSet uint8

const (
	SampleNone SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

type HitSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

type EdgeSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

type CurveType uint8

const (
	CurveBezier CurveType = iota
	CurveLinear
	CurveCatmull
	CurvePerfect
)

func (c CurveType) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveCatmull:
		return "catmull"
	case CurvePerfect:
		return "perfect"
	}
	return "bezier"
}

// HitObject is one row of [HitObjects] as written in the chart.
type HitObject interface {
	Kind() HitObjectKind
	Base() BaseHO
}

type BaseHO struct {
	Pos        Vec2
	Time       float64
	Type       TypeFlags
	ComboSkips int
	Sound      HitSound
	Sample     HitSample
}

func (b BaseHO) Base() BaseHO { return b }

type Circle struct{ BaseHO }

func (Circle) Kind() HitObjectKind { return KindCircle }

type Slider struct {
	BaseHO
	CurveType CurveType
	// Sections are the control point groups. The first section starts at
	// the slider head; Bézier curves split on repeated (red) anchors.
	Sections    [][]Vec2
	Repeat      int
	Length      float64
	EdgeSounds  []HitSound
	EdgeSamples []EdgeSample
}

func (Slider) Kind() HitObjectKind { return KindSlider }

type Spinner struct {
	BaseHO
	EndTime float64
}

func (Spinner) Kind() HitObjectKind { return KindSpinner }
