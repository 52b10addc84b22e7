package game

// Chart is the normalized, read-only document produced by parsing chart text.
type Chart struct {
	FormatVersion int
	Sum           string // identity of the source text, used to key score history

	General    General
	Metadata   Metadata
	Difficulty Difficulty

	Events       []Event
	Breaks       []Break
	TimingPoints []TimingPoint
	HitObjects   []HitObject
	Colours      []Colour

	BPMMin, BPMMax float64
}

type General struct {
	AudioFilename string
	AudioLeadIn   int
	PreviewTime   int
	SampleSet     string
	Mode          int
	Countdown     int
}

type Metadata struct {
	Title, TitleUnicode   string
	Artist, ArtistUnicode string
	Creator, Version      string
	Source, Tags          string
	BeatmapID             int
	BeatmapSetID          int
}

type EventKind uint8

const (
	EventOther EventKind = iota
	EventBackground
	EventVideo
	EventBreak
)

// Event is a row of the [Events] section. Only breaks matter to gameplay;
// everything else is kept verbatim for consumers at the boundary.
type Event struct {
	Kind    EventKind
	Time    float64
	EndTime float64
	Params  []string
}

// Break is an interval during which health does not drain.
type Break struct {
	Start, End float64
}

// Colour is an RGB combo colour.
type Colour struct {
	R, G, B uint8
}

// MaxComboColours is the number of ComboN slots a chart may define.
const MaxComboColours = 8

// ComboColours holds the combo colour slots by explicit index. Charts may skip
// indices (Combo1 then Combo3), so slots are optional until compacted.
type ComboColours [MaxComboColours]*Colour

// Compact returns the defined colours in slot order, dropping holes.
func (c *ComboColours) Compact() []Colour {
	out := make([]Colour, 0, MaxComboColours)
	for _, col := range c {
		if col != nil {
			out = append(out, *col)
		}
	}
	return out
}

// DisplayTitle returns the unicode title when present.
func (m Metadata) DisplayTitle() string {
	if m.TitleUnicode != "" {
		return m.TitleUnicode
	}
	return m.Title
}

func (m Metadata) DisplayArtist() string {
	if m.ArtistUnicode != "" {
		return m.ArtistUnicode
	}
	return m.Artist
}
