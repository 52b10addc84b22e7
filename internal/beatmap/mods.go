package beatmap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"git.lost.host/meutraa/circles/internal/game"
)

// Mods is a set of gameplay modifiers.
type Mods uint16

const (
	NoFail Mods = 1 << iota
	Easy
	Hidden
	HardRock
	DoubleTime
	HalfTime
	Flashlight
	SpunOut
)

var ErrIncompatibleMods = errors.New("incompatible mods")

var modInfo = []struct {
	mod        Mods
	code       string
	multiplier float64
}{
	{NoFail, "NF", 0.5},
	{Easy, "EZ", 0.5},
	{Hidden, "HD", 1.06},
	{HardRock, "HR", 1.06},
	{DoubleTime, "DT", 1.12},
	{HalfTime, "HT", 0.3},
	{Flashlight, "FL", 1.12},
	{SpunOut, "SO", 0.9},
}

// ParseMods reads a string of two letter codes such as "HDHR". Case, spaces
// and commas are ignored.
func ParseMods(s string) (Mods, error) {
	s = strings.ToUpper(strings.NewReplacer(" ", "", ",", "", "+", "").Replace(s))
	if len(s)%2 != 0 {
		return 0, fmt.Errorf("unable to parse mods %q", s)
	}
	var m Mods
outer:
	for i := 0; i < len(s); i += 2 {
		code := s[i : i+2]
		for _, info := range modInfo {
			if info.code == code {
				m |= info.mod
				continue outer
			}
		}
		return 0, fmt.Errorf("unknown mod %q", code)
	}
	return m, m.Validate()
}

func (m Mods) Validate() error {
	if m&Easy != 0 && m&HardRock != 0 {
		return fmt.Errorf("%w: EZ and HR", ErrIncompatibleMods)
	}
	if m&DoubleTime != 0 && m&HalfTime != 0 {
		return fmt.Errorf("%w: DT and HT", ErrIncompatibleMods)
	}
	return nil
}

func (m Mods) Has(o Mods) bool { return m&o == o }

func (m Mods) String() string {
	var b strings.Builder
	for _, info := range modInfo {
		if m&info.mod != 0 {
			b.WriteString(info.code)
		}
	}
	if b.Len() == 0 {
		return "NM"
	}
	return b.String()
}

// ScoreMultiplier is the product of the multipliers of every mod in the set.
func (m Mods) ScoreMultiplier() float64 {
	out := 1.0
	for _, info := range modInfo {
		if m&info.mod != 0 {
			out *= info.multiplier
		}
	}
	return out
}

// Rate is the playback speed of the song.
func (m Mods) Rate() float64 {
	switch {
	case m&DoubleTime != 0:
		return 1.5
	case m&HalfTime != 0:
		return 0.75
	}
	return 1
}

// ApplyDifficulty returns d adjusted by the mods.
func (m Mods) ApplyDifficulty(d game.Difficulty) game.Difficulty {
	if m&Easy != 0 {
		d.CS /= 2
		d.AR /= 2
		d.OD /= 2
		d.HP /= 2
	}
	if m&HardRock != 0 {
		d.CS = math.Min(10, d.CS*1.3)
		d.AR = math.Min(10, d.AR*1.4)
		d.OD = math.Min(10, d.OD*1.4)
		d.HP = math.Min(10, d.HP*1.4)
	}
	return d
}

// ApplyChart returns a copy of chart with the mods applied. The original is
// never modified.
func (m Mods) ApplyChart(chart *game.Chart) *game.Chart {
	out := *chart
	out.Difficulty = m.ApplyDifficulty(chart.Difficulty)
	out.HitObjects = make([]game.HitObject, len(chart.HitObjects))
	flip := m&HardRock != 0
	for i, ho := range chart.HitObjects {
		out.HitObjects[i] = cloneHitObject(ho, flip)
	}
	return &out
}

func flipY(p game.Vec2) game.Vec2 {
	return game.Vec2{X: p.X, Y: game.PlayfieldSize.Y - p.Y}
}

func cloneHitObject(ho game.HitObject, flip bool) game.HitObject {
	switch o := ho.(type) {
	case game.Circle:
		if flip {
			o.Pos = flipY(o.Pos)
		}
		return o
	case game.Spinner:
		if flip {
			o.Pos = flipY(o.Pos)
		}
		return o
	case game.Slider:
		if flip {
			o.Pos = flipY(o.Pos)
		}
		sections := make([][]game.Vec2, len(o.Sections))
		for i, s := range o.Sections {
			sections[i] = make([]game.Vec2, len(s))
			for j, p := range s {
				if flip {
					p = flipY(p)
				}
				sections[i][j] = p
			}
		}
		o.Sections = sections
		o.EdgeSounds = append([]game.HitSound(nil), o.EdgeSounds...)
		o.EdgeSamples = append([]game.EdgeSample(nil), o.EdgeSamples...)
		return o
	}
	return ho
}
