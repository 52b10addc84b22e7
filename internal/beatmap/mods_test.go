package beatmap

import (
	"errors"
	"math"
	"testing"

	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/testdata"
)

func TestParseMods(t *testing.T) {
	tests := []struct {
		in   string
		mods Mods
		err  bool
	}{
		{"", 0, false},
		{"HDHR", Hidden | HardRock, false},
		{"hd,dt", Hidden | DoubleTime, false},
		{"+NF SO", NoFail | SpunOut, false},
		{"EZHR", 0, true},
		{"DTHT", 0, true},
		{"XX", 0, true},
		{"H", 0, true},
	}
	for _, tt := range tests {
		m, err := ParseMods(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("%q: no error", tt.in)
			}
			continue
		}
		if nil != err || m != tt.mods {
			t.Errorf("%q: %v, %v, want %v", tt.in, m, err, tt.mods)
		}
	}

	if _, err := ParseMods("EZHR"); !errors.Is(err, ErrIncompatibleMods) {
		t.Errorf("EZHR error %v is not ErrIncompatibleMods", err)
	}
	if s := (Hidden | HardRock).String(); s != "HDHR" {
		t.Errorf("String = %q", s)
	}
	if s := Mods(0).String(); s != "NM" {
		t.Errorf("String = %q", s)
	}
}

func TestModMultiplier(t *testing.T) {
	tests := []struct {
		mods Mods
		want float64
	}{
		{0, 1},
		{Hidden, 1.06},
		{Hidden | HardRock, 1.06 * 1.06},
		{Easy | NoFail, 0.25},
		{HalfTime | SpunOut, 0.27},
		{DoubleTime | Flashlight, 1.12 * 1.12},
	}
	for _, tt := range tests {
		if got := tt.mods.ScoreMultiplier(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v: multiplier %v, want %v", tt.mods, got, tt.want)
		}
	}
}

func TestApplyDifficulty(t *testing.T) {
	d := game.Difficulty{CS: 4, AR: 8, OD: 5, HP: 6, SL: 0.7, SV: 1.4, TR: 1}

	ez := Easy.ApplyDifficulty(d)
	if ez.CS != 2 || ez.AR != 4 || ez.OD != 2.5 || ez.HP != 3 || ez.SV != 1.4 {
		t.Errorf("EZ = %+v", ez)
	}

	hr := HardRock.ApplyDifficulty(d)
	if math.Abs(hr.CS-5.2) > 1e-9 || hr.AR != 10 || math.Abs(hr.OD-7) > 1e-9 || math.Abs(hr.HP-8.4) > 1e-9 {
		t.Errorf("HR = %+v", hr)
	}
}

func TestHardRockFlip(t *testing.T) {
	chart := parseChart(t, testdata.Basic)
	b := process(t, chart, Options{Mods: HardRock})

	s := b.Objects[1].(*Slider)
	if s.StartPoint != (game.Vec2{X: 100, Y: 284}) || s.EndPoint != (game.Vec2{X: 200, Y: 284}) {
		t.Errorf("flipped slider runs %v to %v", s.StartPoint, s.EndPoint)
	}

	raw := chart.HitObjects[1].(game.Slider)
	if raw.Pos.Y != 100 || raw.Sections[0][1].Y != 100 {
		t.Errorf("original chart was modified: %+v", raw)
	}
	if chart.Difficulty.CS != 4 {
		t.Errorf("original difficulty was modified: %+v", chart.Difficulty)
	}
	if b.BaseDifficulty.CS != 4 || b.DifficultyMultiplier() != chart.Difficulty.ScoreMultiplier() {
		t.Errorf("base difficulty = %+v", b.BaseDifficulty)
	}
}
