package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"github.com/sirupsen/logrus"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); nil != err {
		t.Fatal(err)
	}
	return p
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	chart := writeFile(t, dir, "chart.osu", "osu file format v14\n")
	ini := writeFile(t, dir, "config.ini", `
[general]
log-level = debug
database = /tmp/other.db
mods = HD

[Play]
offset = 25ms
keys = as
`)
	missing := filepath.Join(dir, "missing.ini")

	tests := []struct {
		name string
		args []string
		want Config
	}{
		{
			name: "built in defaults",
			args: []string{"--config", missing, "auto", chart},
			want: Config{
				Command: Auto, ChartFile: chart, Database: "./scores.db",
				LogLevel: logrus.InfoLevel, ComboColourSkip: true,
			},
		},
		{
			name: "file defaults",
			args: []string{"--config=" + ini, "play", chart},
			want: Config{
				Command: Play, ChartFile: chart, Database: "/tmp/other.db",
				LogLevel: logrus.DebugLevel, Mods: beatmap.Hidden, ComboColourSkip: true,
				Offset: 25 * time.Millisecond, Delay: 1500 * time.Millisecond,
				FramePeriod: 8 * time.Millisecond, Keys: []rune("as"), HoldWindow: 600 * time.Millisecond,
			},
		},
		{
			name: "flags win",
			args: []string{"--config", ini, "--mods", "dtnf", "--no-colour-skip", "play", "--offset=-10ms", "-k", "q", chart},
			want: Config{
				Command: Play, ChartFile: chart, Database: "/tmp/other.db",
				LogLevel: logrus.DebugLevel, Mods: beatmap.DoubleTime | beatmap.NoFail,
				Offset: -10 * time.Millisecond, Delay: 1500 * time.Millisecond,
				FramePeriod: 8 * time.Millisecond, Keys: []rune("q"), HoldWindow: 600 * time.Millisecond,
				NoFail: true,
			},
		},
	}
	for _, tt := range tests {
		got, err := Parse(tt.args)
		if nil != err {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got.Command != tt.want.Command || got.ChartFile != tt.want.ChartFile ||
			got.Database != tt.want.Database || got.LogLevel != tt.want.LogLevel ||
			got.Mods != tt.want.Mods || got.ComboColourSkip != tt.want.ComboColourSkip ||
			got.Offset != tt.want.Offset || got.Delay != tt.want.Delay ||
			got.FramePeriod != tt.want.FramePeriod || string(got.Keys) != string(tt.want.Keys) ||
			got.HoldWindow != tt.want.HoldWindow || got.NoFail != tt.want.NoFail {
			t.Errorf("%s:\n got %+v\nwant %+v", tt.name, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	dir := t.TempDir()
	chart := writeFile(t, dir, "chart.osu", "")
	missing := filepath.Join(dir, "missing.ini")

	tests := []struct {
		args []string
		is   error
	}{
		{[]string{"--config", missing, "--mods", "EZHR", "auto", chart}, beatmap.ErrIncompatibleMods},
		{[]string{"--config", missing, "--mods", "XX", "auto", chart}, nil},
		{[]string{"--config", missing, "play", "--keys", "", chart}, ErrInvalid},
		{[]string{"--config", missing, "play", "--frame-period", "0s", chart}, ErrInvalid},
		{[]string{"--config", missing, "auto", filepath.Join(dir, "none.osu")}, nil},
		{[]string{"--config", missing}, nil},
	}
	for _, tt := range tests {
		_, err := Parse(tt.args)
		if nil == err {
			t.Errorf("%v: no error", tt.args)
			continue
		}
		if nil != tt.is && !errors.Is(err, tt.is) {
			t.Errorf("%v: %v is not %v", tt.args, err, tt.is)
		}
	}
}

func TestIsKey(t *testing.T) {
	c := Config{Keys: []rune("zx")}
	for r, want := range map[rune]bool{'z': true, 'x': true, 'c': false} {
		if c.IsKey(r) != want {
			t.Errorf("IsKey(%q) = %v", r, !want)
		}
	}
}
