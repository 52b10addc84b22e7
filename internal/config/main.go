package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/circles/internal/beatmap"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/ini.v1"
)

const Version = "0.3.0"

var ErrInvalid = errors.New("invalid configuration")

type Command string

const (
	Info    Command = "info"
	Auto    Command = "auto"
	Play    Command = "play"
	History Command = "history"
)

// Config is everything the client needs to run one command.
type Config struct {
	Command Command

	ChartFile string
	// AudioFile is empty when the song should be found next to the chart.
	AudioFile string

	Mods            beatmap.Mods
	ComboColourSkip bool

	Database string
	LogLevel logrus.Level

	Offset      time.Duration
	Delay       time.Duration
	FramePeriod time.Duration
	Keys        []rune
	HoldWindow  time.Duration
	// NoFail keeps the play going when health runs out.
	NoFail bool
}

// defaults are the flag defaults, overridden by the config file.
type defaults struct {
	logLevel    string
	database    string
	mods        string
	colourSkip  string
	offset      string
	delay       string
	framePeriod string
	keys        string
	holdWindow  string
}

// DefaultPath is $XDG_CONFIG_HOME/circles/config.ini, or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if nil != err {
		return "config.ini"
	}
	return filepath.Join(dir, "circles", "config.ini")
}

// configPath finds --config in args before the real parse, since the file
// decides the other defaults.
func configPath(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return DefaultPath()
}

// loadDefaults reads path. A missing file leaves the built in defaults.
func loadDefaults(path string) (defaults, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		InsensitiveSections:     true,
		InsensitiveKeys:         true,
		SkipUnrecognizableLines: true,
	}, path)
	if nil != err {
		return defaults{}, fmt.Errorf("unable to read config file %v: %w", path, err)
	}

	general := file.Section("general")
	play := file.Section("play")
	return defaults{
		logLevel:    general.Key("log-level").MustString("info"),
		database:    general.Key("database").MustString("./scores.db"),
		mods:        general.Key("mods").MustString(""),
		colourSkip:  general.Key("colour-skip").MustString("true"),
		offset:      play.Key("offset").MustString("0ms"),
		delay:       play.Key("delay").MustString("1.5s"),
		framePeriod: play.Key("frame-period").MustString("8ms"),
		keys:        play.Key("keys").MustString("zx"),
		holdWindow:  play.Key("hold-window").MustString("600ms"),
	}, nil
}

// Parse resolves the command line against the config file.
func Parse(args []string) (Config, error) {
	path := configPath(args)
	d, err := loadDefaults(path)
	if nil != err {
		return Config{}, err
	}

	app := kingpin.New("circles", "Play osu! charts in the terminal.")
	app.Version(Version)
	app.Flag("config", "INI file with default flag values").Default(path).String()
	logLevel := app.Flag("log-level", "Log level").Default(d.logLevel).Short('l').
		Enum("trace", "debug", "info", "warn", "error")
	database := app.Flag("db", "Score database").Default(d.database).String()
	mods := app.Flag("mods", "Mods, e.g. HDHR").Default(d.mods).Short('m').String()
	colourSkip := app.Flag("colour-skip", "Honour combo colour skips").Default(d.colourSkip).Bool()

	info := app.Command(string(Info), "Print chart metadata and statistics")
	infoChart := info.Arg("chart", ".osu file").Required().ExistingFile()

	auto := app.Command(string(Auto), "Score a perfect play of the chart")
	autoChart := auto.Arg("chart", ".osu file").Required().ExistingFile()

	play := app.Command(string(Play), "Play the chart")
	playChart := play.Arg("chart", ".osu file").Required().ExistingFile()
	audio := play.Flag("audio", "Song file, defaults to the chart's AudioFilename").Short('a').String()
	offset := play.Flag("offset", "Global offset").Default(d.offset).Short('o').Duration()
	delay := play.Flag("delay", "Start delay").Default(d.delay).Short('d').Duration()
	framePeriod := play.Flag("frame-period", "Render frame period").Default(d.framePeriod).Short('p').Duration()
	keys := play.Flag("keys", "Keys that click").Default(d.keys).Short('k').String()
	holdWindow := play.Flag("hold-window", "How long a key counts as held after its last repeat").Default(d.holdWindow).Duration()
	noFail := play.Flag("no-fail", "Keep playing after health runs out").Bool()

	history := app.Command(string(History), "List previous scores for the chart")
	historyChart := history.Arg("chart", ".osu file").Required().ExistingFile()

	cmd, err := app.Parse(args)
	if nil != err {
		return Config{}, err
	}

	c := Config{
		Command:         Command(cmd),
		Database:        *database,
		ComboColourSkip: *colourSkip,
	}
	if c.LogLevel, err = logrus.ParseLevel(*logLevel); nil != err {
		return Config{}, err
	}
	if c.Mods, err = beatmap.ParseMods(*mods); nil != err {
		return Config{}, fmt.Errorf("unable to parse mods %q: %w", *mods, err)
	}

	switch c.Command {
	case Info:
		c.ChartFile = *infoChart
	case Auto:
		c.ChartFile = *autoChart
	case History:
		c.ChartFile = *historyChart
	case Play:
		c.ChartFile = *playChart
		c.AudioFile = *audio
		c.Offset = *offset
		c.Delay = *delay
		c.FramePeriod = *framePeriod
		c.Keys = []rune(*keys)
		c.HoldWindow = *holdWindow
		c.NoFail = *noFail || c.Mods.Has(beatmap.NoFail)
		if len(c.Keys) == 0 {
			return Config{}, fmt.Errorf("%w: at least one key is needed to play", ErrInvalid)
		}
		if c.FramePeriod <= 0 {
			return Config{}, fmt.Errorf("%w: frame period must be positive, got %v", ErrInvalid, c.FramePeriod)
		}
	}
	return c, nil
}

// IsKey reports whether r is one of the clicking keys.
func (c Config) IsKey(r rune) bool {
	for _, k := range c.Keys {
		if k == r {
			return true
		}
	}
	return false
}
