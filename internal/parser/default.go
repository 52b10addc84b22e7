package parser

import (
	"bufio"
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"git.lost.host/meutraa/circles/internal/game"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	latestVersion = 14
	// Charts older than v5 were timed against a different audio offset.
	earlyVersionTimingOffset = 24
)

type section int

const (
	secHeader section = iota
	secGeneral
	secEditor
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secColours
	secHitObjects
	secUnknown
)

var sectionNames = map[string]section{
	"[general]":      secGeneral,
	"[editor]":       secEditor,
	"[metadata]":     secMetadata,
	"[difficulty]":   secDifficulty,
	"[events]":       secEvents,
	"[timingpoints]": secTimingPoints,
	"[colours]":      secColours,
	"[hitobjects]":   secHitObjects,
}

// DefaultParser reads the line-oriented .osu format. It never fails on
// malformed content: bad rows and unknown keys are skipped.
type DefaultParser struct {
	Log logrus.FieldLogger
}

func (p *DefaultParser) ParseFile(file string) (*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, fmt.Errorf("unable to open chart: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

func (p *DefaultParser) log() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// state is the per-parse scratch space.
type state struct {
	log     logrus.FieldLogger
	chart   *game.Chart
	offset  float64
	seenAR  bool
	colours game.ComboColours
}

func (p *DefaultParser) Parse(r io.Reader) (*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, fmt.Errorf("unable to read chart: %w", err)
	}
	sum := sha256.Sum256(data)

	// Charts are UTF-8, occasionally with a BOM, and old editors wrote UTF-16.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(bytes.NewReader(data), decoder))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	s := &state{
		log: p.log(),
		chart: &game.Chart{
			FormatVersion: latestVersion,
			Sum:           base64.StdEncoding.EncodeToString(sum[:]),
			Difficulty:    game.DefaultDifficulty(),
			General:       game.General{SampleSet: "normal", PreviewTime: -1},
		},
	}

	sec := secHeader
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if sec == secHeader && strings.HasPrefix(strings.ToLower(line), "osu file format v") {
			s.setVersion(line)
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			next, ok := sectionNames[strings.ToLower(line)]
			if !ok {
				next = secUnknown
			}
			sec = next
			continue
		}

		var ok bool
		switch sec {
		case secGeneral:
			ok = s.general(line)
		case secMetadata:
			ok = s.metadata(line)
		case secDifficulty:
			ok = s.difficulty(line)
		case secEvents:
			ok = s.event(line)
		case secTimingPoints:
			ok = s.timingPoint(line)
		case secColours:
			ok = s.colour(line)
		case secHitObjects:
			ok = s.hitObject(line)
		default:
			ok = true
		}
		if !ok {
			s.log.WithFields(logrus.Fields{"line": lineNo, "content": line}).Debug("skipping chart row")
		}
	}
	if err := sc.Err(); nil != err {
		return nil, fmt.Errorf("unable to scan chart: %w", err)
	}

	s.finish()
	return s.chart, nil
}

func (s *state) setVersion(header string) {
	v := strings.TrimSpace(header[len("osu file format v"):])
	version, err := strconv.Atoi(v)
	if nil != err {
		s.log.WithField("header", header).Debug("unreadable format version, assuming latest")
		return
	}
	s.chart.FormatVersion = version
	if version < 5 {
		s.offset = earlyVersionTimingOffset
	}
}

func (s *state) finish() {
	c := s.chart
	c.Colours = s.colours.Compact()

	slices.SortStableFunc(c.Events, func(a, b game.Event) int { return cmp.Compare(a.Time, b.Time) })
	slices.SortStableFunc(c.Breaks, func(a, b game.Break) int { return cmp.Compare(a.Start, b.Start) })
	slices.SortStableFunc(c.HitObjects, func(a, b game.HitObject) int {
		return cmp.Compare(a.Base().Time, b.Base().Time)
	})
	slices.SortStableFunc(c.TimingPoints, func(a, b game.TimingPoint) int { return cmp.Compare(a.Offset, b.Offset) })

	first := true
	for _, tp := range c.TimingPoints {
		if !tp.Inheritable || tp.MsPerBeat <= 0 {
			continue
		}
		bpm := tp.BPM()
		if first {
			c.BPMMin, c.BPMMax = bpm, bpm
			first = false
			continue
		}
		c.BPMMin = math.Min(c.BPMMin, bpm)
		c.BPMMax = math.Max(c.BPMMax, bpm)
	}

	if !s.seenAR {
		c.Difficulty.AR = c.Difficulty.OD
	}
}

func (s *state) general(line string) bool {
	k, v, ok := splitKeyVal(line)
	if !ok {
		return false
	}
	g := &s.chart.General
	switch strings.ToLower(k) {
	case "audiofilename":
		g.AudioFilename = standardisePath(v)
	case "audioleadin":
		g.AudioLeadIn = parseInt(v, 0)
	case "previewtime":
		t := parseInt(v, -1)
		if t != -1 {
			t += int(s.offset)
		}
		g.PreviewTime = t
	case "sampleset":
		g.SampleSet = strings.ToLower(v)
	case "stackleniency":
		s.chart.Difficulty.SL = parseFloat(v, s.chart.Difficulty.SL)
	case "mode":
		g.Mode = parseInt(v, 0)
	case "countdown":
		g.Countdown = parseInt(v, 0)
	}
	return true
}

func (s *state) metadata(line string) bool {
	k, v, ok := splitKeyVal(line)
	if !ok {
		return false
	}
	m := &s.chart.Metadata
	switch strings.ToLower(k) {
	case "title":
		m.Title = v
	case "titleunicode":
		m.TitleUnicode = v
	case "artist":
		m.Artist = v
	case "artistunicode":
		m.ArtistUnicode = v
	case "creator":
		m.Creator = v
	case "version":
		m.Version = v
	case "source":
		m.Source = v
	case "tags":
		m.Tags = v
	case "beatmapid":
		m.BeatmapID = parseInt(v, 0)
	case "beatmapsetid":
		m.BeatmapSetID = parseInt(v, 0)
	}
	return true
}

func (s *state) difficulty(line string) bool {
	k, v, ok := splitKeyVal(line)
	if !ok {
		return false
	}
	d := &s.chart.Difficulty
	switch strings.ToLower(k) {
	case "hpdrainrate":
		d.HP = clamp(parseFloat(v, d.HP), 0, 10)
	case "circlesize":
		d.CS = clamp(parseFloat(v, d.CS), 0, 10)
	case "overalldifficulty":
		d.OD = clamp(parseFloat(v, d.OD), 0, 10)
	case "approachrate":
		d.AR = clamp(parseFloat(v, d.AR), 0, 10)
		s.seenAR = true
	case "slidermultiplier":
		d.SV = clamp(parseFloat(v, d.SV), 0.4, 3.6)
	case "slidertickrate":
		d.TR = clamp(parseFloat(v, d.TR), 0.5, 8)
	}
	return true
}

func (s *state) event(line string) bool {
	parts := splitCSV(line)
	if len(parts) < 2 {
		return false
	}
	ev := game.Event{Kind: game.EventOther, Params: parts}
	switch strings.ToLower(parts[0]) {
	case "0", "background":
		ev.Kind = game.EventBackground
	case "1", "video":
		ev.Kind = game.EventVideo
	case "2", "break":
		if len(parts) < 3 {
			return false
		}
		ev.Kind = game.EventBreak
	}

	t, err := strconv.ParseFloat(parts[1], 64)
	if nil != err {
		// Storyboard rows (Sprite, Animation, command lines) carry no leading time.
		s.chart.Events = append(s.chart.Events, ev)
		return true
	}
	ev.Time = t + s.offset
	ev.EndTime = ev.Time
	if ev.Kind == game.EventBreak {
		ev.EndTime = math.Max(ev.Time, parseFloat(parts[2], t)+s.offset)
		s.chart.Breaks = append(s.chart.Breaks, game.Break{Start: ev.Time, End: ev.EndTime})
	}
	s.chart.Events = append(s.chart.Events, ev)
	return true
}

func (s *state) timingPoint(line string) bool {
	parts := splitCSV(line)
	if len(parts) < 2 {
		return false
	}
	offset, err := strconv.ParseFloat(parts[0], 64)
	if nil != err {
		return false
	}
	msPerBeat, err := strconv.ParseFloat(parts[1], 64)
	if nil != err || math.IsNaN(msPerBeat) {
		return false
	}
	tp := game.TimingPoint{
		Offset:      offset + s.offset,
		MsPerBeat:   msPerBeat,
		Meter:       4,
		Volume:      100,
		Inheritable: true,
	}
	if len(parts) > 2 {
		if tp.Meter = parseInt(parts[2], 4); tp.Meter <= 0 {
			tp.Meter = 4
		}
	}
	if len(parts) > 3 {
		tp.SampleSet = parseInt(parts[3], 0)
	}
	if len(parts) > 4 {
		tp.SampleIndex = parseInt(parts[4], 0)
	}
	if len(parts) > 5 {
		tp.Volume = parseInt(parts[5], 100)
	}
	if len(parts) > 6 {
		tp.Inheritable = parts[6] == "1"
	}
	if len(parts) > 7 {
		tp.Effects = parseInt(parts[7], 0)
	}
	s.chart.TimingPoints = append(s.chart.TimingPoints, tp)
	return true
}

func (s *state) colour(line string) bool {
	k, v, ok := splitKeyVal(line)
	if !ok {
		return false
	}
	if !strings.HasPrefix(strings.ToLower(k), "combo") {
		// SliderBody, SliderTrackOverride and friends belong to skins.
		return true
	}
	index, err := strconv.Atoi(k[len("combo"):])
	if nil != err || index < 1 || index > game.MaxComboColours {
		return false
	}
	rgb := strings.Split(v, ",")
	if len(rgb) < 3 {
		return false
	}
	c := game.Colour{
		R: uint8(clamp(parseFloat(rgb[0], 0), 0, 255)),
		G: uint8(clamp(parseFloat(rgb[1], 0), 0, 255)),
		B: uint8(clamp(parseFloat(rgb[2], 0), 0, 255)),
	}
	s.colours[index-1] = &c
	return true
}

func (s *state) hitObject(line string) bool {
	parts := splitCSV(line)
	if len(parts) < 5 {
		return false
	}
	x, errX := strconv.ParseFloat(parts[0], 64)
	y, errY := strconv.ParseFloat(parts[1], 64)
	t, errT := strconv.ParseFloat(parts[2], 64)
	flags, errF := strconv.Atoi(parts[3])
	if errX != nil || errY != nil || errT != nil || errF != nil {
		return false
	}

	typ := game.TypeFlags(flags)
	base := game.BaseHO{
		Pos:        game.Vec2{X: x, Y: y},
		Time:       t + s.offset,
		Type:       typ,
		ComboSkips: typ.ComboSkips(),
		Sound:      game.HitSound(parseInt(parts[4], 0)),
	}

	switch {
	case typ&game.TypeCircle != 0:
		if len(parts) > 5 {
			base.Sample = parseHitSample(parts[5])
		}
		s.chart.HitObjects = append(s.chart.HitObjects, game.Circle{BaseHO: base})

	case typ&game.TypeSlider != 0:
		if len(parts) < 6 {
			return false
		}
		slider := game.Slider{BaseHO: base, Repeat: 1}
		slider.CurveType, slider.Sections = parseCurve(base.Pos, parts[5])
		if len(parts) > 6 {
			slider.Repeat = parseInt(parts[6], 1)
		}
		if len(parts) > 7 {
			slider.Length = parseFloat(parts[7], 0)
		}
		if len(parts) > 8 && parts[8] != "" {
			for _, n := range strings.Split(parts[8], "|") {
				slider.EdgeSounds = append(slider.EdgeSounds, game.HitSound(parseInt(n, 0)))
			}
		}
		if len(parts) > 9 && parts[9] != "" {
			for _, pair := range strings.Split(parts[9], "|") {
				slider.EdgeSamples = append(slider.EdgeSamples, parseEdgeSample(pair))
			}
		}
		if len(parts) > 10 {
			slider.Sample = parseHitSample(parts[10])
		}
		s.chart.HitObjects = append(s.chart.HitObjects, slider)

	case typ&game.TypeSpinner != 0:
		spinner := game.Spinner{BaseHO: base, EndTime: base.Time}
		if len(parts) > 5 {
			spinner.EndTime = math.Max(base.Time, parseFloat(parts[5], t)+s.offset)
		}
		if len(parts) > 6 {
			spinner.Sample = parseHitSample(parts[6])
		}
		s.chart.HitObjects = append(s.chart.HitObjects, spinner)

	default:
		// Mania holds and unknown types have no meaning on this playfield.
		return false
	}
	return true
}

// parseCurve converts "B|x:y|x:y|..." into a curve type and its control
// point sections. The slider head is the first point of the first section.
func parseCurve(head game.Vec2, field string) (game.CurveType, [][]game.Vec2) {
	tokens := strings.Split(strings.TrimSpace(field), "|")
	curveType := game.CurveBezier
	switch strings.ToUpper(strings.TrimSpace(tokens[0])) {
	case "L":
		curveType = game.CurveLinear
	case "C":
		curveType = game.CurveCatmull
	case "P":
		curveType = game.CurvePerfect
	}

	points := []game.Vec2{head}
	for _, token := range tokens[1:] {
		xy := strings.Split(strings.TrimSpace(token), ":")
		if len(xy) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(xy[0], 64)
		y, errY := strconv.ParseFloat(xy[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, game.Vec2{X: x, Y: y})
	}
	if len(points) < 2 {
		return curveType, nil
	}

	switch curveType {
	case game.CurvePerfect:
		// A perfect circle needs exactly three points.
		if len(points) != 3 {
			return game.CurveBezier, bezierSections(points)
		}
		return curveType, [][]game.Vec2{points}
	case game.CurveBezier:
		return curveType, bezierSections(points)
	default:
		return curveType, [][]game.Vec2{points}
	}
}

// bezierSections splits control points into sections at repeated points
// (red anchors).
func bezierSections(points []game.Vec2) [][]game.Vec2 {
	var sections [][]game.Vec2
	cur := []game.Vec2{points[0]}
	for _, p := range points[1:] {
		if p == cur[len(cur)-1] {
			if len(cur) >= 2 {
				sections = append(sections, cur)
			}
			cur = []game.Vec2{p}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) >= 2 {
		sections = append(sections, cur)
	}
	return sections
}

// ---------- parsing helpers ----------

func splitKeyVal(line string) (key, val string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]), true
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if nil != err {
		// Some editors write integral fields as decimals.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		return int(f)
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if nil != err || math.IsNaN(v) {
		return def
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func standardisePath(p string) string {
	p = strings.Trim(p, "\"")
	return strings.ReplaceAll(p, "\\", "/")
}

func splitCSV(line string) []string {
	var out []string
	var cur strings.Builder
	inQ := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '"':
			inQ = !inQ
			cur.WriteByte(c)
		case ',':
			if inQ {
				cur.WriteByte(c)
			} else {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	return append(out, strings.TrimSpace(cur.String()))
}

func toSampleSet(id int) game.SampleSet {
	switch id {
	case 1:
		return game.SampleNormal
	case 2:
		return game.SampleSoft
	case 3:
		return game.SampleDrum
	}
	return game.SampleNone
}

// parseHitSample reads "normalSet:additionSet:index:volume:filename".
func parseHitSample(s string) game.HitSample {
	parts := strings.Split(s, ":")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return game.HitSample{
		NormalSet:   toSampleSet(parseInt(get(0), 0)),
		AdditionSet: toSampleSet(parseInt(get(1), 0)),
		Index:       parseInt(get(2), 0),
		Volume:      parseInt(get(3), 0),
		Filename:    strings.Trim(strings.TrimSpace(get(4)), "\""),
	}
}

func parseEdgeSample(s string) game.EdgeSample {
	var e game.EdgeSample
	p := strings.Split(s, ":")
	if len(p) >= 1 {
		e.NormalSet = toSampleSet(parseInt(p[0], 0))
	}
	if len(p) >= 2 {
		e.AdditionSet = toSampleSet(parseInt(p[1], 0))
	}
	return e
}
