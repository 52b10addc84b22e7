package beatmap

import (
	"math"

	"git.lost.host/meutraa/circles/internal/curve"
	"git.lost.host/meutraa/circles/internal/game"
)

const (
	// tickEdgeLeniency rejects ticks this close, in ms, to either end of a
	// cycle.
	tickEdgeLeniency = 6
	// maxTickLength bounds the distance ticks are generated over.
	maxTickLength = 100000
	// tailLeniency is how early, in ms, the end of a slider is checked.
	tailLeniency = 36
)

type Slider struct {
	ObjectBase

	// Path includes the stack offset; BasePath does not.
	Path, BasePath curve.Path
	Length         float64
	Velocity       float64 // osu!pixels per ms
	Duration       float64
	RepeatCount    int
	// TickCompletions are progress values in [0, RepeatCount), ascending.
	TickCompletions []float64

	// Invisible sliders keep their combo and score slots but have no body
	// to follow.
	Invisible bool
}

func newSlider(raw game.Slider, timing TimingSnapshot, d game.Difficulty) *Slider {
	s := &Slider{RepeatCount: max(1, raw.Repeat)}
	s.Raw = raw
	s.Timing = timing
	s.Start = raw.Time

	length := raw.Length
	if raw.CurveType != game.CurveBezier && len(raw.Sections) == 0 {
		s.Invisible = true
	}
	if length < 0 || math.IsNaN(length) {
		s.Invisible = true
		length = 0
	}
	s.BasePath, s.Length = curve.Build(raw.CurveType, raw.Sections, length)
	if s.BasePath.Empty() {
		s.BasePath = curve.Point(raw.Pos)
	}
	s.Path = s.BasePath

	s.Velocity = 100 * d.SV / timing.MsPerBeat()
	end := float64(float32(s.Start + s.Length*float64(s.RepeatCount)/s.Velocity))
	if !finite32(s.Velocity) || s.Velocity <= 0 || !finite32(end) {
		s.Invisible = true
		end = s.Start
	}
	s.End = end
	s.Duration = s.End - s.Start

	s.BaseStartPoint = raw.Pos
	s.BaseEndPoint = s.progressPoint(s.BasePath, float64(s.RepeatCount))
	s.StartPoint, s.EndPoint = s.BaseStartPoint, s.BaseEndPoint

	if !s.Invisible {
		s.TickCompletions = s.ticks(timing.BaseMsPerBeat / d.TR)
	}
	return s
}

func finite32(v float64) bool {
	f := float64(float32(v))
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ticks lays ticks out over the first cycle and mirrors them onto the rest.
func (s *Slider) ticks(interval float64) []float64 {
	distance := s.Velocity * interval
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) || s.Length <= 0 {
		return nil
	}
	cycle := s.CycleDuration()
	scoring := math.Min(s.Length, maxTickLength)

	var first []float64
	for i := 1; float64(i)*distance < scoring; i++ {
		d := float64(i) * distance
		offset := d / s.Velocity
		if offset < tickEdgeLeniency || cycle-offset < tickEdgeLeniency {
			continue
		}
		first = append(first, d/s.Length)
	}
	if len(first) == 0 {
		return nil
	}

	out := make([]float64, 0, len(first)*s.RepeatCount)
	for r := 0; r < s.RepeatCount; r++ {
		if r%2 == 0 {
			for _, c := range first {
				out = append(out, float64(r)+c)
			}
			continue
		}
		for i := len(first) - 1; i >= 0; i-- {
			out = append(out, float64(r)+1-first[i])
		}
	}
	return out
}

// CycleDuration is the time one traversal of the path takes.
func (s *Slider) CycleDuration() float64 {
	return s.Duration / float64(s.RepeatCount)
}

// TailPoint is the far end of the path.
func (s *Slider) TailPoint() game.Vec2 {
	return s.Path.PointAt(1)
}

func (s *Slider) progressPoint(path curve.Path, progress float64) game.Vec2 {
	progress = math.Max(0, math.Min(float64(s.RepeatCount), progress))
	cycle := int(progress)
	c := progress - float64(cycle)
	if cycle >= s.RepeatCount {
		cycle, c = s.RepeatCount-1, 1
	}
	if cycle%2 == 1 {
		c = 1 - c
	}
	return path.PointAt(c)
}

// PositionAtProgress maps progress in [0, RepeatCount] to a position, going
// back along the path on odd cycles.
func (s *Slider) PositionAtProgress(progress float64) game.Vec2 {
	return s.progressPoint(s.Path, progress)
}

// PositionAtTime is where the ball is at time.
func (s *Slider) PositionAtTime(time float64) game.Vec2 {
	cycle := s.CycleDuration()
	if cycle <= 0 {
		return s.StartPoint
	}
	return s.PositionAtProgress((time - s.Start) / cycle)
}

func (s *Slider) stack(offset float64) {
	s.ObjectBase.stack(offset)
	shift := game.Vec2{X: -offset, Y: -offset}.Scale(float64(s.StackHeight))
	s.Path = s.BasePath.Translate(shift)
}

func (s *Slider) AddPlayEvents(dst []PlayEvent, windows game.HitWindows) []PlayEvent {
	dst = s.headEvents(dst, windows)

	if !s.Invisible && float32(s.Duration) >= 1 {
		dst = append(dst, PlayEvent{Kind: SliderSlide, Object: s.Index, Time: s.Start, EndTime: s.End, Sustained: true})
	}

	cycle := s.CycleDuration()
	for r := 1; r < s.RepeatCount; r++ {
		dst = append(dst, PlayEvent{
			Kind:        SliderRepeat,
			Object:      s.Index,
			Time:        s.Start + float64(r)*cycle,
			Position:    s.PositionAtProgress(float64(r)),
			HasPosition: true,
			Index:       r - 1,
		})
	}
	for i, c := range s.TickCompletions {
		dst = append(dst, PlayEvent{
			Kind:        SliderTick,
			Object:      s.Index,
			Time:        s.Start + c*cycle,
			Position:    s.PositionAtProgress(c),
			HasPosition: true,
			Index:       i,
		})
	}

	d := s.Duration
	return append(dst,
		PlayEvent{Kind: SliderEndCheck, Object: s.Index, Time: s.Start + math.Max(d-tailLeniency, d/2), Position: s.EndPoint, HasPosition: true},
		PlayEvent{Kind: SliderEnd, Object: s.Index, Time: s.End, Position: s.EndPoint, HasPosition: true},
	)
}
