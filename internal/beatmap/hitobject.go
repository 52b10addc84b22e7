package beatmap

import "git.lost.host/meutraa/circles/internal/game"

// HitObject is a processed hit object. Objects live in Beatmap.Objects and
// are referred to by their index there.
type HitObject interface {
	Common() *ObjectBase
	StartTime() float64
	EndTime() float64
	// AddPlayEvents appends the scorable moments of the object to dst.
	AddPlayEvents(dst []PlayEvent, windows game.HitWindows) []PlayEvent
}

// ComboInfo places an object within its combo.
type ComboInfo struct {
	ComboNum     int
	IndexInCombo int
	LastInCombo  bool
}

// ObjectBase is the state shared by every processed object.
type ObjectBase struct {
	Index  int
	Raw    game.HitObject
	Start  float64
	End    float64
	Timing TimingSnapshot
	Combo  ComboInfo

	// StartPoint and EndPoint include the stack offset. The base points are
	// the unstacked positions stacking is computed from.
	StartPoint, EndPoint         game.Vec2
	BaseStartPoint, BaseEndPoint game.Vec2
	StackHeight                  int
}

func (c *ObjectBase) Common() *ObjectBase { return c }
func (c *ObjectBase) StartTime() float64  { return c.Start }
func (c *ObjectBase) EndTime() float64    { return c.End }

func (c *ObjectBase) headEvents(dst []PlayEvent, windows game.HitWindows) []PlayEvent {
	return append(dst,
		PlayEvent{Kind: PerfectHeadHit, Object: c.Index, Time: c.Start, Position: c.StartPoint, HasPosition: true},
		PlayEvent{Kind: HeadHitWindowEnd, Object: c.Index, Time: c.Start + windows.Hit50, Position: c.StartPoint, HasPosition: true},
	)
}

// stack moves the object by its stack height.
func (c *ObjectBase) stack(offset float64) {
	shift := game.Vec2{X: -offset, Y: -offset}.Scale(float64(c.StackHeight))
	c.StartPoint = c.BaseStartPoint.Add(shift)
	c.EndPoint = c.BaseEndPoint.Add(shift)
}

type Circle struct {
	ObjectBase
}

func newCircle(raw game.Circle) *Circle {
	c := &Circle{}
	c.Raw = raw
	c.Start, c.End = raw.Time, raw.Time
	c.BaseStartPoint, c.BaseEndPoint = raw.Pos, raw.Pos
	c.StartPoint, c.EndPoint = raw.Pos, raw.Pos
	return c
}

func (c *Circle) AddPlayEvents(dst []PlayEvent, windows game.HitWindows) []PlayEvent {
	return c.headEvents(dst, windows)
}

type Spinner struct {
	ObjectBase
	RequiredSpins int
}

func newSpinner(raw game.Spinner, d game.Difficulty) *Spinner {
	s := &Spinner{}
	s.Raw = raw
	s.Start, s.End = raw.Time, raw.EndTime
	centre := game.PlayfieldCenter
	s.BaseStartPoint, s.BaseEndPoint = centre, centre
	s.StartPoint, s.EndPoint = centre, centre
	s.RequiredSpins = int((s.End - s.Start) / 1000 * d.SpinsPerSecond())
	if s.RequiredSpins < 0 {
		s.RequiredSpins = 0
	}
	return s
}

// Duration is the time, in ms, the spinner lasts.
func (s *Spinner) Duration() float64 { return s.End - s.Start }

func (s *Spinner) AddPlayEvents(dst []PlayEvent, windows game.HitWindows) []PlayEvent {
	return append(dst,
		PlayEvent{Kind: SpinnerSpin, Object: s.Index, Time: s.Start, EndTime: s.End, Sustained: true},
		PlayEvent{Kind: SpinnerEnd, Object: s.Index, Time: s.End},
	)
}
