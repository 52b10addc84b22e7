package beatmap

import "git.lost.host/meutraa/circles/internal/game"

// stackDistance is how close, in osu!pixels, two objects must be to stack.
const stackDistance = 3

type stacker interface {
	stack(offset float64)
}

// ApplyStacking assigns stack heights and offsets every object by its
// height. It works from the unstacked positions, so running it again gives
// the same result.
func (b *Beatmap) ApplyStacking() {
	b.computeStackHeights(0, len(b.Objects)-1)
	offset := b.Difficulty.StackOffset()
	for _, o := range b.Objects {
		o.(stacker).stack(offset)
	}
	b.Events = generateEvents(b.Objects, b.Difficulty.HitWindows())
}

func isSpinner(o HitObject) bool {
	_, ok := o.(*Spinner)
	return ok
}

func isSlider(o HitObject) bool {
	_, ok := o.(*Slider)
	return ok
}

func near(a, b game.Vec2) bool {
	return a.Dist(b) < stackDistance
}

func (b *Beatmap) computeStackHeights(start, end int) {
	objects := b.Objects
	if len(objects) == 0 {
		return
	}
	threshold := b.Difficulty.ApproachTime() * b.Difficulty.SL

	for i := start; i <= end; i++ {
		objects[i].Common().StackHeight = 0
	}

	// Pull in later objects stacked onto the range.
	extendedEnd := end
	if end < len(objects)-1 {
		for i := end; i >= start; i-- {
			base := i
			for n := base + 1; n < len(objects); n++ {
				baseObj := objects[base]
				if isSpinner(baseObj) {
					break
				}
				obj := objects[n]
				if isSpinner(obj) {
					continue
				}
				if obj.StartTime()-baseObj.EndTime() > threshold {
					break
				}
				bc, oc := baseObj.Common(), obj.Common()
				if near(bc.BaseStartPoint, oc.BaseStartPoint) || (isSlider(baseObj) && near(bc.BaseEndPoint, oc.BaseStartPoint)) {
					base = n
					oc.StackHeight = 0
				}
			}
			if base > extendedEnd {
				extendedEnd = base
				if extendedEnd == len(objects)-1 {
					break
				}
			}
		}
	}

	// Walk backwards building stacks under each object.
	extendedStart := start
	for i := extendedEnd; i > start; i-- {
		objI := objects[i]
		ci := objI.Common()
		if ci.StackHeight != 0 || isSpinner(objI) {
			continue
		}

		n := i
		if isSlider(objI) {
			for n--; n >= start; n-- {
				objN := objects[n]
				if isSpinner(objN) {
					continue
				}
				cn := objN.Common()
				if ci.Start-cn.Start > threshold {
					break
				}
				if near(cn.BaseEndPoint, ci.BaseStartPoint) {
					cn.StackHeight = ci.StackHeight + 1
					ci = cn
				}
			}
			continue
		}

		for n--; n >= 0; n-- {
			objN := objects[n]
			if isSpinner(objN) {
				continue
			}
			cn := objN.Common()
			if ci.Start-cn.End > threshold {
				break
			}
			if n < extendedStart {
				cn.StackHeight = 0
				extendedStart = n
			}

			// A slider ending under this object pushes the stack down instead.
			if isSlider(objN) && near(cn.BaseEndPoint, ci.BaseStartPoint) {
				offset := ci.StackHeight - cn.StackHeight + 1
				for j := n + 1; j <= i; j++ {
					cj := objects[j].Common()
					if near(cn.BaseEndPoint, cj.BaseStartPoint) {
						cj.StackHeight -= offset
					}
				}
				break
			}
			if near(cn.BaseStartPoint, ci.BaseStartPoint) {
				cn.StackHeight = ci.StackHeight + 1
				ci = cn
			}
		}
	}
}
