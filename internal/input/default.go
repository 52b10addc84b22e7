package input

import (
	"sync"

	"git.lost.host/meutraa/circles/internal/game"
	"git.lost.host/meutraa/circles/internal/judge"
	"github.com/eiannone/keyboard"
	"github.com/sirupsen/logrus"
)

// Event is one key press, stamped with the song time it was read at.
type Event struct {
	Rune   rune
	Key    keyboard.Key
	Time   float64
	Escape bool
}

// Reader forwards terminal key presses until Close.
type Reader struct {
	Clock func() float64
	Log   logrus.FieldLogger

	done chan struct{}
	wg   sync.WaitGroup
}

// Open starts reading the terminal keyboard into events.
func (r *Reader) Open(events chan<- Event) error {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return err
	}
	r.done = make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-r.done:
				return
			case k, ok := <-keys:
				if !ok {
					return
				}
				if nil != k.Err {
					r.Log.WithError(k.Err).Warn("unable to read keyboard input")
					continue
				}
				ev := Event{Rune: k.Rune, Key: k.Key, Time: r.Clock(), Escape: k.Key == keyboard.KeyEsc || k.Key == keyboard.KeyCtrlC}
				select {
				case events <- ev:
				case <-r.done:
					return
				}
			}
		}
	}()
	return nil
}

func (r *Reader) Close() error {
	if nil != r.done {
		close(r.done)
		r.wg.Wait()
		r.done = nil
	}
	return keyboard.Close()
}

// Hold tracks which keys count as held. Terminals only report presses, so a
// key is held from the press that starts a run until Window ms after its
// latest press or auto repeat.
type Hold struct {
	Window float64

	mu   sync.Mutex
	runs map[rune]run
}

type run struct {
	start, last float64
}

func NewHold(window float64) *Hold {
	return &Hold{Window: window, runs: map[rune]run{}}
}

// Press records a press of r at time. It reports whether this starts a new
// hold, i.e. whether the press is a click rather than a repeat.
func (h *Hold) Press(r rune, time float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur, ok := h.runs[r]
	if !ok || time-cur.last > h.Window {
		h.runs[r] = run{start: time, last: time}
		return true
	}
	cur.last = max(cur.last, time)
	h.runs[r] = cur
	return false
}

func (h *Hold) Held(time float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cur := range h.runs {
		if time >= cur.start && time-cur.last <= h.Window {
			return true
		}
	}
	return false
}

// Source combines keyboard holds with a cursor taken from another source,
// since the terminal has no pointer.
type Source struct {
	Hold *Hold
	Aim  judge.InputSource
}

func (s *Source) Sample(time float64) judge.InputState {
	cursor := game.PlayfieldCenter
	if nil != s.Aim {
		cursor = s.Aim.Sample(time).Cursor
	}
	return judge.InputState{Held: s.Hold.Held(time), Cursor: cursor}
}
