package render

import (
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/circles/internal/game"
	"golang.org/x/term"
)

type DefaultRenderer struct {
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
	rows, cols   int
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	fd := int(os.Stdout.Fd())
	state, err := term.MakeRaw(fd)
	if nil != err {
		return err
	}
	r.restoreState = state
	r.cols, r.rows, err = term.GetSize(fd)
	if nil != err {
		term.Restore(fd, state)
		return err
	}

	os.Stdout.WriteString("\033[?1049h" + // Enable alternate buffer
		"\033[?25l" + // Make the cursor invisible
		"\033[J", // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	os.Stdout.WriteString("\033[?1049l" + // Disable alternate buffer
		"\033[?25h", // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (rows, columns int) {
	return r.rows, r.cols
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := r.decorations[:0]
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		r.Fill(d.Row, d.Col, d.Content)
		d.Frames--
		nd = append(nd, d)
	}
	r.decorations = nd
}

// RenderLoop calls render once per frame until it returns false. The size
// is refreshed every frame so resizes take effect.
func (r *DefaultRenderer) RenderLoop(framePeriod time.Duration, render func(elapsed time.Duration) bool) {
	start := time.Now()
	for {
		now := time.Now()
		deadline := now.Add(framePeriod)
		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); nil == err {
			r.rows, r.cols = rows, cols
		}

		r.Clear()
		cont := render(now.Sub(start))
		r.tickDecorations()
		r.flush()
		if !cont {
			return
		}
		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[H\033[2J")
}

func (r *DefaultRenderer) moveTo(row, col int) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(col))
	r.buffer.WriteString("H")
}

func (r *DefaultRenderer) Fill(row, col int, message string) {
	if row < 1 || col < 1 || (r.rows > 0 && row > r.rows) {
		return
	}
	r.moveTo(row, col)
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, col int, c game.Colour, message string) {
	if row < 1 || col < 1 || (r.rows > 0 && row > r.rows) {
		return
	}
	r.moveTo(row, col)
	r.buffer.WriteString("\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	os.Stdout.WriteString(r.buffer.String())
	r.buffer.Reset()
}
