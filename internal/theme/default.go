package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"git.lost.host/meutraa/circles/internal/game"
)

type DefaultTheme struct {
}

// ComboColour is the chart's colour when it has one, else the palette's.
func (t *DefaultTheme) ComboColour(chart game.Colour, ok bool, comboNum int) game.Colour {
	if ok {
		return chart
	}
	return palette[(max(comboNum, 1)-1)%len(palette)]
}

// RenderHead draws the combo number, bracketed while the approach circle
// is still closing in.
func (t *DefaultTheme) RenderHead(number int, approach float64) string {
	n := strconv.Itoa(number % 100)
	if approach <= 0.25 {
		return "(" + n + ")"
	}
	i := int(math.Min(approach, 1) * float64(len(approachSyms)-1))
	return approachSyms[i] + n + approachSyms[i]
}

func (t *DefaultTheme) RenderApproachCircle() string {
	return approachSym
}

func (t *DefaultTheme) RenderSliderBody() string {
	return sliderSym
}

func (t *DefaultTheme) RenderSliderBall(following bool) string {
	if following {
		return "\033[1;32m" + ballSym + "\033[0m"
	}
	return ballSym
}

func (t *DefaultTheme) RenderSpinner(progress float64) string {
	p := math.Max(0, math.Min(1, progress))
	return fmt.Sprintf("\033[1;36m%s %3.0f%%\033[0m", spinnerSyms[int(p*float64(len(spinnerSyms)-1))], p*100)
}

func (t *DefaultTheme) RenderCursor(held bool) string {
	if held {
		return "\033[1;33m" + cursorSym + "\033[0m"
	}
	return "\033[33m" + cursorSym + "\033[0m"
}

func (t *DefaultTheme) RenderJudgement(v game.ScoreValue) string {
	switch v {
	case game.Hit300:
		return "\033[1;36m300\033[0m"
	case game.Hit100:
		return "\033[1;32m100\033[0m"
	case game.Hit50:
		return "\033[1;33m50\033[0m"
	case game.Miss:
		return "\033[1;31m✗\033[0m"
	}
	return ""
}

// RenderHealth draws a bar width cells wide.
func (t *DefaultTheme) RenderHealth(value float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, value)) * float64(width)))
	colour := "\033[1;32m"
	if value < 0.25 {
		colour = "\033[1;31m"
	}
	return colour + strings.Repeat("█", filled) + "\033[0m" + strings.Repeat("░", width-filled)
}

const (
	sliderSym   = "·"
	ballSym     = "●"
	cursorSym   = "+"
	approachSym = "◦"
)

var (
	approachSyms = [...]string{" ", "⋅", "∘", "○"}
	spinnerSyms  = [...]string{"◜", "◝", "◞", "◟", "◯"}
	palette      = [...]game.Colour{
		{R: 255, G: 192, B: 0},
		{R: 0, G: 202, B: 0},
		{R: 18, G: 124, B: 255},
		{R: 242, G: 24, B: 57},
	}
)
