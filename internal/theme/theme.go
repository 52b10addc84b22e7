package theme

import "git.lost.host/meutraa/circles/internal/game"

type Theme interface {
	ComboColour(chart game.Colour, ok bool, comboNum int) game.Colour
	RenderHead(number int, approach float64) string
	RenderApproachCircle() string
	RenderSliderBody() string
	RenderSliderBall(following bool) string
	RenderSpinner(progress float64) string
	RenderCursor(held bool) string
	RenderJudgement(v game.ScoreValue) string
	RenderHealth(value float64, width int) string
}
