package render

import (
	"time"

	"git.lost.host/meutraa/circles/internal/game"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (rows, columns int)
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(framePeriod time.Duration, render func(elapsed time.Duration) bool)
	Clear()
	Fill(row, col int, message string)
	FillColor(row, col int, c game.Colour, message string)
}
