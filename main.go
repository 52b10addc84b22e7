package main

import (
	"os"

	"git.lost.host/meutraa/circles/internal/config"
	"git.lost.host/meutraa/circles/internal/parser"
	"git.lost.host/meutraa/circles/internal/render"
	"git.lost.host/meutraa/circles/internal/score"
	"git.lost.host/meutraa/circles/internal/theme"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); nil != err {
		logrus.Fatalln(err)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)

	// Ensure our Default implementations are used as interfaces
	p := &Program{
		Config:   cfg,
		Log:      log,
		Parser:   &parser.DefaultParser{Log: log},
		Store:    &score.DefaultStore{Path: cfg.Database, Log: log},
		Theme:    &theme.DefaultTheme{},
		Renderer: &render.DefaultRenderer{},
		Out:      os.Stdout,
	}
	if err := p.Init(); nil != err {
		return err
	}
	defer p.Deinit()

	return p.Run()
}
