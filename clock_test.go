package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWallClock(t *testing.T) {
	c := newWallClock(time.Hour, 1.5)
	if now := c.Now(); now > -1.5*3599000 || now < -1.5*3600000 {
		t.Errorf("an hour before the start the clock reads %v", now)
	}
	c = &wallClock{start: time.Now().Add(-2 * time.Second), rate: 0.75}
	if now := c.Now(); now < 1500 || now > 1600 {
		t.Errorf("two seconds in at 0.75 the clock reads %v", now)
	}
}

func TestDecodeUnsupportedSong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0o644); nil != err {
		t.Fatal(err)
	}
	if _, _, err := decodeSong(path); nil == err {
		t.Error("decoded a flac file")
	}
	if _, _, err := decodeSong(filepath.Join(t.TempDir(), "missing.mp3")); nil == err {
		t.Error("decoded a missing file")
	}
}
