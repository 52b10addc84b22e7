package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Clock reports the song position in chart milliseconds.
type Clock interface {
	Now() float64
}

// wallClock runs rate times faster than real time from start.
type wallClock struct {
	start time.Time
	rate  float64
}

func newWallClock(delay time.Duration, rate float64) *wallClock {
	return &wallClock{start: time.Now().Add(delay), rate: rate}
}

func (c *wallClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond) * c.rate
}

// songClock follows the speaker once the song starts. The streamer position
// only moves a buffer at a time, so it is smoothed with the wall clock.
type songClock struct {
	wall     *wallClock
	streamer beep.StreamSeekCloser
	format   beep.Format
	buffer   float64 // ms of song per speaker buffer
	started  atomic.Bool

	mu      sync.Mutex
	lastPos int
	lastAt  time.Time
}

func (c *songClock) Now() float64 {
	if !c.started.Load() {
		return c.wall.Now()
	}
	speaker.Lock()
	pos := c.streamer.Position()
	speaker.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if pos != c.lastPos {
		c.lastPos, c.lastAt = pos, now
	}
	ms := float64(c.format.SampleRate.D(pos)) / float64(time.Millisecond)
	since := float64(now.Sub(c.lastAt)) / float64(time.Millisecond) * c.wall.rate
	return ms + math.Min(since, c.buffer)
}

func decodeSong(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	f.Close()
	return nil, beep.Format{}, fmt.Errorf("unsupported audio format %v", filepath.Ext(path))
}

// startSong plays the song at path after delay, rate times faster. The
// returned stop function silences it.
func startSong(path string, delay time.Duration, rate float64) (Clock, func(), error) {
	streamer, format, err := decodeSong(path)
	if nil != err {
		return nil, nil, fmt.Errorf("unable to open song: %w", err)
	}

	// Playing at a scaled sample rate changes speed and pitch together.
	buffer := time.Second / 60
	if err := speaker.Init(beep.SampleRate(math.Round(float64(format.SampleRate)*rate)), format.SampleRate.N(buffer)); nil != err {
		streamer.Close()
		return nil, nil, fmt.Errorf("unable to open speaker: %w", err)
	}

	c := &songClock{
		wall:     newWallClock(delay, rate),
		streamer: streamer,
		format:   format,
		buffer:   float64(buffer) / float64(time.Millisecond) * rate,
	}
	timer := time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.lastAt = time.Now()
		c.mu.Unlock()
		c.started.Store(true)
		speaker.Play(streamer)
	})
	stop := func() {
		timer.Stop()
		speaker.Clear()
		streamer.Close()
	}
	return c, stop, nil
}
