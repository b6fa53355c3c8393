// Package media provides the audio element, cover artwork and now-playing
// collaborators for a playback session.
package media

import (
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gigurra/midnight/cmd/play/session"
)

var (
	ErrSuspended        = errors.New("audio output not resumed")
	ErrNoSource         = errors.New("no track loaded")
	ErrOutput           = errors.New("cannot open audio output")
	ErrAudioUnavailable = errors.New("audio playback not supported in this build")
)

const (
	DefaultSampleRate         = 44100
	DefaultTimeUpdateInterval = 250 * time.Millisecond
)

// SampleSink receives every block of samples sent to the speaker.
type SampleSink interface {
	Write(samples [][2]float64)
}

// Config configures a Player. FS holds the audio files.
type Config struct {
	FS                 fs.FS
	Sink               SampleSink
	Logger             *slog.Logger
	SampleRate         int
	TimeUpdateInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.TimeUpdateInterval <= 0 {
		c.TimeUpdateInterval = DefaultTimeUpdateInterval
	}
	return c
}

// emitter fans media events out to the session handler.
type emitter struct {
	mu sync.Mutex
	h  func(session.MediaEvent)
}

func (e *emitter) set(h func(session.MediaEvent)) {
	e.mu.Lock()
	e.h = h
	e.mu.Unlock()
}

func (e *emitter) emit(ev session.MediaEvent) {
	e.mu.Lock()
	h := e.h
	e.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// gain maps a linear level in [0,1] onto a base 2 volume exponent.
func gain(level float64) (volume float64, silent bool) {
	if level <= 0 {
		return 0, true
	}
	return math.Log2(math.Min(level, 1)), false
}
