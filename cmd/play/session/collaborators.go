package session

import (
	"time"

	"github.com/gigurra/midnight/cmd/play/palette"
	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/gigurra/midnight/cmd/play/visualizer"
)

// Media is the audio element a session drives. Duration is zero while
// unknown. Implementations report state changes through the handler given to
// OnEvent, from any goroutine.
type Media interface {
	Load(src string)
	Play() error
	Pause()
	Paused() bool
	Ended() bool
	CurrentTime() time.Duration
	SetCurrentTime(t time.Duration)
	Duration() time.Duration
	SetVolume(level float64)
	OnEvent(handler func(MediaEvent))
}

// Output is the audio output context. Platforms keep it suspended until a
// user gesture; Play only succeeds once it is resumed.
type Output interface {
	Suspended() bool
	Resume() error
}

// Artwork preloads cover images. done may be called from any goroutine.
type Artwork interface {
	Preload(src string, done func(ok bool))
}

// Extractor derives accent colors from a cover.
type Extractor interface {
	Extract(src string) (palette.Result, bool)
}

// NowPlaying receives track metadata for system media integration.
type NowPlaying interface {
	Update(t Track, index int)
}

// Display receives a fresh View after every dispatched event.
type Display interface {
	Render(v View)
}

// Scheduler is the event loop a session runs on. Post and AfterFunc callbacks
// run on the loop, one at a time.
type Scheduler interface {
	Now() time.Time
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	Stop() bool
}

// Collaborators bundles everything a Session talks to. Media and Scheduler are
// required; the rest may be nil.
type Collaborators struct {
	Media      Media
	Output     Output
	Artwork    Artwork
	Extractor  Extractor
	Analyser   visualizer.Analyser
	NowPlaying NowPlaying
	Display    Display
	Theme      theme.Sink
	Scheduler  Scheduler
}
