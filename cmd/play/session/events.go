package session

import "time"

// Event is anything a Session can Dispatch.
type Event interface {
	event()
}

// LoadTrack switches to the track at Index (wrapped onto the playlist).
type LoadTrack struct {
	Index    int
	Autoplay bool
}

type (
	TogglePlay struct{}
	Play       struct{}
	Pause      struct{}
	Next       struct{}
	Prev       struct{}
	SeekEnd    struct{}
	Pulse      struct{}
)

// SelectTrack is a click on a playlist row.
type SelectTrack struct {
	Index int
}

// SeekBegin starts a seek drag at pointer coordinate X.
type SeekBegin struct {
	X float64
}

// SeekUpdate moves an active seek drag to X.
type SeekUpdate struct {
	X float64
}

// SeekTo jumps to an absolute position, e.g. from system media controls.
type SeekTo struct {
	Position time.Duration
}

// SetVolume sets the output level in [0,1].
type SetVolume struct {
	Level float64
}

// Resize reports the seek track geometry in pointer coordinates.
type Resize struct {
	Left, Width float64
}

// Visibility reports whether the player went out of view.
type Visibility struct {
	Hidden bool
}

// Key is a keyboard press. Codes follow the DOM names: "Space",
// "ArrowLeft", "ArrowRight".
type Key struct {
	Code        string
	InTextField bool
}

// MediaEvent is a notification from the media element.
type MediaEvent int

const (
	MediaLoadedMetadata MediaEvent = iota
	MediaTimeUpdate
	MediaPlay
	MediaPause
	MediaEnded
	MediaError
)

func (e MediaEvent) String() string {
	switch e {
	case MediaLoadedMetadata:
		return "loadedmetadata"
	case MediaTimeUpdate:
		return "timeupdate"
	case MediaPlay:
		return "play"
	case MediaPause:
		return "pause"
	case MediaEnded:
		return "ended"
	case MediaError:
		return "error"
	default:
		return "unknown"
	}
}

// completions of asynchronous work, tagged with the load generation that
// started them
type (
	artworkLoaded struct {
		gen uint64
		ok  bool
	}
	paletteDue struct {
		gen uint64
		src string
	}
	advanceDue struct {
		gen uint64
	}
	preloadDue struct {
		gen uint64
	}
	frameDue struct {
		loop loopKind
		id   uint64
	}
	coverSwapDone struct{}
	pulseDone     struct{ id uint64 }
)

func (LoadTrack) event()     {}
func (TogglePlay) event()    {}
func (Play) event()          {}
func (Pause) event()         {}
func (Next) event()          {}
func (Prev) event()          {}
func (SelectTrack) event()   {}
func (SeekBegin) event()     {}
func (SeekUpdate) event()    {}
func (SeekEnd) event()       {}
func (SeekTo) event()        {}
func (SetVolume) event()     {}
func (Resize) event()        {}
func (Visibility) event()    {}
func (Key) event()           {}
func (Pulse) event()         {}
func (MediaEvent) event()    {}
func (artworkLoaded) event() {}
func (paletteDue) event()    {}
func (advanceDue) event()    {}
func (preloadDue) event()    {}
func (frameDue) event()      {}
func (coverSwapDone) event() {}
func (pulseDone) event()     {}
