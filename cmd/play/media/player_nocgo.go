//go:build !((linux && cgo) || windows || darwin)

package media

import (
	"log/slog"
	"time"

	"github.com/gigurra/midnight/cmd/play/session"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for the native sound libraries on linux.
const AudioAvailable = false

// Player is a silent stand-in for builds without audio. Every Load reports a
// media error so the session shows it instead of hanging in LOADING.
type Player struct {
	log    *slog.Logger
	events emitter
}

func NewPlayer(cfg Config) *Player {
	cfg = cfg.withDefaults()
	return &Player{log: cfg.Logger}
}

func (p *Player) OnEvent(h func(session.MediaEvent)) { p.events.set(h) }

func (p *Player) Suspended() bool { return false }

func (p *Player) Resume() error { return nil }

func (p *Player) Load(src string) {
	p.log.Warn("audio unavailable", "src", src, "error", ErrAudioUnavailable)
	p.events.emit(session.MediaError)
}

func (p *Player) Play() error { return ErrAudioUnavailable }

func (p *Player) Pause() {}

func (p *Player) Paused() bool { return true }

func (p *Player) Ended() bool { return false }

func (p *Player) CurrentTime() time.Duration { return 0 }

func (p *Player) SetCurrentTime(time.Duration) {}

func (p *Player) Duration() time.Duration { return 0 }

func (p *Player) SetVolume(float64) {}

func (p *Player) Close() {}
