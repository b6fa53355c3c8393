//go:build (linux && cgo) || windows || darwin

package media

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/gigurra/midnight/cmd/play/session"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// Player plays mp3 tracks through the system speaker. It implements
// session.Media and session.Output; the speaker is opened on the first
// Resume.
type Player struct {
	mu     sync.Mutex
	cfg    Config
	log    *slog.Logger
	events emitter

	initialized bool
	rate        beep.SampleRate

	loadID   uint64 // bumped by every Load, guards end callbacks
	src      string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	attached bool
	paused   bool
	ended    bool
	stopTick chan struct{}
}

func NewPlayer(cfg Config) *Player {
	cfg = cfg.withDefaults()
	return &Player{
		cfg:    cfg,
		log:    cfg.Logger,
		rate:   beep.SampleRate(cfg.SampleRate),
		level:  1,
		paused: true,
	}
}

func (p *Player) OnEvent(h func(session.MediaEvent)) { p.events.set(h) }

func (p *Player) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.initialized
}

// Resume opens the speaker. Calling it again is a no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}
	p.initialized = true
	return nil
}

// Load replaces the current track. Metadata is known as soon as the header
// decodes, so LoadedMetadata (or Error) is emitted before Load returns.
func (p *Player) Load(src string) {
	p.mu.Lock()
	p.unloadLocked()
	p.loadID++
	p.src = src

	streamer, format, err := p.decode(src)
	if err != nil {
		p.mu.Unlock()
		p.log.Warn("cannot load audio", "src", src, "error", err)
		p.events.emit(session.MediaError)
		return
	}
	p.streamer = streamer
	p.format = format
	p.mu.Unlock()

	p.events.emit(session.MediaLoadedMetadata)
}

func (p *Player) decode(src string) (beep.StreamSeekCloser, beep.Format, error) {
	if p.cfg.FS == nil {
		return nil, beep.Format{}, ErrNoSource
	}
	data, err := fs.ReadFile(p.cfg.FS, src)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return mp3.Decode(nopCloser{bytes.NewReader(data)})
}

// Play starts or resumes playback. A track that ended restarts from the top.
func (p *Player) Play() error {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return ErrSuspended
	}
	if p.streamer == nil {
		p.mu.Unlock()
		return ErrNoSource
	}

	if p.ended {
		speaker.Lock()
		err := p.streamer.Seek(0)
		speaker.Unlock()
		if err != nil {
			p.mu.Unlock()
			return err
		}
		p.ended = false
	}

	if !p.attached {
		p.ctrl, p.volume = buildChain(p.streamer, p.format.SampleRate, p.rate, p.cfg.Sink, p.level)
		p.ctrl.Paused = false
		id := p.loadID
		speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
			// the speaker lock is held here
			go p.finish(id)
		})))
		p.attached = true
	} else {
		speaker.Lock()
		p.ctrl.Paused = false
		speaker.Unlock()
	}
	p.paused = false
	p.startTickLocked()
	p.mu.Unlock()

	p.events.emit(session.MediaPlay)
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	if p.paused {
		p.mu.Unlock()
		return
	}
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
	p.paused = true
	p.stopTickLocked()
	p.mu.Unlock()

	p.events.emit(session.MediaPause)
}

func (p *Player) finish(id uint64) {
	p.mu.Lock()
	if id != p.loadID || p.streamer == nil {
		p.mu.Unlock()
		return
	}
	p.attached = false
	p.paused = true
	p.ended = true
	p.stopTickLocked()
	p.mu.Unlock()

	p.events.emit(session.MediaPause)
	p.events.emit(session.MediaEnded)
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

func (p *Player) CurrentTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// SetCurrentTime seeks, clamped to the track. Seeking clears the ended flag.
func (p *Player) SetCurrentTime(t time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return
	}
	n := min(max(p.format.SampleRate.N(t), 0), p.streamer.Len())

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		p.log.Debug("seek failed", "src", p.src, "error", err)
		return
	}
	if p.ended && n < p.streamer.Len() {
		p.ended = false
	}
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = level
	if p.volume == nil {
		return
	}
	vol, silent := gain(level)
	speaker.Lock()
	p.volume.Volume = vol
	p.volume.Silent = silent
	speaker.Unlock()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unloadLocked()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
}

// unloadLocked drops the current track. Must be called with p.mu held.
func (p *Player) unloadLocked() {
	p.stopTickLocked()
	if p.attached {
		speaker.Clear()
		p.attached = false
	}
	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			p.log.Debug("closing stream", "src", p.src, "error", err)
		}
	}
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.paused = true
	p.ended = false
}

func (p *Player) startTickLocked() {
	if p.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	p.stopTick = stop
	interval := p.cfg.TimeUpdateInterval

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				p.events.emit(session.MediaTimeUpdate)
			}
		}
	}()
}

func (p *Player) stopTickLocked() {
	if p.stopTick != nil {
		close(p.stopTick)
		p.stopTick = nil
	}
}
