// Package session implements the player's playback controller.
//
// A Session owns the current track, play/pause/seek state and the display
// state derived from them. It is driven exclusively through Dispatch on a
// single event loop (see Scheduler); collaborators report back by posting
// events onto that loop. Asynchronous completions carry the load generation
// that started them so a newer LoadTrack always wins.
package session

import (
	"log/slog"
	"time"

	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/gigurra/midnight/cmd/play/visualizer"
	"github.com/google/uuid"
)

const modeLabel = "HI-FI"

// View is everything a display needs to draw the player.
type View struct {
	Index     int
	Title     string
	Artist    string
	Chip      string // "02/04"
	State     string
	Mode      string
	Footer    string
	Cover     string
	CoverSwap bool
	Backdrops [2]string
	Backdrop  int // slot currently faded in
	SeekPct   float64
	Position  time.Duration
	Duration  time.Duration
	TimeNow   string
	TimeTotal string
	Playing   bool
	Pills     [TrackCount]string
	Bars      []float64
}

type loopKind int

const (
	progressLoop loopKind = iota
	vizLoop
)

type frameLoop struct {
	running bool
	id      uint64
	timer   Timer
}

// Session is one player instance. All methods must be called on the loop
// goroutine of its Scheduler.
type Session struct {
	id   string
	log  *slog.Logger
	opts Options
	c    Collaborators
	bars *visualizer.Bars

	state    State
	index    int
	gen      uint64 // bumped by every LoadTrack
	autoplay bool
	metaGen  uint64 // generation waiting for metadata, 0 when none

	seeking              bool
	wasPlayingBeforeSeek bool
	preSeek              State
	trackLeft            float64
	trackWidth           float64

	hidden    bool
	lastPaint time.Time
	loops     [2]frameLoop
	vizStart  time.Time
	advance   Timer

	backdropFlip bool
	pulseID      uint64
	pulsing      bool

	view View
}

// New creates a session. c.Media and c.Scheduler are required.
func New(c Collaborators, opts Options) *Session {
	opts = opts.withDefaults()
	if c.Theme == nil {
		c.Theme = theme.NewVars()
	}

	id := uuid.NewString()
	s := &Session{
		id:    id,
		log:   slog.With("session", id),
		opts:  opts,
		c:     c,
		bars:  visualizer.NewBars(opts.BarCount),
		state: StateStopped,
	}
	s.view.Mode = modeLabel
	s.view.Bars = s.bars.Heights()

	c.Media.OnEvent(func(ev MediaEvent) {
		c.Scheduler.Post(func() { s.Dispatch(ev) })
	})
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

func (s *Session) Index() int { return s.index }

func (s *Session) Seeking() bool { return s.seeking }

func (s *Session) Theme() theme.Sink { return s.c.Theme }

// View returns a copy of the current display state.
func (s *Session) View() View {
	v := s.view
	v.Bars = append([]float64(nil), s.view.Bars...)
	return v
}

// Start puts the player into its initial calm state and loads the first track.
func (s *Session) Start() {
	s.view.Chip = chipIndex(0)
	s.view.TimeNow = FormatTime(0)
	s.view.TimeTotal = FormatTime(0)
	s.view.SeekPct = 0
	s.setState(StateStopped)

	theme.Apply(s.c.Theme,
		theme.Current(s.c.Theme, theme.Accent, theme.DefaultAccent),
		theme.Current(s.c.Theme, theme.Accent2, theme.DefaultAccent2),
	)

	s.loadTrack(0, false)
	s.render()
}

// Dispatch handles one event and re-renders.
func (s *Session) Dispatch(ev Event) {
	s.handle(ev)
	s.render()
}

func (s *Session) handle(ev Event) {
	switch ev := ev.(type) {
	case LoadTrack:
		s.loadTrack(ev.Index, ev.Autoplay)
	case TogglePlay:
		s.togglePlay()
	case Play:
		if !s.isPlaying() {
			s.togglePlay()
		}
	case Pause:
		if s.isPlaying() {
			s.pause()
		}
	case Next:
		s.loadTrack(s.index+1, s.isPlaying())
	case Prev:
		s.loadTrack(s.index-1, s.isPlaying())
	case SelectTrack:
		if Wrap(ev.Index) != s.index {
			s.loadTrack(ev.Index, true)
		} else {
			s.togglePlay()
		}
	case SeekBegin:
		s.seekBegin(ev.X)
	case SeekUpdate:
		s.seekUpdate(ev.X)
	case SeekEnd:
		s.seekEnd()
	case SeekTo:
		s.seekTo(ev.Position)
	case SetVolume:
		s.c.Media.SetVolume(theme.Clamp01(ev.Level))
	case Resize:
		s.trackLeft, s.trackWidth = ev.Left, ev.Width
	case Visibility:
		s.setHidden(ev.Hidden)
	case Key:
		s.key(ev)
	case Pulse:
		s.pulse()
	case MediaEvent:
		s.onMedia(ev)
	case artworkLoaded:
		s.onArtwork(ev)
	case paletteDue:
		s.applyPalette(ev.gen, ev.src)
	case advanceDue:
		if ev.gen == s.gen && s.state == StateEnded && !s.hidden {
			s.loadTrack(s.index+1, true)
		}
	case preloadDue:
		s.preloadAdjacent(ev.gen)
	case frameDue:
		s.onFrame(ev)
	case coverSwapDone:
		s.view.CoverSwap = false
	case pulseDone:
		if ev.id == s.pulseID {
			s.pulsing = false
			s.refreshLabels()
		}
	}
}

func (s *Session) render() {
	if s.c.Display != nil {
		s.c.Display.Render(s.View())
	}
}

// after dispatches ev on the loop once d has passed.
func (s *Session) after(d time.Duration, ev Event) Timer {
	return s.c.Scheduler.AfterFunc(d, func() { s.Dispatch(ev) })
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

func (s *Session) isPlaying() bool {
	return !s.c.Media.Paused() && !s.c.Media.Ended()
}

func (s *Session) setState(st State) {
	s.state = st
	s.refreshLabels()
}

func (s *Session) refreshLabels() {
	s.view.State = s.state.String()
	if !s.pulsing {
		s.view.Footer = footer(s.state)
	}
	for i := range s.view.Pills {
		switch {
		case i != s.index:
			s.view.Pills[i] = "PLAY"
		case s.c.Media.Paused():
			s.view.Pills[i] = "READY"
		default:
			s.view.Pills[i] = "LIVE"
		}
	}
}

// loadTrack switches tracks: artwork first, then audio, then READY and
// optionally playback.
func (s *Session) loadTrack(index int, autoplay bool) {
	resume := s.isPlaying() || (s.seeking && s.wasPlayingBeforeSeek)

	s.index = Wrap(index)
	s.gen++
	s.autoplay = autoplay || resume
	s.metaGen = 0
	s.seeking = false
	stopTimer(&s.advance)
	s.stopViz()

	t := Playlist[s.index]
	s.view.Index = s.index
	s.view.Chip = chipIndex(s.index)
	s.view.Mode = modeLabel
	s.view.Title = t.Title
	s.view.Artist = t.Artist
	s.setState(StateLoading)
	s.log.Info("loading track", "index", s.index, "title", t.Title, "autoplay", s.autoplay)

	gen := s.gen
	if s.c.Artwork == nil {
		s.onArtwork(artworkLoaded{gen: gen, ok: true})
		return
	}
	s.c.Artwork.Preload(t.Cover, func(ok bool) {
		s.c.Scheduler.Post(func() { s.Dispatch(artworkLoaded{gen: gen, ok: ok}) })
	})
}

func (s *Session) onArtwork(ev artworkLoaded) {
	if ev.gen != s.gen || s.state != StateLoading {
		return
	}
	t := Playlist[s.index]
	if !ev.ok {
		s.log.Debug("cover did not preload", "src", t.Cover)
	}

	s.view.CoverSwap = true
	s.after(s.opts.CoverSwapDuration, coverSwapDone{})
	s.view.Cover = t.Cover
	s.setBackdrop(t.Cover)
	s.schedulePalette(ev.gen, t.Cover)

	s.metaGen = ev.gen
	s.c.Media.Load(t.Audio)
	if s.c.Media.Duration() > 0 {
		s.finishLoad()
	}
}

func (s *Session) setBackdrop(src string) {
	on := 1
	if s.backdropFlip {
		on = 0
	}
	s.backdropFlip = !s.backdropFlip
	s.view.Backdrops[on] = src
	s.view.Backdrop = on
}

func (s *Session) schedulePalette(gen uint64, src string) {
	if s.c.Extractor == nil {
		return
	}
	if s.opts.IdleExtraction {
		s.after(s.opts.IdleDelay, paletteDue{gen: gen, src: src})
		return
	}
	s.applyPalette(gen, src)
}

func (s *Session) applyPalette(gen uint64, src string) {
	if gen != s.gen {
		return
	}
	if res, ok := s.c.Extractor.Extract(src); ok {
		theme.Apply(s.c.Theme, res.Primary, res.Secondary)
	}
}

func (s *Session) finishLoad() {
	s.metaGen = 0
	d := s.c.Media.Duration()
	s.view.Duration = d
	s.view.Position = 0
	s.view.TimeTotal = FormatTime(d)
	s.view.TimeNow = FormatTime(0)
	s.view.SeekPct = 0
	s.setState(StateReady)

	if s.c.NowPlaying != nil {
		s.c.NowPlaying.Update(Playlist[s.index], s.index)
	}
	s.after(s.opts.AdjacentPreloadDelay, preloadDue{gen: s.gen})

	if s.autoplay && !s.hidden {
		s.play()
	}
}

func (s *Session) preloadAdjacent(gen uint64) {
	if gen != s.gen || s.c.Artwork == nil {
		return
	}
	ignore := func(bool) {}
	s.c.Artwork.Preload(Playlist[Wrap(s.index+1)].Cover, ignore)
	s.c.Artwork.Preload(Playlist[Wrap(s.index-1)].Cover, ignore)
}

func (s *Session) togglePlay() {
	switch s.state {
	case StateLoading, StateError, StateSeeking:
		return
	}
	if s.isPlaying() {
		s.pause()
	} else {
		s.play()
	}
}

// play resumes the output context if needed, then starts the media. A
// rejection leaves the player paused; it is not an error.
func (s *Session) play() {
	if s.state == StateEnded {
		stopTimer(&s.advance)
	}
	if out := s.c.Output; out != nil && out.Suspended() {
		if err := out.Resume(); err != nil {
			s.log.Debug("audio output did not resume", "error", err)
			s.syncPlayState()
			return
		}
	}
	if err := s.c.Media.Play(); err != nil {
		s.log.Debug("play rejected", "error", err)
	}
	s.syncPlayState()
}

func (s *Session) pause() {
	s.c.Media.Pause()
	s.syncPlayState()
}

// syncPlayState reconciles the state machine and render loops with the
// media element.
func (s *Session) syncPlayState() {
	playing := s.isPlaying()
	s.view.Playing = playing

	switch s.state {
	case StateStopped, StateReady, StatePaused, StateEnded:
		if playing {
			s.setState(StatePlaying)
		}
	case StatePlaying:
		if !playing {
			s.setState(StatePaused)
		}
	}
	s.refreshLabels()

	if playing && s.state == StatePlaying && !s.hidden {
		s.startViz()
		s.startProgress()
		return
	}
	s.stopViz()
	if !s.seeking {
		s.stopProgress()
	}
}

func (s *Session) onMedia(ev MediaEvent) {
	switch ev {
	case MediaPlay, MediaPause:
		s.syncPlayState()
	case MediaTimeUpdate:
		s.paintProgress(false)
	case MediaLoadedMetadata:
		if s.metaGen != 0 && s.metaGen == s.gen && s.state == StateLoading {
			s.finishLoad()
		}
		s.view.TimeTotal = FormatTime(s.c.Media.Duration())
		s.paintProgress(true)
	case MediaEnded:
		s.onTrackEnded()
	case MediaError:
		s.onMediaError()
	}
}

// staleMedia reports media events that belong to the previous track while a
// new one is still preloading its artwork.
func (s *Session) staleMedia() bool {
	return s.state == StateLoading && s.metaGen == 0
}

func (s *Session) onTrackEnded() {
	if s.staleMedia() || s.state == StateError {
		return
	}
	s.setState(StateEnded)
	s.stopViz()
	stopTimer(&s.advance)
	s.advance = s.after(s.opts.EndedDelay, advanceDue{gen: s.gen})
}

func (s *Session) onMediaError() {
	if s.staleMedia() {
		return
	}
	s.log.Warn("media error", "src", Playlist[s.index].Audio)
	s.metaGen = 0
	s.seeking = false
	stopTimer(&s.advance)
	s.setState(StateError)
	s.syncPlayState()
}

func (s *Session) setHidden(hidden bool) {
	s.hidden = hidden
	if hidden {
		// returning to the player must never resume on its own
		s.wasPlayingBeforeSeek = false
		s.autoplay = false
		stopTimer(&s.advance)
		if s.isPlaying() {
			s.c.Media.Pause()
		}
		s.stopViz()
		s.stopProgress()
		s.syncPlayState()
		return
	}
	s.paintProgress(true)
	s.syncPlayState()
}

func (s *Session) key(k Key) {
	if k.InTextField {
		return
	}
	switch k.Code {
	case "Space":
		s.togglePlay()
	case "ArrowLeft":
		s.loadTrack(s.index-1, s.isPlaying())
	case "ArrowRight":
		s.loadTrack(s.index+1, s.isPlaying())
	}
}

func (s *Session) pulse() {
	a := theme.Current(s.c.Theme, theme.Accent, theme.DefaultAccent)
	b := theme.Current(s.c.Theme, theme.Accent2, theme.DefaultAccent2)
	theme.Apply(s.c.Theme, theme.Gothify(a, 0.06, -0.02), theme.Gothify(b, 0.04, -0.02))

	s.pulseID++
	s.pulsing = true
	s.view.Footer = "Pulse"
	s.after(s.opts.PulseDuration, pulseDone{id: s.pulseID})
}
