package session

import (
	"time"

	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/samber/lo"
)

// seekBegin starts a drag. Only one drag can be active; playback pauses for
// stable scrubbing and resumes on seekEnd if it was running.
func (s *Session) seekBegin(x float64) {
	if s.seeking || s.state == StateLoading || s.state == StateError {
		return
	}
	stopTimer(&s.advance)

	s.wasPlayingBeforeSeek = s.isPlaying()
	s.preSeek = s.state
	s.seeking = true
	s.setState(StateSeeking)

	s.c.Media.Pause()
	s.seekToPct(s.pointerPct(x))
	s.syncPlayState()
}

func (s *Session) seekUpdate(x float64) {
	if !s.seeking {
		return
	}
	s.seekToPct(s.pointerPct(x))
}

func (s *Session) seekEnd() {
	if !s.seeking {
		return
	}
	s.seeking = false

	switch s.preSeek {
	case StateReady, StateStopped:
		s.setState(s.preSeek)
	default:
		s.setState(StatePaused)
	}

	if s.wasPlayingBeforeSeek {
		s.play()
		return
	}
	s.syncPlayState()
}

// seekTo jumps to an absolute position. Ignored while a drag owns the
// position.
func (s *Session) seekTo(pos time.Duration) {
	d := s.c.Media.Duration()
	if s.seeking || d <= 0 {
		return
	}
	s.c.Media.SetCurrentTime(lo.Clamp(pos, 0, d))
	s.paintProgress(true)
}

func (s *Session) pointerPct(x float64) float64 {
	if s.trackWidth <= 0 {
		return 0
	}
	return theme.Clamp01((x - s.trackLeft) / s.trackWidth)
}

func (s *Session) seekToPct(pct float64) {
	d := s.c.Media.Duration()
	if d <= 0 {
		return
	}
	pos := time.Duration(pct * float64(d))
	s.c.Media.SetCurrentTime(pos)
	s.view.SeekPct = pct
	s.view.Position = pos
	s.view.TimeNow = FormatTime(pos)
}

// paintProgress refreshes the seek bar and clock from the media element, at
// most once per PaintInterval unless forced. A drag in progress owns the seek
// bar, so nothing is painted while seeking.
func (s *Session) paintProgress(force bool) {
	if s.seeking {
		return
	}
	now := s.c.Scheduler.Now()
	if !force && now.Sub(s.lastPaint) < s.opts.PaintInterval {
		return
	}
	s.lastPaint = now

	d := s.c.Media.Duration()
	if d <= 0 {
		s.view.SeekPct = 0
		s.view.Position = 0
		s.view.TimeNow = FormatTime(0)
		return
	}
	pos := s.c.Media.CurrentTime()
	s.view.SeekPct = theme.Clamp01(float64(pos) / float64(d))
	s.view.Position = pos
	s.view.Duration = d
	s.view.TimeNow = FormatTime(pos)
	s.view.TimeTotal = FormatTime(d)
}
