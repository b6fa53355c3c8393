package session

import "time"

// Render loops run on FrameInterval timers. Each start bumps the loop id so a
// frame scheduled before a stop never runs after a restart.

func (s *Session) startLoop(k loopKind) bool {
	l := &s.loops[k]
	if l.running {
		return false
	}
	l.running = true
	l.id++
	return true
}

func (s *Session) stopLoop(k loopKind) {
	l := &s.loops[k]
	l.running = false
	l.id++
	stopTimer(&l.timer)
}

func (s *Session) scheduleFrame(k loopKind) {
	l := &s.loops[k]
	l.timer = s.after(s.opts.FrameInterval, frameDue{loop: k, id: l.id})
}

func (s *Session) onFrame(ev frameDue) {
	l := &s.loops[ev.loop]
	if !l.running || ev.id != l.id {
		return
	}
	l.timer = nil

	switch ev.loop {
	case progressLoop:
		s.paintProgress(false)
	case vizLoop:
		s.tickViz()
	}
	s.scheduleFrame(ev.loop)
}

func (s *Session) startProgress() {
	if !s.startLoop(progressLoop) {
		return
	}
	s.lastPaint = time.Time{}
	s.paintProgress(false)
	s.scheduleFrame(progressLoop)
}

func (s *Session) stopProgress() {
	s.stopLoop(progressLoop)
}

func (s *Session) startViz() {
	if !s.startLoop(vizLoop) {
		return
	}
	s.vizStart = s.c.Scheduler.Now()
	s.tickViz()
	s.scheduleFrame(vizLoop)
}

// stopViz halts the visualizer and settles the bars.
func (s *Session) stopViz() {
	s.stopLoop(vizLoop)
	s.bars.Settle()
	s.view.Bars = s.bars.Heights()
}

// tickViz draws one visualizer frame: the live spectrum when an analyser is
// available and motion is allowed, the decorative wave otherwise.
func (s *Session) tickViz() {
	if s.c.Analyser != nil && !s.opts.ReducedMotion {
		s.bars.Sample(s.c.Analyser)
	} else {
		s.bars.Wave(s.c.Scheduler.Now().Sub(s.vizStart))
	}
	s.view.Bars = s.bars.Heights()
}
