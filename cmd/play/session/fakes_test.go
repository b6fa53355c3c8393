package session

import (
	"errors"
	"time"

	"github.com/gigurra/midnight/cmd/play/palette"
)

// fakeClock is a manual Scheduler: Post queues, Flush drains, Advance moves
// time and fires due timers in order.
type fakeClock struct {
	now    time.Time
	queue  []func()
	timers []*fakeTimer
	seq    int
}

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Post(fn func()) { c.queue = append(c.queue, fn) }

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.seq++
	t := &fakeTimer{at: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Flush() {
	for i := 0; len(c.queue) > 0; i++ {
		if i > 10000 {
			panic("fakeClock: runaway post loop")
		}
		fn := c.queue[0]
		c.queue = c.queue[1:]
		fn()
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now.Add(d)
	c.Flush()
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
		c.Flush()
	}
	c.now = target
	c.Flush()
}

func (c *fakeClock) nextDue(target time.Time) *fakeTimer {
	var best *fakeTimer
	kept := c.timers[:0]
	for _, t := range c.timers {
		if t.stopped || t.fired {
			continue
		}
		kept = append(kept, t)
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	c.timers = kept
	return best
}

var errAutoplay = errors.New("autoplay rejected")

type fakeMedia struct {
	handler func(MediaEvent)

	src    string
	paused bool
	ended  bool
	cur    time.Duration
	dur    time.Duration
	volume float64

	// duration reported on Load; zero leaves metadata pending until loadMeta
	loadDuration time.Duration
	playErr      error

	loads []string
	plays int
	calls []string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{paused: true, loadDuration: 3 * time.Minute}
}

func (m *fakeMedia) emit(ev MediaEvent) {
	if m.handler != nil {
		m.handler(ev)
	}
}

func (m *fakeMedia) OnEvent(h func(MediaEvent)) { m.handler = h }

func (m *fakeMedia) Load(src string) {
	m.src = src
	m.paused = true
	m.ended = false
	m.cur = 0
	m.dur = 0
	m.loads = append(m.loads, src)
	if m.loadDuration > 0 {
		m.loadMeta(m.loadDuration)
	}
}

func (m *fakeMedia) loadMeta(d time.Duration) {
	m.dur = d
	m.emit(MediaLoadedMetadata)
}

func (m *fakeMedia) Play() error {
	m.calls = append(m.calls, "play")
	if m.playErr != nil {
		return m.playErr
	}
	m.plays++
	if m.ended {
		m.cur = 0
	}
	m.paused = false
	m.ended = false
	m.emit(MediaPlay)
	return nil
}

func (m *fakeMedia) Pause() {
	if m.paused {
		return
	}
	m.paused = true
	m.emit(MediaPause)
}

func (m *fakeMedia) finish() {
	m.cur = m.dur
	m.Pause()
	m.ended = true
	m.emit(MediaEnded)
}

func (m *fakeMedia) fail() {
	m.paused = true
	m.emit(MediaError)
}

func (m *fakeMedia) Paused() bool                   { return m.paused }
func (m *fakeMedia) Ended() bool                    { return m.ended }
func (m *fakeMedia) CurrentTime() time.Duration     { return m.cur }
func (m *fakeMedia) SetCurrentTime(t time.Duration) { m.cur = t }
func (m *fakeMedia) Duration() time.Duration        { return m.dur }
func (m *fakeMedia) SetVolume(level float64)        { m.volume = level }

type fakeOutput struct {
	suspended bool
	resumeErr error
	media     *fakeMedia
}

func (o *fakeOutput) Suspended() bool { return o.suspended }

func (o *fakeOutput) Resume() error {
	if o.media != nil {
		o.media.calls = append(o.media.calls, "resume")
	}
	if o.resumeErr != nil {
		return o.resumeErr
	}
	o.suspended = false
	return nil
}

// fakeArtwork completes preloads immediately unless manual is set, in which
// case completions wait in pending.
type fakeArtwork struct {
	manual    bool
	requested []string
	pending   []func(bool)
}

func (a *fakeArtwork) Preload(src string, done func(bool)) {
	a.requested = append(a.requested, src)
	if a.manual {
		a.pending = append(a.pending, done)
		return
	}
	done(true)
}

type fakeExtractor struct {
	results map[string]palette.Result
	calls   []string
}

func (e *fakeExtractor) Extract(src string) (palette.Result, bool) {
	e.calls = append(e.calls, src)
	r, ok := e.results[src]
	return r, ok
}

type fakeNowPlaying struct {
	updates []int
}

func (n *fakeNowPlaying) Update(_ Track, index int) {
	n.updates = append(n.updates, index)
}

type fakeDisplay struct {
	renders int
	last    View
}

func (d *fakeDisplay) Render(v View) {
	d.renders++
	d.last = v
}

type fakeAnalyser struct {
	level uint8
}

func (a fakeAnalyser) BinCount() int { return 64 }

func (a fakeAnalyser) FrequencyData(dst []uint8) int {
	for i := range dst {
		dst[i] = a.level
	}
	return len(dst)
}
