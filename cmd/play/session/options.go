package session

import "time"

// Options tune one session. The presets mirror the two layouts the player
// ships with; everything else is wiring.
type Options struct {
	// ReducedMotion swaps the spectrum visualizer for the decorative wave.
	ReducedMotion bool
	// ReducedMotionPalette makes ReducedMotion also skip cover palette extraction.
	ReducedMotionPalette bool
	BarCount             int
	// IdleExtraction defers palette extraction by IdleDelay after the cover is
	// shown instead of running it while loading.
	IdleExtraction bool

	PaintInterval        time.Duration
	FrameInterval        time.Duration
	EndedDelay           time.Duration
	IdleDelay            time.Duration
	AdjacentPreloadDelay time.Duration
	CoverSwapDuration    time.Duration
	PulseDuration        time.Duration
}

func MobileOptions() Options {
	return Options{
		ReducedMotionPalette: true,
		BarCount:             26,
		IdleExtraction:       true,
		PaintInterval:        50 * time.Millisecond,
		FrameInterval:        16 * time.Millisecond,
		EndedDelay:           360 * time.Millisecond,
		IdleDelay:            300 * time.Millisecond,
		AdjacentPreloadDelay: 700 * time.Millisecond,
		CoverSwapDuration:    560 * time.Millisecond,
		PulseDuration:        520 * time.Millisecond,
	}
}

func DesktopOptions() Options {
	o := MobileOptions()
	o.ReducedMotionPalette = false
	o.BarCount = 32
	o.IdleExtraction = false
	o.PaintInterval = 33 * time.Millisecond
	o.EndedDelay = 350 * time.Millisecond
	return o
}

// Variant returns the preset by name, defaulting to mobile.
func Variant(name string) Options {
	if name == "desktop" {
		return DesktopOptions()
	}
	return MobileOptions()
}

func (o Options) withDefaults() Options {
	def := MobileOptions()
	if o.BarCount <= 0 {
		o.BarCount = def.BarCount
	}
	if o.PaintInterval <= 0 {
		o.PaintInterval = def.PaintInterval
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = def.FrameInterval
	}
	if o.EndedDelay <= 0 {
		o.EndedDelay = def.EndedDelay
	}
	if o.IdleDelay <= 0 {
		o.IdleDelay = def.IdleDelay
	}
	if o.AdjacentPreloadDelay <= 0 {
		o.AdjacentPreloadDelay = def.AdjacentPreloadDelay
	}
	if o.CoverSwapDuration <= 0 {
		o.CoverSwapDuration = def.CoverSwapDuration
	}
	if o.PulseDuration <= 0 {
		o.PulseDuration = def.PulseDuration
	}
	return o
}

// PaletteDisabled reports whether these options skip palette extraction.
func (o Options) PaletteDisabled() bool {
	return o.ReducedMotion && o.ReducedMotionPalette
}
