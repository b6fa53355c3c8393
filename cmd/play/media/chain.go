package media

import (
	"bytes"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// buildChain wires decoded audio to the speaker: resample, tap for the
// analyser, volume, then a pausable control. The control starts paused.
func buildChain(s beep.Streamer, from, to beep.SampleRate, sink SampleSink, level float64) (*beep.Ctrl, *effects.Volume) {
	out := s
	if from != to {
		out = beep.Resample(4, from, to, out)
	}
	if sink != nil {
		out = tap{Streamer: out, sink: sink}
	}
	vol, silent := gain(level)
	v := &effects.Volume{Streamer: out, Base: 2, Volume: vol, Silent: silent}
	return &beep.Ctrl{Streamer: v, Paused: true}, v
}

// tap copies every streamed block to a sink.
type tap struct {
	beep.Streamer
	sink SampleSink
}

func (t tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)
	if n > 0 {
		t.sink.Write(samples[:n])
	}
	return n, ok
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
