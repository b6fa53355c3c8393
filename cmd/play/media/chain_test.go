package media

import (
	"math"
	"testing"

	"github.com/gopxl/beep/v2"
)

type recordSink struct {
	blocks int
	last   [][2]float64
}

func (r *recordSink) Write(samples [][2]float64) {
	r.blocks++
	r.last = append(r.last[:0], samples...)
}

func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

func TestGain(t *testing.T) {
	tests := []struct {
		level      float64
		wantVolume float64
		wantSilent bool
	}{
		{1, 0, false},
		{0.5, -1, false},
		{0.25, -2, false},
		{0, 0, true},
		{-1, 0, true},
		{2, 0, false},
	}
	for _, tt := range tests {
		vol, silent := gain(tt.level)
		if math.Abs(vol-tt.wantVolume) > 1e-9 || silent != tt.wantSilent {
			t.Errorf("gain(%v) = %v, %v; want %v, %v", tt.level, vol, silent, tt.wantVolume, tt.wantSilent)
		}
	}
}

func TestChainStartsPaused(t *testing.T) {
	sink := &recordSink{}
	ctrl, _ := buildChain(constant(0.5), 44100, 44100, sink, 1)

	buf := make([][2]float64, 64)
	n, ok := ctrl.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	if buf[0] != [2]float64{} {
		t.Errorf("paused chain produced %v", buf[0])
	}
	if sink.blocks != 0 {
		t.Errorf("sink saw samples while paused")
	}
}

func TestChainTapsBeforeVolume(t *testing.T) {
	sink := &recordSink{}
	ctrl, vol := buildChain(constant(0.5), 44100, 44100, sink, 0.5)
	ctrl.Paused = false

	buf := make([][2]float64, 32)
	ctrl.Stream(buf)
	if sink.blocks != 1 || len(sink.last) != 32 {
		t.Fatalf("sink blocks=%d len=%d", sink.blocks, len(sink.last))
	}
	if sink.last[0][0] != 0.5 {
		t.Errorf("tapped sample = %v, want pre-volume 0.5", sink.last[0][0])
	}
	if math.Abs(buf[0][0]-0.25) > 1e-9 {
		t.Errorf("output sample = %v, want 0.25", buf[0][0])
	}

	vol.Silent = true
	ctrl.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("silent output = %v", buf[0][0])
	}
}

func TestChainWithoutSink(t *testing.T) {
	ctrl, _ := buildChain(constant(0.5), 22050, 44100, nil, 1)
	ctrl.Paused = false

	buf := make([][2]float64, 16)
	if n, ok := ctrl.Stream(buf); n != len(buf) || !ok {
		t.Errorf("Stream = %d, %v", n, ok)
	}
}
