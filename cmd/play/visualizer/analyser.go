package visualizer

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Analyser defaults, matching what browsers use for an AnalyserNode.
const (
	DefaultFFTSize   = 256
	DefaultSmoothing = 0.84
	MinDecibels      = -100.0
	MaxDecibels      = -30.0
)

// FFTAnalyser turns a stream of stereo samples into smoothed byte magnitudes.
// Write is called from the audio goroutine, FrequencyData from the render
// loop.
type FFTAnalyser struct {
	mu        sync.Mutex
	size      int
	smoothing float64
	ring      []float64
	pos       int
	win       []float64
	smoothed  []float64
	scratch   []float64
}

func NewFFTAnalyser(size int, smoothing float64) *FFTAnalyser {
	if size < 32 || size&(size-1) != 0 {
		size = DefaultFFTSize
	}
	smoothing = math.Max(0, math.Min(1, smoothing))
	return &FFTAnalyser{
		size:      size,
		smoothing: smoothing,
		ring:      make([]float64, size),
		win:       window.Blackman(size),
		smoothed:  make([]float64, size/2),
		scratch:   make([]float64, size),
	}
}

func (a *FFTAnalyser) BinCount() int { return a.size / 2 }

// Write appends stereo samples, mixed down to mono.
func (a *FFTAnalyser) Write(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.pos] = (s[0] + s[1]) / 2
		a.pos = (a.pos + 1) % a.size
	}
}

// FrequencyData fills dst with magnitudes scaled from [MinDecibels,MaxDecibels]
// onto 0..255 and returns the number of bins written.
func (a *FFTAnalyser) FrequencyData(dst []uint8) int {
	a.mu.Lock()
	for i := range a.scratch {
		a.scratch[i] = a.ring[(a.pos+i)%a.size] * a.win[i]
	}
	a.mu.Unlock()

	coeffs := fft.FFTReal(a.scratch)

	n := min(len(dst), len(a.smoothed))
	for i := 0; i < len(a.smoothed); i++ {
		mag := cmplx.Abs(coeffs[i]) / float64(a.size)
		a.smoothed[i] = a.smoothing*a.smoothed[i] + (1-a.smoothing)*mag
	}
	for i := 0; i < n; i++ {
		dst[i] = toByte(a.smoothed[i])
	}
	return n
}

func toByte(mag float64) uint8 {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := (db - MinDecibels) / (MaxDecibels - MinDecibels) * 255
	return uint8(math.Max(0, math.Min(255, v)))
}
