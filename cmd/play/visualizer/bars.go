// Package visualizer computes bar heights for the music-reactive bar display.
package visualizer

import (
	"math"
	"time"
)

// Spectrum shaping: height = SpectrumBase + SpectrumExtra * v^SpectrumGamma.
const (
	SpectrumBase  = 10.0
	SpectrumExtra = 56.0
	SpectrumGamma = 0.88

	WaveBase  = 12.0
	WaveExtra = 50.0
)

// Analyser provides the most recent frequency magnitudes, one byte per bin.
type Analyser interface {
	FrequencyData(dst []uint8) int
	BinCount() int
}

// Bars holds the current height of every bar.
type Bars struct {
	heights []float64
	freq    []uint8
}

func NewBars(n int) *Bars {
	if n < 1 {
		n = 1
	}
	b := &Bars{heights: make([]float64, n)}
	b.Settle()
	return b
}

func (b *Bars) Len() int { return len(b.heights) }

// Heights returns a copy of the current heights.
func (b *Bars) Heights() []float64 {
	return append([]float64(nil), b.heights...)
}

// Settle resets bars to their idle staircase.
func (b *Bars) Settle() {
	for i := range b.heights {
		b.heights[i] = WaveBase + float64(i%5)
	}
}

// Spectrum maps frequency magnitudes onto bars with a perceptual curve. Bars
// beyond the available bins keep their height.
func (b *Bars) Spectrum(freq []uint8) {
	n := min(len(b.heights), len(freq))
	for i := 0; i < n; i++ {
		v := float64(freq[i]) / 255
		b.heights[i] = SpectrumBase + SpectrumExtra*math.Pow(v, SpectrumGamma)
	}
}

// Sample pulls one frame from a and applies it.
func (b *Bars) Sample(a Analyser) {
	if cap(b.freq) < a.BinCount() {
		b.freq = make([]uint8, a.BinCount())
	}
	b.freq = b.freq[:a.BinCount()]
	n := a.FrequencyData(b.freq)
	b.Spectrum(b.freq[:n])
}

// Wave paints the decorative fallback: a travelling sine with a little jitter.
// The result depends only on elapsed.
func (b *Bars) Wave(elapsed time.Duration) {
	t := float64(elapsed.Milliseconds()) * 0.002
	for i := range b.heights {
		wave := math.Sin(t+float64(i)*0.45)*0.5 + 0.5
		jitter := math.Sin(t*1.6+float64(i)) * 0.10
		b.heights[i] = WaveBase + (wave+jitter)*WaveExtra
	}
}
