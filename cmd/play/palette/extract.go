// Package palette derives two accent colors from cover artwork.
//
// The image is downsampled to a small fixed raster, qualifying pixels are
// quantized to 16 levels per channel and counted, and the two most frequent
// buckets with clearly different hues become the accents. Both accents get a
// fixed darkening/saturating tone shift before they are returned.
package palette

import (
	"errors"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"sort"
	"sync"

	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/nfnt/resize"
)

var ErrNoPixels = errors.New("no qualifying pixels")

// Tuning for pixel filtering and accent selection.
const (
	DefaultSize = 80

	MinAlpha        = 200
	MinLuminance    = 18
	MaxLuminance    = 235
	MinHueDistance  = 0.08
	SynthHueRotate  = 0.12
	SynthSatBoost   = 0.12
	SynthLightShift = -0.06
)

// Result holds the two tone-adjusted accents for one image.
type Result struct {
	Primary   theme.Color
	Secondary theme.Color
}

// Bucket is one quantized color and how many pixels fell into it.
type Bucket struct {
	Color theme.Color
	Count int
}

// Options configure an Extractor.
type Options struct {
	// Size is the edge length of the downsampled raster. Zero means DefaultSize.
	Size int
	// ReducedMotion, when it reports true, makes Extract skip all raster work
	// and cache an absent result.
	ReducedMotion func() bool
	Logger        *slog.Logger
}

// Extractor extracts and caches palettes per image source for its lifetime.
// Failed extractions are cached too and never retried.
type Extractor struct {
	fsys fs.FS
	opts Options

	mu    sync.Mutex
	cache map[string]*Result // nil value marks a failed or skipped source
}

// New returns an Extractor reading covers from fsys.
func New(fsys fs.FS, opts Options) *Extractor {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Extractor{
		fsys:  fsys,
		opts:  opts,
		cache: make(map[string]*Result),
	}
}

// Extract returns the palette for src, or false when extraction failed, was
// skipped, or previously failed.
func (e *Extractor) Extract(src string) (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res, seen := e.cache[src]; seen {
		if res == nil {
			return Result{}, false
		}
		return *res, true
	}

	if e.opts.ReducedMotion != nil && e.opts.ReducedMotion() {
		e.cache[src] = nil
		return Result{}, false
	}

	img, err := Load(e.fsys, src)
	if err != nil {
		e.opts.Logger.Debug("palette: cannot load cover", "src", src, "error", err)
		e.cache[src] = nil
		return Result{}, false
	}

	res, err := FromImage(img, e.opts.Size)
	if err != nil {
		e.opts.Logger.Debug("palette: no palette", "src", src, "error", err)
		e.cache[src] = nil
		return Result{}, false
	}

	e.cache[src] = &res
	return res, true
}

// FromImage runs downsampling, histogram and accent selection on img.
func FromImage(img image.Image, size int) (Result, error) {
	if size <= 0 {
		size = DefaultSize
	}
	small := resize.Resize(uint(size), uint(size), img, resize.Bilinear)

	buckets := Histogram(small)
	if len(buckets) == 0 {
		return Result{}, ErrNoPixels
	}

	primary, secondary, _ := SelectAccents(buckets)
	return Result{
		Primary:   theme.Gothify(primary, theme.PrimarySatBoost, theme.PrimaryLightShift),
		Secondary: theme.Gothify(secondary, theme.SecondarySatBoost, theme.SecondaryLightShift),
	}, nil
}

// Histogram counts qualifying pixels of img by quantized color, most frequent
// first. Buckets with equal counts keep the order in which they were first
// seen.
func Histogram(img image.Image) []Bucket {
	index := make(map[theme.Color]int)
	var buckets []Bucket

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.A < MinAlpha {
				continue
			}
			raw := theme.Color{R: px.R, G: px.G, B: px.B}
			if lum := raw.Luminance(); lum < MinLuminance || lum > MaxLuminance {
				continue
			}

			q := theme.Color{R: px.R &^ 0x0f, G: px.G &^ 0x0f, B: px.B &^ 0x0f}
			if i, ok := index[q]; ok {
				buckets[i].Count++
				continue
			}
			index[q] = len(buckets)
			buckets = append(buckets, Bucket{Color: q, Count: 1})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

// SelectAccents picks the most frequent bucket as primary and the next most
// frequent one with a clearly different hue as secondary. When no bucket
// differs enough the secondary is synthesized from the primary and
// synthesized is true. buckets must not be empty.
func SelectAccents(buckets []Bucket) (primary, secondary theme.Color, synthesized bool) {
	primary = buckets[0].Color
	ph := primary.HSL().H

	for _, b := range buckets[1:] {
		if theme.HueDistance(ph, b.Color.HSL().H) > MinHueDistance {
			return primary, b.Color, false
		}
	}

	return primary, Synthesize(primary), true
}

// Synthesize derives a companion color by rotating the hue and shifting tone.
func Synthesize(c theme.Color) theme.Color {
	return c.HSL().Rotate(SynthHueRotate).Shift(SynthSatBoost, SynthLightShift).RGB()
}
