package media

import (
	"image"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/gigurra/midnight/cmd/play/palette"
	"github.com/nfnt/resize"
)

// DefaultThumbSize is the longest edge of a cached cover thumbnail in pixels.
const DefaultThumbSize = 24

// Artwork preloads covers and keeps small thumbnails of them for the
// terminal display. Each source is decoded at most once.
type Artwork struct {
	fsys fs.FS
	size uint
	log  *slog.Logger

	mu       sync.Mutex
	thumbs   map[string]image.Image // nil: failed to decode
	inflight map[string][]func(bool)
}

func NewArtwork(fsys fs.FS, size int, log *slog.Logger) *Artwork {
	if size <= 0 {
		size = DefaultThumbSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Artwork{
		fsys:     fsys,
		size:     uint(size),
		log:      log,
		thumbs:   map[string]image.Image{},
		inflight: map[string][]func(bool){},
	}
}

// Preload decodes src in the background and reports whether it succeeded.
// Cached results complete immediately.
func (a *Artwork) Preload(src string, done func(ok bool)) {
	a.mu.Lock()
	if img, ok := a.thumbs[src]; ok {
		a.mu.Unlock()
		done(img != nil)
		return
	}
	if waiters, ok := a.inflight[src]; ok {
		a.inflight[src] = append(waiters, done)
		a.mu.Unlock()
		return
	}
	a.inflight[src] = []func(bool){done}
	a.mu.Unlock()

	go a.decode(src)
}

func (a *Artwork) decode(src string) {
	var thumb image.Image
	img, err := palette.Load(a.fsys, src)
	if err != nil {
		a.log.Debug("cover preload failed", "src", src, "error", err)
	} else {
		thumb = resize.Thumbnail(a.size, a.size, img, resize.Bilinear)
	}

	a.mu.Lock()
	a.thumbs[src] = thumb
	waiters := a.inflight[src]
	delete(a.inflight, src)
	a.mu.Unlock()

	for _, done := range waiters {
		done(thumb != nil)
	}
}

// Thumbnail returns the cached thumbnail for src, if it decoded.
func (a *Artwork) Thumbnail(src string) (image.Image, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	img := a.thumbs[src]
	return img, img != nil
}
