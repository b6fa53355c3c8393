package theme

import (
	"maps"
	"sync"
)

// Theme variable keys.
const (
	Accent     = "accent"
	Accent2    = "accent2"
	Background = "bg1"
)

// Default accents used before any cover has been analysed.
var (
	DefaultAccent  = MustHex("#c51b55")
	DefaultAccent2 = MustHex("#7a3cff")
)

// Sink receives theme variables. Get lets callers read back the current value.
type Sink interface {
	Set(key, value string)
	Get(key string) string
}

// Vars is an in-memory Sink safe for one writer and concurrent readers.
type Vars struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewVars returns an empty variable store.
func NewVars() *Vars {
	return &Vars{vars: make(map[string]string)}
}

func (v *Vars) Set(key, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vars[key] = value
}

func (v *Vars) Get(key string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.vars[key]
}

// Snapshot returns a copy of all variables.
func (v *Vars) Snapshot() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.vars)
}

// Apply writes both accents and derives a matching dark background from the
// primary accent hue.
func Apply(sink Sink, accent, accent2 Color) {
	sink.Set(Accent, accent.Hex())
	sink.Set(Accent2, accent2.Hex())

	h := accent.HSL()
	sink.Set(Background, HSL{H: h.H, S: Clamp01(h.S * 0.55), L: 0.10}.RGB().Hex())
}

// Current reads a color variable, falling back to def when missing or malformed.
func Current(sink Sink, key string, def Color) Color {
	c, err := ParseHex(sink.Get(key))
	if err != nil {
		return def
	}
	return c
}
