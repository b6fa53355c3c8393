package session

import (
	"fmt"
	"time"
)

// Track is one playlist entry. Sources are paths relative to the media root.
type Track struct {
	Title  string
	Artist string
	Audio  string
	Cover  string
}

// Playlist is the fixed track list every session plays.
var Playlist = [...]Track{
	{Title: "Me Haces Feliz", Artist: "Serbia", Audio: "track1.mp3", Cover: "cover1.jpeg"},
	{Title: "Campo de Fuerza", Artist: "Zoé", Audio: "track2.mp3", Cover: "cover2.jpeg"},
	{Title: "No Te Des Por Vencida", Artist: "Serbia", Audio: "track3.mp3", Cover: "cover3.jpeg"},
	{Title: "Francés Limón", Artist: "Enanitos Verdes", Audio: "track4.mp3", Cover: "cover4.jpeg"},
}

// TrackCount is the playlist length.
const TrackCount = len(Playlist)

// Wrap maps any index onto the playlist, wrapping in both directions.
func Wrap(index int) int {
	return ((index % TrackCount) + TrackCount) % TrackCount
}

// FormatTime renders d as m:ss. Negative values render as 0:00.
func FormatTime(d time.Duration) string {
	if d < 0 {
		return "0:00"
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func chipIndex(i int) string {
	return fmt.Sprintf("%02d/%02d", i+1, TrackCount)
}
