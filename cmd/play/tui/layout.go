package tui

// Fixed vertical layout. Mouse hit testing and rendering both use it.
const (
	coverCols = 24
	coverRows = coverCols / 2
	vizRows   = 6

	defaultWidth = 80
	maxSeekWidth = 72
	minSeekWidth = 10
)

type layout struct {
	width     int
	seekY     int
	seekLeft  int
	seekWidth int
	vizY      int
	rowsY     int
}

func layoutFor(width int) layout {
	if width <= 0 {
		width = defaultWidth
	}
	l := layout{
		width:     width,
		seekLeft:  2,
		seekWidth: max(minSeekWidth, min(width-4, maxSeekWidth)),
	}

	y := 2 // header, blank
	y += coverRows
	y += 3 // title, artist, blank
	l.seekY = y
	y += 3 // seek bar, times, blank
	l.vizY = y
	y += vizRows + 1
	l.rowsY = y
	return l
}

// onSeekBar reports whether a cell lies on the seek track.
func (l layout) onSeekBar(x, y int) bool {
	return y == l.seekY && x >= l.seekLeft && x < l.seekLeft+l.seekWidth
}

// seekSpan is the seek track in pointer coordinates: the first cell maps to
// the start and the last cell to the end.
func (l layout) seekSpan() (left, width float64) {
	return float64(l.seekLeft), float64(l.seekWidth - 1)
}
