package tui

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/midnight/cmd/play/session"
	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/mattn/go-runewidth"
)

var (
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// bar glyphs from empty to full, eighths of a cell
var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// maxBarHeight is the tallest bar height the visualizer produces.
const maxBarHeight = 70.0

// styles are derived from the theme variables on every frame.
type styles struct {
	accent  lipgloss.Style
	accent2 lipgloss.Style
	chip    lipgloss.Style
	active  lipgloss.Style
	a, b    theme.Color
}

func stylesFrom(sink theme.Sink) styles {
	a := theme.Current(sink, theme.Accent, theme.DefaultAccent)
	b := theme.Current(sink, theme.Accent2, theme.DefaultAccent2)
	bg := theme.Current(sink, theme.Background, theme.MustHex("#120914"))
	return styles{
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(a.Hex())),
		accent2: lipgloss.NewStyle().Foreground(lipgloss.Color(b.Hex())),
		chip:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color(a.Hex())).Padding(0, 1),
		active:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color(bg.Hex())),
		a:       a,
		b:       b,
	}
}

func (m Model) View() string {
	l := m.layout()
	st := stylesFrom(m.cfg.Theme)
	v := m.view
	textWidth := max(8, l.width-4)

	lines := make([]string, 0, l.rowsY+session.TrackCount+4)
	lines = append(lines,
		"  "+st.chip.Render(v.Chip)+" "+st.accent.Render(v.State)+"  "+dimStyle.Render(v.Mode)+
			dimStyle.Render(fmt.Sprintf("  vol %d%%", int(math.Round(m.volume*100)))),
		"",
	)
	lines = append(lines, m.coverLines(st)...)
	lines = append(lines,
		"  "+textStyle.Bold(true).Render(runewidth.Truncate(v.Title, textWidth, "…")),
		"  "+dimStyle.Render(runewidth.Truncate(v.Artist, textWidth, "…")),
		"",
		strings.Repeat(" ", l.seekLeft)+seekBar(st, v.SeekPct, l.seekWidth),
		"  "+st.accent2.Render(v.TimeNow)+dimStyle.Render(" / "+v.TimeTotal),
		"",
	)
	lines = append(lines, vizLines(st, v.Bars, l.width-2)...)
	lines = append(lines, "")
	for i, t := range session.Playlist {
		lines = append(lines, playlistRow(st, t, i, v, textWidth))
	}
	lines = append(lines,
		"",
		"  "+st.accent.Render(v.Footer),
		helpStyle.Render("  space play • ←/→ track • click/drag seek • ,/. ∓5s • +/- volume • p pulse • 1-4 select • q quit"),
	)
	return strings.Join(lines, "\n")
}

// coverLines draws the cover with half blocks, two pixels per cell. Without
// a decoded thumbnail it shows an accent gradient.
func (m Model) coverLines(st styles) []string {
	var img image.Image
	if m.cfg.Covers != nil && m.view.Cover != "" {
		img, _ = m.cfg.Covers.Thumbnail(m.view.Cover)
	}

	lines := make([]string, coverRows)
	for row := range lines {
		var b strings.Builder
		b.WriteString("  ")
		for col := 0; col < coverCols; col++ {
			top := coverPixel(img, st, col, row*2)
			bottom := coverPixel(img, st, col, row*2+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top.Hex())).
				Background(lipgloss.Color(bottom.Hex())).
				Faint(m.view.CoverSwap)
			b.WriteString(cell.Render("▀"))
		}
		lines[row] = b.String()
	}
	return lines
}

func coverPixel(img image.Image, st styles, x, y int) theme.Color {
	if img != nil {
		bounds := img.Bounds()
		px := bounds.Min.X + x*bounds.Dx()/coverCols
		py := bounds.Min.Y + y*bounds.Dy()/(coverRows*2)
		r, g, b, _ := img.At(px, py).RGBA()
		return theme.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
	t := float64(x+y) / float64(coverCols+coverRows*2-2)
	return mix(st.a, st.b, t)
}

func mix(a, b theme.Color, t float64) theme.Color {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return theme.Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

func seekBar(st styles, pct float64, width int) string {
	knob := int(math.Round(theme.Clamp01(pct) * float64(width-1)))
	return st.accent.Render(strings.Repeat("━", knob)) +
		st.accent2.Render("●") +
		dimStyle.Render(strings.Repeat("─", width-1-knob))
}

// vizLines draws bars bottom-up, one column per bar with a gap when the
// width allows.
func vizLines(st styles, bars []float64, width int) []string {
	step := 2
	if len(bars)*2 > width {
		step = 1
	}
	levels := make([]int, len(bars))
	for i, h := range bars {
		levels[i] = int(math.Round(theme.Clamp01(h/maxBarHeight) * vizRows * 8))
	}

	lines := make([]string, vizRows)
	for row := 0; row < vizRows; row++ {
		floor := (vizRows - 1 - row) * 8
		var b strings.Builder
		for _, lv := range levels {
			fill := min(max(lv-floor, 0), 8)
			b.WriteRune(barGlyphs[fill])
			if step == 2 {
				b.WriteByte(' ')
			}
		}
		style := st.accent
		if row < vizRows/2 {
			style = st.accent2
		}
		lines[row] = "  " + style.Render(b.String())
	}
	return lines
}

func playlistRow(st styles, t session.Track, i int, v session.View, width int) string {
	label := fmt.Sprintf("%02d  %s · %s", i+1, t.Title, t.Artist)
	label = runewidth.FillRight(runewidth.Truncate(label, max(4, width-10), "…"), max(4, width-10))
	pill := v.Pills[i]
	if i == v.Index {
		return "  " + st.active.Render(label) + " " + st.chip.Render(pill)
	}
	return "  " + textStyle.Render(label) + " " + dimStyle.Render(pill)
}
