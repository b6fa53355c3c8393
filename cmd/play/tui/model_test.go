package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/midnight/cmd/play/session"
)

type recorder struct {
	events []session.Event
}

func (r *recorder) post(ev session.Event) { r.events = append(r.events, ev) }

func newModel(t *testing.T) (Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := New(Config{Display: NewDisplay(), Post: rec.post, Volume: 0.5})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	rec.events = nil
	return next.(Model), rec
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysMapToEvents(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want session.Event
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, session.Key{Code: "Space"}},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, session.Key{Code: "ArrowLeft"}},
		{"right", tea.KeyMsg{Type: tea.KeyRight}, session.Key{Code: "ArrowRight"}},
		{"pulse", runes("p"), session.Pulse{}},
		{"select", runes("3"), session.SelectTrack{Index: 2}},
		{"volume up", runes("+"), session.SetVolume{Level: 0.6}},
		{"volume down", runes("-"), session.SetVolume{Level: 0.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newModel(t)
			m.Update(tt.msg)
			if len(rec.events) != 1 || rec.events[0] != tt.want {
				t.Errorf("events = %#v, want %#v", rec.events, tt.want)
			}
		})
	}
}

func TestQuitKey(t *testing.T) {
	m, rec := newModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q did not quit")
	}
	if len(rec.events) != 0 {
		t.Errorf("quit posted %v", rec.events)
	}
}

func TestVolumeClamps(t *testing.T) {
	m, rec := newModel(t)
	for i := 0; i < 8; i++ {
		next, _ := m.Update(runes("+"))
		m = next.(Model)
	}
	last := rec.events[len(rec.events)-1].(session.SetVolume)
	if last.Level != 1 {
		t.Errorf("volume = %v, want 1", last.Level)
	}
}

func TestSeekStepKeys(t *testing.T) {
	m, rec := newModel(t)
	next, _ := m.Update(viewMsg{view: session.View{Position: 30 * time.Second}})
	m = next.(Model)

	m.Update(runes("."))
	m.Update(runes(","))
	want := []session.Event{
		session.SeekTo{Position: 35 * time.Second},
		session.SeekTo{Position: 25 * time.Second},
	}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestWindowSizeReportsSeekGeometry(t *testing.T) {
	rec := &recorder{}
	m := New(Config{Display: NewDisplay(), Post: rec.post})
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 40})

	want := session.Resize{Left: 2, Width: 45}
	if len(rec.events) != 1 || rec.events[0] != want {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestMouseDragSeeks(t *testing.T) {
	m, rec := newModel(t)
	l := m.layout()

	press := tea.MouseMsg{X: 10, Y: l.seekY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	move := tea.MouseMsg{X: 30, Y: l.seekY + 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	release := tea.MouseMsg{X: 40, Y: 0, Action: tea.MouseActionRelease}

	for _, msg := range []tea.MouseMsg{press, move, release} {
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	want := []session.Event{
		session.SeekBegin{X: 10},
		session.SeekUpdate{X: 30},
		session.SeekUpdate{X: 40},
		session.SeekEnd{},
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, rec.events[i], want[i])
		}
	}

	rec.events = nil
	m.Update(move)
	if len(rec.events) != 0 {
		t.Errorf("motion after release posted %v", rec.events)
	}
}

func TestMouseOutsideSeekBar(t *testing.T) {
	m, rec := newModel(t)
	l := m.layout()

	m.Update(tea.MouseMsg{X: 10, Y: l.seekY - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 10, Y: l.seekY, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m.Update(tea.MouseMsg{X: 10, Y: l.seekY, Action: tea.MouseActionMotion})
	if len(rec.events) != 0 {
		t.Errorf("events = %v", rec.events)
	}

	m.Update(tea.MouseMsg{X: 5, Y: l.rowsY + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(rec.events) != 1 || rec.events[0] != (session.SelectTrack{Index: 1}) {
		t.Errorf("row click events = %v", rec.events)
	}
}

func TestFocusOnlyWhenEnabled(t *testing.T) {
	m, rec := newModel(t)
	m.Update(tea.BlurMsg{})
	if len(rec.events) != 0 {
		t.Errorf("blur posted %v without PauseOnBlur", rec.events)
	}

	m.cfg.PauseOnBlur = true
	m.Update(tea.BlurMsg{})
	m.Update(tea.FocusMsg{})
	want := []session.Event{session.Visibility{Hidden: true}, session.Visibility{Hidden: false}}
	if len(rec.events) != 2 || rec.events[0] != want[0] || rec.events[1] != want[1] {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestViewLayout(t *testing.T) {
	m, _ := newModel(t)
	v := session.View{
		Index:     1,
		Title:     "Campo de Fuerza",
		Artist:    "Zoé",
		Chip:      "02/04",
		State:     "PLAYING",
		Mode:      "HI-FI",
		Footer:    "Live",
		SeekPct:   0.5,
		TimeNow:   "1:30",
		TimeTotal: "3:00",
		Pills:     [session.TrackCount]string{"PLAY", "LIVE", "PLAY", "PLAY"},
		Bars:      make([]float64, 32),
	}
	next, _ := m.Update(viewMsg{view: v})
	m = next.(Model)

	lines := strings.Split(m.View(), "\n")
	l := m.layout()
	if len(lines) < l.rowsY+session.TrackCount+2 {
		t.Fatalf("rendered %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "02/04") || !strings.Contains(lines[0], "PLAYING") || !strings.Contains(lines[0], "vol 50%") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[l.seekY], "●") {
		t.Errorf("seek bar not at row %d: %q", l.seekY, lines[l.seekY])
	}
	if !strings.Contains(lines[l.seekY+1], "1:30") {
		t.Errorf("times = %q", lines[l.seekY+1])
	}
	for i, tr := range session.Playlist {
		if !strings.Contains(lines[l.rowsY+i], tr.Title) {
			t.Errorf("row %d = %q, want %q", i, lines[l.rowsY+i], tr.Title)
		}
	}
	if !strings.Contains(lines[l.rowsY+1], "LIVE") {
		t.Errorf("active row pill missing: %q", lines[l.rowsY+1])
	}
}

func TestTitleTruncated(t *testing.T) {
	rec := &recorder{}
	m := New(Config{Display: NewDisplay(), Post: rec.post})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	m = next.(Model)
	next, _ = m.Update(viewMsg{view: session.View{Title: strings.Repeat("Francés Limón ", 5)}})
	m = next.(Model)

	lines := strings.Split(m.View(), "\n")
	title := lines[2+coverRows]
	if !strings.Contains(title, "…") {
		t.Errorf("long title not truncated: %q", title)
	}
}

func TestSeekBarKnob(t *testing.T) {
	st := stylesFrom(New(Config{Display: NewDisplay()}).cfg.Theme)
	tests := []struct {
		pct    float64
		before int
	}{
		{0, 0},
		{1, 9},
		{0.5, 5},
		{2, 9},
	}
	for _, tt := range tests {
		bar := seekBar(st, tt.pct, 10)
		idx := strings.Index(bar, "●")
		if got := strings.Count(bar[:idx], "━"); got != tt.before {
			t.Errorf("seekBar(%v) filled = %d, want %d", tt.pct, got, tt.before)
		}
	}
}

func TestVizLines(t *testing.T) {
	st := stylesFrom(New(Config{Display: NewDisplay()}).cfg.Theme)
	lines := vizLines(st, []float64{0, maxBarHeight}, 80)
	if len(lines) != vizRows {
		t.Fatalf("rows = %d", len(lines))
	}
	for i, line := range lines {
		if !strings.Contains(line, "█") {
			t.Errorf("row %d has no full cell for the tall bar: %q", i, line)
		}
	}
}
