package tui

import (
	"context"
	"errors"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gigurra/midnight/cmd/play/session"
	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/samber/lo"
)

const (
	volumeStep = 0.1
	seekStep   = 5 * time.Second
)

// Covers looks up decoded cover thumbnails.
type Covers interface {
	Thumbnail(src string) (image.Image, bool)
}

type Config struct {
	Display *Display
	// Post delivers an event to the session loop. It must not block.
	Post   func(session.Event)
	Theme  theme.Sink
	Covers Covers
	Volume float64
	// PauseOnBlur treats losing terminal focus as the player going out of view.
	PauseOnBlur bool
}

// Model is the bubbletea model of the player screen.
type Model struct {
	cfg      Config
	view     session.View
	width    int
	height   int
	volume   float64
	dragging bool
}

func New(cfg Config) Model {
	if cfg.Theme == nil {
		cfg.Theme = theme.NewVars()
	}
	if cfg.Post == nil {
		cfg.Post = func(session.Event) {}
	}
	return Model{
		cfg:    cfg,
		view:   cfg.Display.Latest(),
		volume: theme.Clamp01(cfg.Volume),
	}
}

func (m Model) Init() tea.Cmd {
	return m.cfg.Display.wait()
}

func (m Model) layout() layout {
	return layoutFor(m.width)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = msg.view
		return m, m.cfg.Display.wait()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		left, width := m.layout().seekSpan()
		m.cfg.Post(session.Resize{Left: left, Width: width})

	case tea.FocusMsg:
		if m.cfg.PauseOnBlur {
			m.cfg.Post(session.Visibility{Hidden: false})
		}

	case tea.BlurMsg:
		if m.cfg.PauseOnBlur {
			m.cfg.Post(session.Visibility{Hidden: true})
		}

	case tea.MouseMsg:
		m = m.mouse(msg)

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "space":
		m.cfg.Post(session.Key{Code: "Space"})
	case "left", "h":
		m.cfg.Post(session.Key{Code: "ArrowLeft"})
	case "right", "l":
		m.cfg.Post(session.Key{Code: "ArrowRight"})
	case "p":
		m.cfg.Post(session.Pulse{})
	case "+", "=", "up":
		m = m.setVolume(m.volume + volumeStep)
	case "-", "down":
		m = m.setVolume(m.volume - volumeStep)
	case ",":
		m.cfg.Post(session.SeekTo{Position: m.view.Position - seekStep})
	case ".":
		m.cfg.Post(session.SeekTo{Position: m.view.Position + seekStep})
	case "1", "2", "3", "4":
		m.cfg.Post(session.SelectTrack{Index: int(k[0] - '1')})
	}
	return m, nil
}

func (m Model) setVolume(level float64) Model {
	// snap to the 0.1 grid
	m.volume = lo.Clamp(float64(int(level*10+0.5))/10, 0, 1)
	m.cfg.Post(session.SetVolume{Level: m.volume})
	return m
}

func (m Model) mouse(msg tea.MouseMsg) Model {
	l := m.layout()
	x := float64(msg.X)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if l.onSeekBar(msg.X, msg.Y) {
			m.dragging = true
			m.cfg.Post(session.SeekBegin{X: x})
			return m
		}
		if row := msg.Y - l.rowsY; row >= 0 && row < session.TrackCount {
			m.cfg.Post(session.SelectTrack{Index: row})
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.cfg.Post(session.SeekUpdate{X: x})
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.cfg.Post(session.SeekUpdate{X: x})
			m.cfg.Post(session.SeekEnd{})
		}
	}
	return m
}

// Run shows the player until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}, opts...)
	if cfg.PauseOnBlur {
		opts = append(opts, tea.WithReportFocus())
	}
	_, err := tea.NewProgram(New(cfg), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
