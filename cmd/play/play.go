// Package play implements the play command: the terminal music player.
package play

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/midnight/cmd/common"
	"github.com/gigurra/midnight/cmd/play/media"
	"github.com/gigurra/midnight/cmd/play/palette"
	"github.com/gigurra/midnight/cmd/play/session"
	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/gigurra/midnight/cmd/play/tui"
	"github.com/gigurra/midnight/cmd/play/visualizer"
	"github.com/spf13/cobra"
)

var ErrNoMediaDir = errors.New("media directory not found")

type Params struct {
	Dir           string  `short:"d" optional:"true" help:"Directory holding track1..4.mp3 and cover1..4.jpeg (env MIDNIGHT_DIR)." default:"."`
	Variant       string  `optional:"true" help:"Layout preset (env MIDNIGHT_VARIANT)." default:"mobile" alts:"mobile,desktop"`
	ReducedMotion bool    `optional:"true" help:"Draw a calm wave instead of the live spectrum (env MIDNIGHT_REDUCED_MOTION)."`
	Bars          int     `short:"b" optional:"true" help:"Visualizer bar count, 0 keeps the preset (env MIDNIGHT_BARS)." default:"0"`
	IdlePalette   bool    `optional:"true" help:"Extract cover colors after the cover is shown (env MIDNIGHT_IDLE_PALETTE)."`
	Volume        float64 `short:"v" optional:"true" help:"Initial volume between 0 and 1 (env MIDNIGHT_VOLUME)." default:"1"`
	LogFile       string  `optional:"true" help:"Log file (defaults to play.log in the cache dir)." default:""`
	Notify        bool    `short:"n" optional:"true" help:"Show a desktop notification on every track change."`
	PauseOnBlur   bool    `optional:"true" help:"Pause when the terminal loses focus."`
	EnvFile       string  `optional:"true" help:"Environment file to load before reading MIDNIGHT_* variables." default:".env"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Play the midnight playlist in the terminal",
		Long: `Play the four-track midnight playlist with a cover-tinted theme and a
music-reactive visualizer.

Flags given on the command line win over MIDNIGHT_* environment variables,
which in turn win over the preset chosen with --variant.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := common.LoadEnv(params.EnvFile); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
			cfg, err := resolve(params, cmd.Flags().Changed, common.OSEnv)
			if err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := Run(ctx, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// Config is the resolved play configuration.
type Config struct {
	Dir         string
	Options     session.Options
	Volume      float64
	LogFile     string
	Notify      bool
	PauseOnBlur bool
}

// resolve merges flags, environment and the variant preset. changed reports
// whether a flag was given explicitly.
func resolve(p *Params, changed func(name string) bool, env common.Env) (Config, error) {
	var err error
	cfg := Config{
		Dir:         p.Dir,
		Volume:      p.Volume,
		LogFile:     p.LogFile,
		Notify:      p.Notify,
		PauseOnBlur: p.PauseOnBlur,
	}

	variant := p.Variant
	if !changed("variant") {
		variant = env.String(common.EnvKey("VARIANT"), variant)
	}
	if variant != "mobile" && variant != "desktop" {
		return Config{}, fmt.Errorf("%s=%q: %w", common.EnvKey("VARIANT"), variant, common.ErrInvalidEnv)
	}
	cfg.Options = session.Variant(variant)

	if !changed("dir") {
		cfg.Dir = env.String(common.EnvKey("DIR"), cfg.Dir)
	}

	reduced := p.ReducedMotion
	if !changed("reduced-motion") {
		if reduced, err = env.Bool(common.EnvKey("REDUCED_MOTION"), reduced); err != nil {
			return Config{}, err
		}
	}
	cfg.Options.ReducedMotion = reduced

	bars := p.Bars
	if !changed("bars") {
		if bars, err = env.Int(common.EnvKey("BARS"), bars); err != nil {
			return Config{}, err
		}
	}
	if bars > 0 {
		cfg.Options.BarCount = bars
	}

	switch {
	case changed("idle-palette"):
		cfg.Options.IdleExtraction = p.IdlePalette
	default:
		if cfg.Options.IdleExtraction, err = env.Bool(common.EnvKey("IDLE_PALETTE"), cfg.Options.IdleExtraction); err != nil {
			return Config{}, err
		}
	}

	if !changed("volume") {
		if cfg.Volume, err = env.Float(common.EnvKey("VOLUME"), cfg.Volume); err != nil {
			return Config{}, err
		}
	}
	cfg.Volume = theme.Clamp01(cfg.Volume)

	if cfg.LogFile == "" {
		cfg.LogFile = common.LogFile("play")
	}
	return cfg, nil
}

// Run wires a session to the speaker, the cover store and the TUI, and
// blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if st, err := os.Stat(cfg.Dir); err != nil || !st.IsDir() {
		return fmt.Errorf("%s: %w", cfg.Dir, ErrNoMediaDir)
	}
	if !media.AudioAvailable {
		fmt.Fprintln(os.Stderr, "play: this build has no audio output; tracks will show as errors")
	}

	logger, closeLog := openLog(cfg.LogFile)
	defer closeLog()
	prev := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prev)

	fsys := os.DirFS(cfg.Dir)
	for _, t := range session.Playlist {
		if err := palette.Probe(fsys, t.Cover); err != nil {
			logger.Warn("cover will not render", "src", t.Cover, "error", err)
		}
	}
	analyser := visualizer.NewFFTAnalyser(visualizer.DefaultFFTSize, visualizer.DefaultSmoothing)
	player := media.NewPlayer(media.Config{FS: fsys, Sink: analyser, Logger: logger})
	defer player.Close()
	artwork := media.NewArtwork(fsys, 0, logger)
	vars := theme.NewVars()
	display := tui.NewDisplay()

	c := session.Collaborators{
		Media:     player,
		Output:    player,
		Artwork:   artwork,
		Extractor: palette.New(fsys, palette.Options{ReducedMotion: cfg.Options.PaletteDisabled, Logger: logger}),
		Display:   display,
		Theme:     vars,
	}
	if media.AudioAvailable {
		c.Analyser = analyser
	}
	if cfg.Notify {
		c.NowPlaying = media.NewNotifier(cfg.Dir, logger)
	}

	loop := session.NewLoop()
	c.Scheduler = loop
	s := session.New(c, cfg.Options)
	logger.Info("starting player", "session", s.ID(), "dir", cfg.Dir, "bars", cfg.Options.BarCount, "reduced_motion", cfg.Options.ReducedMotion)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	loop.Post(func() {
		s.Start()
		s.Dispatch(session.SetVolume{Level: cfg.Volume})
	})

	err := tui.Run(ctx, tui.Config{
		Display:     display,
		Post:        func(ev session.Event) { loop.Post(func() { s.Dispatch(ev) }) },
		Theme:       vars,
		Covers:      artwork,
		Volume:      cfg.Volume,
		PauseOnBlur: cfg.PauseOnBlur,
	})
	cancel()
	<-loopDone
	return err
}

// openLog sends logs to path. The TUI owns the terminal, so when the file
// cannot be opened logs are dropped.
func openLog(path string) (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if path == "" {
		return discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, func() {}
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { _ = f.Close() }
}
