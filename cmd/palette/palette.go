// Package palette implements the palette command, which prints the accent
// colors the player would derive from cover images.
package palette

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/gigurra/midnight/cmd/common"
	extract "github.com/gigurra/midnight/cmd/play/palette"
	"github.com/gigurra/midnight/cmd/play/theme"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var clipboardWriteAll = clipboard.WriteAll

var ErrNoImages = errors.New("no images given")

type Params struct {
	Images []string `pos:"true" optional:"true" help:"Image files, or audio files with embedded artwork."`
	Size   int      `short:"s" optional:"true" help:"Edge length of the downsampled raster in pixels." default:"80"`
	Copy   bool     `short:"c" optional:"true" help:"Copy the first image's accents to the clipboard."`
	Watch  bool     `short:"w" optional:"true" help:"Re-extract whenever one of the files changes."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "palette <image>...",
		Short: "Print the accent colors extracted from cover images",
		Long: `Print the primary and secondary accents the player derives from each image,
plus the harmonized background. Audio files resolve to their embedded cover.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := Run(ctx, params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "palette: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

// row is the outcome for one file.
type row struct {
	path   string
	result extract.Result
	bg     theme.Color
	err    error
}

func Run(ctx context.Context, params *Params, out io.Writer) error {
	if len(params.Images) == 0 {
		return ErrNoImages
	}

	rows := lo.Map(params.Images, func(path string, _ int) row {
		return extractFile(path, params.Size)
	})
	render(out, rows, isTerminal(out))

	if params.Copy {
		first := rows[0]
		if first.err != nil {
			return fmt.Errorf("nothing to copy: %w", first.err)
		}
		text := first.result.Primary.Hex() + " " + first.result.Secondary.Hex()
		if err := clipboardWriteAll(text); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	}

	if params.Watch {
		return watch(ctx, params.Images, params.Size, out, nil)
	}
	return nil
}

func extractFile(path string, size int) row {
	r := row{path: path}
	fsys := os.DirFS(filepath.Dir(path))

	img, err := extract.Load(fsys, filepath.Base(path))
	if err != nil {
		r.err = err
		return r
	}
	r.result, r.err = extract.FromImage(img, size)
	if r.err == nil {
		vars := theme.NewVars()
		theme.Apply(vars, r.result.Primary, r.result.Secondary)
		r.bg = theme.Current(vars, theme.Background, theme.Color{})
	}
	return r
}

func render(out io.Writer, rows []row, swatches bool) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	if swatches {
		t.SetAllowedRowLength(termWidth(out))
	}
	t.AppendHeader(table.Row{"File", "Primary", "Secondary", "Background"})

	for _, r := range rows {
		if r.err != nil {
			t.AppendRow(table.Row{r.path, r.err.Error(), "", ""})
			continue
		}
		t.AppendRow(table.Row{
			r.path,
			cell(r.result.Primary, swatches),
			cell(r.result.Secondary, swatches),
			cell(r.bg, swatches),
		})
	}
	t.Render()
}

func cell(c theme.Color, swatch bool) string {
	if !swatch {
		return c.Hex()
	}
	block := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
	return block + " " + c.Hex()
}

// watch re-extracts a file on every write until ctx is done. ready, when
// set, is called once the watches are in place.
func watch(ctx context.Context, files []string, size int, out io.Writer, ready func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", f, err)
		}
	}
	if ready != nil {
		ready()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch error: %v\n", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			r := extractFile(ev.Name, size)
			if r.err != nil {
				fmt.Fprintf(out, "%s: %v\n", ev.Name, r.err)
				continue
			}
			fmt.Fprintf(out, "%s: %s %s %s\n", ev.Name, r.result.Primary.Hex(), r.result.Secondary.Hex(), r.bg.Hex())
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 120
}
