package media

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/midnight/cmd/play/session"
)

// Notifier publishes track changes as desktop notifications.
type Notifier struct {
	dir  string
	log  *slog.Logger
	send func(title, message, icon string) error
}

// NewNotifier creates a notifier. Cover icons are looked up under dir.
func NewNotifier(dir string, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{
		dir: dir,
		log: log,
		send: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

// Update implements session.NowPlaying. Delivery happens in the background.
func (n *Notifier) Update(t session.Track, index int) {
	message := fmt.Sprintf("%s  %02d/%02d", t.Artist, index+1, session.TrackCount)
	icon := ""
	if n.dir != "" && t.Cover != "" {
		icon = filepath.Join(n.dir, filepath.FromSlash(t.Cover))
	}
	go func() {
		if err := n.send(t.Title, message, icon); err != nil {
			n.log.Warn("now playing notification failed", "title", t.Title, "error", err)
		}
	}()
}
