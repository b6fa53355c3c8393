package palette

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/dhowden/tag"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	ErrDecode    = errors.New("cannot decode image")
	ErrNoArtwork = errors.New("audio file has no embedded artwork")
)

var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// IsAudioSource reports whether src names an audio file whose embedded
// picture should be used as the cover.
func IsAudioSource(src string) bool {
	return audioExts[strings.ToLower(path.Ext(src))]
}

// Load reads and decodes the image named by src from fsys. Audio files
// resolve to their embedded picture.
func Load(fsys fs.FS, src string) (image.Image, error) {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return nil, err
	}

	if IsAudioSource(src) {
		data, err = embeddedPicture(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", src, ErrDecode, err)
	}
	return img, nil
}

// Probe checks that src decodes without decoding the full raster.
func Probe(fsys fs.FS, src string) error {
	f, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if IsAudioSource(src) {
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		pic, err := embeddedPicture(data)
		if err != nil {
			return err
		}
		r = bytes.NewReader(pic)
	}

	if _, _, err := image.DecodeConfig(r); err != nil {
		return fmt.Errorf("%s: %w: %v", src, ErrDecode, err)
	}
	return nil
}

func embeddedPicture(data []byte) ([]byte, error) {
	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, ErrNoArtwork
	}
	return pic.Data, nil
}
