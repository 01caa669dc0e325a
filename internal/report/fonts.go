package report

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// ErrMissingFont is returned when a required font file cannot be read.
var ErrMissingFont = errors.New("missing font resource")

const fontFamily = "DejaVu"

// fontFiles maps fpdf style strings to the font file providing them.
var fontFiles = map[string]string{
	"":  "DejaVuSans.ttf",
	"B": "DejaVuSans-Bold.ttf",
}

//go:embed fonts/*.ttf
var embeddedFonts embed.FS

// FontSource supplies font files by name.
type FontSource interface {
	ReadFont(name string) ([]byte, error)
}

// FSFontSource reads fonts from a file system.
type FSFontSource struct {
	FS fs.FS
}

// ReadFont implements FontSource.
func (s FSFontSource) ReadFont(name string) ([]byte, error) {
	return fs.ReadFile(s.FS, name)
}

// EmbeddedFonts returns the DejaVu fonts compiled into the binary.
func EmbeddedFonts() FontSource {
	sub, err := fs.Sub(embeddedFonts, "fonts")
	if err != nil {
		// fs.Sub only fails for an invalid path literal.
		panic(err)
	}
	return FSFontSource{FS: sub}
}

// DirFontSource reads fonts from a local directory.
func DirFontSource(dir string) FontSource {
	return FSFontSource{FS: os.DirFS(dir)}
}

// FontFiles returns the names of the font files a FontSource must provide.
func FontFiles() []string {
	names := make([]string, 0, len(fontFiles))
	for _, name := range fontFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadFonts reads every required font, failing on the first one missing.
func loadFonts(src FontSource) (map[string][]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no font source configured", ErrMissingFont)
	}
	out := make(map[string][]byte, len(fontFiles))
	for style, name := range fontFiles {
		data, err := src.ReadFont(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMissingFont, name, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: %s is empty", ErrMissingFont, name)
		}
		out[style] = data
	}
	return out, nil
}
