package gcsuploader

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/report"
)

// FontSet holds font files fetched ahead of rendering. It implements report.FontSource.
type FontSet map[string][]byte

// ReadFont implements report.FontSource.
func (f FontSet) ReadFont(name string) ([]byte, error) {
	data, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("ReadFont: %s: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

// FetchFonts downloads every font the report needs from the gs:// prefix dirURI.
// A missing object fails the whole fetch.
func FetchFonts(ctx context.Context, svc StorageService, dirURI string) (FontSet, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(dirURI, "gs://"), "/")
	if !strings.HasPrefix(dirURI, "gs://") || trimmed == "" {
		return nil, fmt.Errorf("FetchFonts: invalid GCS URI: %s", dirURI)
	}
	bucket, prefix, _ := strings.Cut(trimmed, "/")

	fonts := FontSet{}
	for _, name := range report.FontFiles() {
		data, err := svc.FetchFromGCS(ctx, URI(bucket, path.Join(prefix, name)))
		if err != nil {
			return nil, fmt.Errorf("FetchFonts: %w: %v", report.ErrMissingFont, err)
		}
		fonts[name] = data
	}
	return fonts, nil
}
