package filesvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/pkg/byterange"
)

const defaultContentType = "application/octet-stream"

// Stat describes the sanitized target under the root.
func (s *Files) Stat(_ context.Context, rel string) (fs.FileInfo, error) {
	info, err := os.Stat(s.resolve(rel))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %q: %w", rel, models.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %q: %w: %w", rel, models.ErrIO, err)
	}
	return info, nil
}

// Open открывает файл для отдачи клиенту. Если rangeHeader задает корректный
// диапазон, Body начинается с его первого байта и отдает ровно его длину, иначе
// отдается весь файл. Body закрывает вызывающий.
func (s *Files) Open(_ context.Context, rel, rangeHeader string) (*models.Download, error) {
	path := s.resolve(rel)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", rel, models.ErrNotFound)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %q: %w: %w", rel, models.ErrIO, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %q: is a directory: %w", rel, models.ErrNotFound)
	}

	d := &models.Download{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType(path),
		Size:        info.Size(),
		Body:        f,
	}

	r, ok := byterange.Parse(rangeHeader, d.Size)
	if !ok {
		return d, nil
	}

	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek %q to %d: %w: %w", rel, r.Start, models.ErrIO, err)
	}
	d.Range = &r
	d.Body = &sectionReadCloser{Reader: io.LimitReader(f, r.Length()), Closer: f}

	return d, nil
}

type sectionReadCloser struct {
	io.Reader
	io.Closer
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return defaultContentType
}
