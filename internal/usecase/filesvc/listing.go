package filesvc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/internal/pathutil"
)

// List возвращает содержимое каталога: сначала подкаталоги, затем файлы, по имени.
func (s *Files) List(_ context.Context, rel string) ([]models.Entry, error) {
	rel = pathutil.Sanitize(rel)
	dir := pathutil.Join(s.Root, rel)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list %q: %w", rel, models.ErrNotFound)
		}
		return nil, fmt.Errorf("list %q: %w: %w", rel, models.ErrIO, err)
	}

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		entry := models.Entry{
			Name:    e.Name(),
			RelPath: path.Join(rel, e.Name()),
			IsDir:   e.IsDir(),
		}
		// Stat follows symlinks so linked directories list as directories.
		if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil {
			entry.IsDir = info.IsDir()
			entry.Size = info.Size()
			entry.ModTime = info.ModTime()
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}
