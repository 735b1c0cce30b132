package filesvc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yourname/fileshare_lite/internal/expand"
	"github.com/yourname/fileshare_lite/internal/logging"
	"github.com/yourname/fileshare_lite/internal/metrics"
	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/internal/pathutil"
	"github.com/yourname/fileshare_lite/pkg/batchconf"
)

// Register раскрывает выбранные каталоги, объединяет их с отдельными файлами и
// сохраняет результат в кэше выборок.
//
// Explicit files that turn out to be directories are expanded like dirs;
// entries that do not exist are dropped. Unreadable directories are skipped.
func (s *Files) Register(ctx context.Context, req models.RegisterRequest) (models.Selection, error) {
	log := logging.WithContext(ctx)

	if s.rootFile != "" {
		return s.registerRootFile(ctx, req), nil
	}

	var files []string
	dirs := make([]string, 0, len(req.Dirs))
	for _, d := range req.Dirs {
		// "" is the root itself and stays selectable.
		dirs = append(dirs, pathutil.Sanitize(d))
	}
	for _, f := range sanitizeAll(req.Files) {
		info, err := os.Stat(pathutil.Join(s.Root, f))
		switch {
		case err != nil:
			log.Debug("dropping missing selected file", zap.String("file", f), zap.Error(err))
		case info.IsDir():
			dirs = append(dirs, f)
		default:
			files = append(files, f)
		}
	}

	start := time.Now()
	res, err := expand.Expand(ctx, s.Root, dirs)
	if err != nil {
		return models.Selection{}, fmt.Errorf("expand selection: %w", err)
	}
	metrics.RecordExpand(time.Since(start), len(res.Skipped))
	for _, dir := range res.Skipped {
		log.Warn("skipping unreadable directory", zap.String("dir", dir))
	}

	files = expand.SortUnique(append(files, res.Files...))
	sel := s.Selections.Insert(files)
	metrics.RecordSelection(s.Selections.Len())

	log.Info("selection registered",
		zap.String("id", sel.ID),
		zap.Int("files", len(sel.Files)),
		zap.Int("skipped_dirs", len(res.Skipped)),
	)

	return sel, nil
}

// registerRootFile handles a single-file root: the selection holds that file
// if any entry names it or the root itself, and is empty otherwise.
func (s *Files) registerRootFile(ctx context.Context, req models.RegisterRequest) models.Selection {
	files := []string{}
	for _, p := range append(append([]string{}, req.Files...), req.Dirs...) {
		if rel := pathutil.Sanitize(p); rel == "" || rel == s.rootFile {
			files = append(files, s.rootFile)
			break
		}
	}

	sel := s.Selections.Insert(files)
	metrics.RecordSelection(s.Selections.Len())
	logging.WithContext(ctx).Info("selection registered",
		zap.String("id", sel.ID),
		zap.Int("files", len(sel.Files)),
	)
	return sel
}

// Config рендерит batch-конфиг для выборки id; ссылки строятся от baseURL.
func (s *Files) Config(_ context.Context, id, baseURL string) ([]byte, error) {
	sel, ok := s.Selections.Lookup(id)
	metrics.RecordConfigLookup(ok)
	if !ok {
		return nil, fmt.Errorf("selection %q: %w", id, models.ErrNotFound)
	}

	var buf bytes.Buffer
	if err := batchconf.Render(&buf, baseURL, sel.Files, s.Parallel); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeAll drops entries that sanitize to the empty path.
func sanitizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = pathutil.Sanitize(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
