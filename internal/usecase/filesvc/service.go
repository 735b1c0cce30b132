package filesvc

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yourname/fileshare_lite/internal/models"
	"github.com/yourname/fileshare_lite/internal/pathutil"
)

type (
	// SelectionStore хранилище зарегистрированных выборок.
	SelectionStore interface {
		Insert(files []string) models.Selection
		Lookup(id string) (models.Selection, bool)
		Len() int
	}

	// Service объединяет операции по выдаче файлов и выборок.
	Service interface {
		Stat(ctx context.Context, rel string) (fs.FileInfo, error)
		Open(ctx context.Context, rel, rangeHeader string) (*models.Download, error)
		List(ctx context.Context, rel string) ([]models.Entry, error)
		Register(ctx context.Context, req models.RegisterRequest) (models.Selection, error)
		Config(ctx context.Context, id, baseURL string) ([]byte, error)
	}
)

type Deps struct {
	// Root is the canonical served directory (or single file).
	Root       string
	Selections SelectionStore
	// Parallel is the parallel-max written into batch configs.
	Parallel int
}

type Files struct {
	Deps
	// rootFile is the base name of Root when Root is a regular file.
	rootFile string
}

// New конструирует файловый сервис с заданными зависимостями.
func New(deps Deps) *Files {
	if deps.Parallel < 1 {
		deps.Parallel = 1
	}
	f := &Files{Deps: deps}
	if info, err := os.Stat(deps.Root); err == nil && info.Mode().IsRegular() {
		f.rootFile = filepath.Base(deps.Root)
	}
	return f
}

// resolve maps a client path to a filesystem path under Root. When Root is a
// single file, both "" and its own name resolve to it.
func (s *Files) resolve(rel string) string {
	if s.rootFile != "" && pathutil.Sanitize(rel) == s.rootFile {
		return s.Root
	}
	return pathutil.Join(s.Root, rel)
}

var _ Service = (*Files)(nil)
