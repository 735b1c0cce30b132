// Package expand flattens selected directories into the files they contain.
package expand

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/yourname/fileshare_lite/internal/pathutil"
)

// Result is the outcome of a best-effort expansion.
type Result struct {
	// Files are root-relative slash paths, sorted byte-wise and unique.
	Files []string
	// Skipped lists directories that could not be read.
	Skipped []string
}

// Expand walks every directory in dirs (relative to root) and returns the files
// below them. Walking uses an explicit worklist. Each directory is queued at most
// once, keyed by its symlink-resolved path, so symlink loops terminate. A
// directory reachable under several names (a link and its target) is listed
// only under the name that was queued first; seeds are queued in order.
// Unreadable directories are recorded in Result.Skipped and the walk continues;
// only context cancellation aborts it.
func Expand(ctx context.Context, root string, dirs []string) (Result, error) {
	var (
		res     Result
		pending = make([]string, 0, len(dirs))
		visited = make(map[string]struct{}, len(dirs))
	)

	push := func(dir string) {
		key := dir
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			key = real
		}
		if _, seen := visited[key]; seen {
			return
		}
		visited[key] = struct{}{}
		pending = append(pending, dir)
	}

	for _, d := range dirs {
		push(pathutil.Join(root, d))
	}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			res.Skipped = append(res.Skipped, dir)
			continue
		}

		for _, e := range entries {
			child := filepath.Join(dir, e.Name())
			if isDir(e, child) {
				push(child)
				continue
			}

			rel, err := filepath.Rel(root, child)
			if err != nil {
				continue
			}
			res.Files = append(res.Files, filepath.ToSlash(rel))
		}
	}

	res.Files = SortUnique(res.Files)
	return res, nil
}

// SortUnique sorts paths byte-wise and drops duplicates in place.
func SortUnique(paths []string) []string {
	slices.Sort(paths)
	return slices.Compact(paths)
}

// isDir follows symlinks, so a link to a directory is walked like a directory.
func isDir(e fs.DirEntry, path string) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
