// Package pathutil keeps client supplied paths inside the served root.
package pathutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Sanitize reduces p to a relative slash path made only of plain name segments.
// Empty, "." and ".." segments and leading separators are dropped, and on
// Windows so is a leading drive prefix such as "C:". Elsewhere "C:" is an
// ordinary name and is kept. The result never refers to an ancestor of the
// directory it is joined to; hostile input degrades to a shorter (possibly empty)
// path instead of an error.
func Sanitize(p string) string {
	parts := strings.FieldsFunc(p, isSeparator)

	out := make([]string, 0, len(parts))
	for i, part := range parts {
		switch {
		case part == "." || part == "..":
			continue
		case i == 0 && isDrivePrefix(part):
			continue
		}
		out = append(out, part)
	}

	return strings.Join(out, "/")
}

// Join resolves a sanitized relative path against root.
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(Sanitize(rel)))
}

// Within reports whether target is root itself or lies below it.
func Within(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

func isDrivePrefix(s string) bool {
	if runtime.GOOS != "windows" || len(s) != 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
