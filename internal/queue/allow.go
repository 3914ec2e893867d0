package queue

import (
	"path/filepath"
	"slices"
	"strings"
)

// AllowList is an immutable set of lowercase file extensions without the dot.
type AllowList struct {
	set  map[string]struct{}
	exts []string
}

// NewAllowList builds an allow-list. Entries are lowercased and a leading dot
// is dropped.
func NewAllowList(extensions []string) AllowList {
	set := make(map[string]struct{}, len(extensions))
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = normalizeExtension(ext)
		if ext == "" {
			continue
		}
		if _, ok := set[ext]; ok {
			continue
		}
		set[ext] = struct{}{}
		exts = append(exts, ext)
	}
	return AllowList{set: set, exts: exts}
}

// Allows reports whether the path's extension is in the list.
func (a AllowList) Allows(path string) bool {
	_, ok := a.set[Extension(path)]
	return ok
}

// Extensions returns the allowed extensions in declaration order.
func (a AllowList) Extensions() []string {
	return slices.Clone(a.exts)
}

// Extension returns the lowercase extension of path without the dot.
func Extension(path string) string {
	return normalizeExtension(filepath.Ext(path))
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
