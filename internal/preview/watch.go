package preview

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// watchFilter decides which paths are watched and which events cause rebuilds.
type watchFilter struct {
	output   string
	patterns site.Patterns
	public   string
}

// skipDir reports whether a directory must not be watched.
func (f watchFilter) skipDir(path string) bool {
	if f.output != "" && isWithin(path, f.output) {
		return true
	}
	if f.public != "" && (isWithin(f.public, path) || isWithin(path, f.public)) {
		return false
	}
	return f.patterns.Excluded(filepath.Base(path))
}

// ignoreEvent returns true for filesystem events that should not trigger rebuilds.
func (f watchFilter) ignoreEvent(path string) bool {
	if f.output != "" && isWithin(path, f.output) {
		return true
	}
	return shouldIgnoreFile(path)
}

func shouldIgnoreFile(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db" || base == "4913" // vim probes writability with "4913"
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))))
}

func newWatcher(root string, filter watchFilter) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	if err := addDirsRecursive(w, root, filter); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string, filter watchFilter) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && filter.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// handleEvent adds newly created directories and reports whether ev should trigger a rebuild.
func handleEvent(w *fsnotify.Watcher, ev fsnotify.Event, filter watchFilter) bool {
	if filter.ignoreEvent(ev.Name) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if filter.skipDir(ev.Name) {
				return false
			}
			_ = addDirsRecursive(w, ev.Name, filter)
		}
	}
	if ev.Op == fsnotify.Chmod {
		return false
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}
