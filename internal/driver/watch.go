package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"minic/internal/trace"
)

// DefaultDebounce groups bursts of editor writes into one re-check.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changed source files under a set of paths.
type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]bool // явно переданные файлы
	roots []string        // каталоги: внутри них интересны все *.mc
}

// NewWatcher installs watches for paths. Directories are watched
// recursively and any source file under them counts; for a plain file its
// directory is watched and only that file counts.
func NewWatcher(paths []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	wt := &Watcher{w: w, files: make(map[string]bool)}
	for _, p := range paths {
		if err := wt.add(p); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return wt, nil
}

func (wt *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		wt.files[abs] = true
		return wt.w.Add(filepath.Dir(abs))
	}
	wt.roots = append(wt.roots, abs)
	return wt.addTree(abs)
}

func (wt *Watcher) addTree(abs string) error {
	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return wt.w.Add(p)
	})
}

func (wt *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if wt.files[ev.Name] {
		return true
	}
	return strings.HasSuffix(ev.Name, SourceExt) && wt.underRoot(ev.Name)
}

func (wt *Watcher) underRoot(path string) bool {
	for _, root := range wt.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run calls onChange with the sorted set of changed files after each quiet
// period of debounce. It returns when ctx is done, when onChange fails or
// when the watcher breaks.
func (wt *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(ctx context.Context, changed []string) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tracer := trace.FromContext(ctx)
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-wt.w.Events:
			if !ok {
				return nil
			}
			// новые каталоги тоже надо смотреть
			if ev.Op&fsnotify.Create != 0 && wt.underRoot(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = wt.addTree(ev.Name)
				}
			}
			if !wt.relevant(ev) {
				continue
			}
			trace.Point(tracer, trace.ScopeFile, "fs-event", ev.Op.String()+" "+ev.Name, 0)
			pending[ev.Name] = true
			timer.Reset(debounce)
		case err, ok := <-wt.w.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			if err := onChange(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// Close releases the OS watches.
func (wt *Watcher) Close() error {
	return wt.w.Close()
}

// Watch is NewWatcher + Run + Close.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(ctx context.Context, changed []string) error) error {
	wt, err := NewWatcher(paths)
	if err != nil {
		return err
	}
	defer wt.Close()
	return wt.Run(ctx, debounce, onChange)
}
