// Package watch re-parses grammar files under a directory as they change.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/descent/grammar"
	"github.com/dhamidi/descent/parser"
)

var log = commonlog.GetLogger("descent.watch")

// Result reports one parsed, re-parsed or removed file.
type Result struct {
	Path    string
	Grammar string
	Value   any
	Err     error
	Removed bool
}

type Watcher struct {
	root         string
	onResult     func(Result)
	stopCh       chan struct{}
	stopOnce     sync.Once
	pollInterval time.Duration

	mu       sync.Mutex
	modTimes map[string]time.Time
}

func New(root string, interval time.Duration, onResult func(Result)) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		root:         root,
		onResult:     onResult,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *Watcher) Start() {
	go w.run()
}

// Stop ends polling. Calling it more than once is harmless.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.Scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Scan()
		}
	}
}

// Scan walks the root once, parsing files that are new or modified since
// the previous scan and reporting files that disappeared. Scans never
// overlap, so it is safe to call while the watcher is running.
func (w *Watcher) Scan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	currentFiles := make(map[string]bool)

	filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		g, ok := grammar.ForFile(path)
		if !ok {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			w.onResult(parseFile(g, path))
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			log.Debugf("removed %s", path)
			w.onResult(Result{Path: path, Removed: true})
		}
	}
}

func parseFile(g grammar.Grammar, path string) Result {
	r := Result{Path: path, Grammar: g.Name}
	src, err := os.ReadFile(path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Value, r.Err = g.Parse(src, parser.WithFile(path))
	log.Debugf("parsed %s as %s", path, g.Name)
	return r
}
