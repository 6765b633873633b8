package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/lito/internal/docsync"
	"git.home.luguber.info/inful/lito/internal/events"
	"git.home.luguber.info/inful/lito/internal/fsutil"
	"git.home.luguber.info/inful/lito/internal/logfields"
)

// StageServe runs the foreground dev server.
const StageServe StageName = "serve"

// Resync triggers.
const (
	TriggerWatch    = "watch"
	TriggerInterval = "interval"
)

// ResyncResult reports one out-of-band re-run against the live workspace.
type ResyncResult struct {
	Report  *docsync.Report
	Changed []string
}

// Dev assembles the project, installs dependencies, and runs the dev server
// in the foreground. While it runs, changes to the docs tree or the user site
// configuration re-run the sync and synthesize stages against the live
// workspace. Dev returns when the server exits or ctx is cancelled.
func (p *Pipeline) Dev(ctx context.Context, o Options) error {
	st := newState("dev", o)
	defer func() {
		p.resyncMu.Lock()
		defer p.resyncMu.Unlock()
		p.ws.Cleanup()
	}()
	return p.observe(ctx, st, func(ctx context.Context) error {
		stages := append(p.assembleStages(), stageDef{StageInstall, p.stageInstall})
		if err := p.runStages(ctx, st, stages); err != nil {
			return err
		}
		p.remember(st.report)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		watcher, err := p.startWatcher(ctx, o)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()

		if p.resyncInterval > 0 {
			stop, err := p.startScheduler(ctx, o)
			if err != nil {
				return err
			}
			defer stop()
		}

		port := o.Port
		if port == 0 {
			port = DefaultPort
		}
		return p.runStages(ctx, st, []stageDef{{StageServe, func(ctx context.Context, st *state) error {
			slog.Info("Starting dev server", logfields.RunID(p.runID), slog.Int("port", port))
			return p.runner.RunBinary(ctx, st.workspace, SiteBinary, "dev", "--port", strconv.Itoa(port))
		}}})
	})
}

// Resync re-runs the sync and synthesize stages against the live workspace
// and reports the pages whose fingerprint changed since the previous run.
// Concurrent calls are serialized.
func (p *Pipeline) Resync(ctx context.Context, o Options, trigger string) (*ResyncResult, error) {
	p.resyncMu.Lock()
	defer p.resyncMu.Unlock()

	st := newState("dev", o)
	st.workspace = p.ws.Path()
	if err := p.runStages(ctx, st, []stageDef{
		{StageSync, p.stageSync},
		{StageSynthesize, p.stageSynthesize},
	}); err != nil {
		return nil, err
	}

	changed := p.remember(st.report)
	p.recorder.IncResync(trigger)
	slog.Info("Resynced workspace",
		logfields.RunID(p.runID),
		slog.String("trigger", trigger),
		logfields.Count(len(changed)))
	for _, page := range changed {
		slog.Debug("Page changed", logfields.Path(page))
	}
	p.publish(ctx, st.command, events.Event{Type: events.TypeDevResynced, Pages: changed})
	return &ResyncResult{Report: st.report, Changed: changed}, nil
}

// remember stores the report's fingerprints and returns the pages that
// changed relative to the previous report.
func (p *Pipeline) remember(r *docsync.Report) []string {
	if r == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	changed := r.Changed(p.fingerprints)
	p.fingerprints = r.Fingerprints()
	return changed
}

// startWatcher watches the docs tree and the user configuration and resyncs
// after each debounced burst of changes.
func (p *Pipeline) startWatcher(ctx context.Context, o Options) (*fsnotify.Watcher, error) {
	absDocs, err := filepath.Abs(o.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve docs directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := addDirsRecursive(watcher, absDocs); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	cfgPath, _ := filepath.Abs(o.siteConfigPath())
	cfgDir := filepath.Dir(cfgPath)
	if !fsutil.Within(absDocs, cfgDir) {
		if err := watcher.Add(cfgDir); err != nil {
			slog.Warn("watch add failed", "dir", cfgDir, "error", err)
		}
	}

	rebuildReq, trigger := newDebouncer(p.debounce)
	relevant := func(path string) bool {
		return fsutil.Within(absDocs, path) || path == cfgPath
	}
	go runWatchLoop(ctx, watcher, relevant, trigger)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				if _, err := p.Resync(ctx, o, TriggerWatch); err != nil && ctx.Err() == nil {
					slog.Warn("Resync failed", logfields.RunID(p.runID), logfields.Error(err))
				}
			}
		}
	}()
	slog.Info("Watching for changes", logfields.Path(absDocs))
	return watcher, nil
}

// startScheduler runs a periodic resync and returns its shutdown func.
func (p *Pipeline) startScheduler(ctx context.Context, o Options) (func(), error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(p.resyncInterval),
		gocron.NewTask(func() {
			if _, err := p.Resync(ctx, o, TriggerInterval); err != nil && ctx.Err() == nil {
				slog.Warn("Periodic resync failed", logfields.RunID(p.runID), logfields.Error(err))
			}
		}),
		gocron.WithName("dev-resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic resync job: %w", err)
	}
	s.Start()
	slog.Info("Scheduled periodic resync", slog.Duration("interval", p.resyncInterval))
	return func() {
		if err := s.Shutdown(); err != nil {
			slog.Warn("scheduler shutdown error", "error", err)
		}
	}, nil
}

// newDebouncer returns a request channel and a trigger that sends on it once
// no further trigger arrived for delay.
func newDebouncer(delay time.Duration) (<-chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func runWatchLoop(ctx context.Context, watcher *fsnotify.Watcher, relevant func(string) bool, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(ev.Name) || !relevant(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger resyncs.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and .#lock files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
