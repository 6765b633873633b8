package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/lito/internal/config"
	"git.home.luguber.info/inful/lito/internal/events"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/metrics"
	"git.home.luguber.info/inful/lito/internal/pipeline"
	"git.home.luguber.info/inful/lito/internal/templates"
	"git.home.luguber.info/inful/lito/internal/toolchain"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

// runtime wires one command invocation.
type runtime struct {
	cfg       *config.Config
	recorder  *metrics.PrometheusRecorder
	publisher events.Publisher
	resolver  *templates.Resolver
	pipeline  *pipeline.Pipeline
}

func newRuntime(cfg *config.Config) (*runtime, error) {
	rt := &runtime{
		cfg:       cfg,
		recorder:  metrics.NewPrometheusRecorder(nil),
		publisher: events.NoopPublisher{},
	}

	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			// Events are best-effort; a missing broker never blocks a build.
			slog.Warn("Pipeline events disabled", slog.String("url", cfg.Events.NATSURL), logfields.Error(err))
		} else {
			rt.publisher = pub
		}
	}

	resolver, err := templates.NewResolver(cfg.CacheDir, nil)
	if err != nil {
		_ = rt.publisher.Close()
		return nil, err
	}
	rt.resolver = resolver

	detector := toolchain.NewDetector(nil, toolchain.ID(cfg.Toolchain))
	runner := toolchain.NewRunner(detector, nil).WithRecorder(rt.recorder)
	rt.pipeline = pipeline.New(
		workspace.NewManager(cfg.WorkspaceDir),
		runner,
		pipeline.WithRecorder(rt.recorder),
		pipeline.WithPublisher(rt.publisher),
		pipeline.WithDebounce(cfg.Dev.Debounce),
		pipeline.WithResyncInterval(cfg.Dev.ResyncInterval),
	)
	slog.Debug("Pipeline ready", logfields.RunID(rt.pipeline.RunID()))
	return rt, nil
}

// resolveTemplate returns the local template directory for flags.
func (rt *runtime) resolveTemplate(ctx context.Context, flags SiteFlags) (string, error) {
	id := flags.templateID(rt.cfg)
	dir, err := rt.resolver.Resolve(ctx, id, flags.Refresh)
	if err != nil {
		return "", err
	}
	slog.Info("Using template", logfields.Template(id), logfields.Path(dir))
	return dir, nil
}

// close flushes metrics and releases connections.
func (rt *runtime) close() {
	if rt.cfg.MetricsFile != "" {
		if err := rt.recorder.WriteTextfile(rt.cfg.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", logfields.Path(rt.cfg.MetricsFile), logfields.Error(err))
		}
	}
	if err := rt.publisher.Close(); err != nil {
		slog.Debug("Event publisher close failed", logfields.Error(err))
	}
	if err := rt.resolver.Close(); err != nil {
		slog.Debug("Template index close failed", logfields.Error(err))
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
