package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/lito/internal/docsync"
	"git.home.luguber.info/inful/lito/internal/events"
	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/metrics"
	"git.home.luguber.info/inful/lito/internal/output"
	"git.home.luguber.info/inful/lito/internal/provider"
	"git.home.luguber.info/inful/lito/internal/siteconfig"
	"git.home.luguber.info/inful/lito/internal/toolchain"
	"git.home.luguber.info/inful/lito/internal/workspace"
)

// SiteBinary is the site generator binary run inside the workspace.
const SiteBinary = "astro"

// DefaultPort is the dev server port used when Options.Port is zero.
const DefaultPort = 4321

// Options describes one invocation's inputs.
type Options struct {
	DocsDir     string
	TemplateDir string // resolved local template directory
	// SiteConfigPath is the user site configuration. Empty selects
	// <DocsDir>/docs-config.json.
	SiteConfigPath string
	BaseURL        string
	Overrides      siteconfig.Overrides
	Provider       provider.ID
	Rendering      provider.Mode
	OutputDir      string
	Port           int
}

func (o Options) siteConfigPath() string {
	if o.SiteConfigPath != "" {
		return o.SiteConfigPath
	}
	return filepath.Join(o.DocsDir, workspace.SiteConfigFile)
}

func (o Options) validate() error {
	if o.DocsDir == "" {
		return ferrors.ValidationError("docs directory is required").Build()
	}
	info, err := os.Stat(o.DocsDir)
	if err != nil || !info.IsDir() {
		return ferrors.ValidationError("docs directory does not exist").
			WithContext("path", o.DocsDir).Build()
	}
	if o.TemplateDir == "" {
		return ferrors.ValidationError("template directory is required").Build()
	}
	return nil
}

// Result reports what a run produced.
type Result struct {
	RunID     string
	Workspace string
	Toolchain toolchain.ID
	Sync      *docsync.Report
	Site      *siteconfig.Result
	Provider  *provider.Result
	// Collected is the number of output files copied by Build.
	Collected int
	Durations map[StageName]time.Duration
}

// state is threaded through the stages of one run.
type state struct {
	command   string
	opts      Options
	workspace string
	report    *docsync.Report
	site      *siteconfig.Result
	provider  *provider.Result
	collected int
	durations map[StageName]time.Duration
}

func newState(command string, o Options) *state {
	return &state{command: command, opts: o, durations: make(map[StageName]time.Duration)}
}

func (st *state) result(p *Pipeline) *Result {
	return &Result{
		RunID:     p.runID,
		Workspace: st.workspace,
		Sync:      st.report,
		Site:      st.site,
		Provider:  st.provider,
		Collected: st.collected,
		Durations: st.durations,
	}
}

// Pipeline owns one lito invocation against the fixed workspace.
type Pipeline struct {
	ws             *workspace.Manager
	runner         *toolchain.Runner
	recorder       metrics.Recorder
	publisher      events.Publisher
	runID          string
	debounce       time.Duration
	resyncInterval time.Duration

	resyncMu     sync.Mutex // serializes resyncs
	mu           sync.Mutex
	fingerprints map[string]string // last synced page fingerprints
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithPublisher attaches an event publisher.
func WithPublisher(pub events.Publisher) Option {
	return func(p *Pipeline) {
		if pub != nil {
			p.publisher = pub
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}

// WithDebounce sets the dev watcher's quiet period.
func WithDebounce(d time.Duration) Option {
	return func(p *Pipeline) { p.debounce = d }
}

// WithResyncInterval enables a periodic resync in dev mode. Zero disables it.
func WithResyncInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.resyncInterval = d }
}

// New creates a Pipeline working in ws and running the toolchain through runner.
func New(ws *workspace.Manager, runner *toolchain.Runner, opts ...Option) *Pipeline {
	p := &Pipeline{
		ws:        ws,
		runner:    runner,
		recorder:  metrics.NoopRecorder{},
		publisher: events.NoopPublisher{},
		runID:     uuid.New().String(),
		debounce:  300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunID identifies this invocation in logs and events.
func (p *Pipeline) RunID() string { return p.runID }

// Workspace returns the workspace manager.
func (p *Pipeline) Workspace() *workspace.Manager { return p.ws }

func (p *Pipeline) assembleStages() []stageDef {
	return []stageDef{
		{StageScaffold, p.stageScaffold},
		{StageSync, p.stageSync},
		{StageSynthesize, p.stageSynthesize},
		{StageProvider, p.stageProvider},
	}
}

// Assemble turns the docs and template into a buildable project in the
// workspace without running the toolchain. The workspace is left in place.
func (p *Pipeline) Assemble(ctx context.Context, o Options) (*Result, error) {
	st := newState("assemble", o)
	err := p.observe(ctx, st, func(ctx context.Context) error {
		return p.runStages(ctx, st, p.assembleStages())
	})
	return st.result(p), err
}

// Build assembles the project, installs dependencies, runs the site build,
// and copies the output to o.OutputDir. The workspace is removed afterwards.
func (p *Pipeline) Build(ctx context.Context, o Options) (*Result, error) {
	st := newState("build", o)
	defer p.ws.Cleanup()
	stages := append(p.assembleStages(),
		stageDef{StageInstall, p.stageInstall},
		stageDef{StageBuild, p.stageBuild},
		stageDef{StageCollect, p.stageCollect},
	)
	err := p.observe(ctx, st, func(ctx context.Context) error {
		return p.runStages(ctx, st, stages)
	})
	res := st.result(p)
	res.Toolchain = p.runner.ID(ctx)
	return res, err
}

// EjectResult reports an exported project.
type EjectResult struct {
	*Result
	Destination  string
	Files        int
	Instructions []string
}

// Eject assembles the project and copies it to dest as a standalone site
// project, returning the commands to install and run it.
func (p *Pipeline) Eject(ctx context.Context, o Options, dest string) (*EjectResult, error) {
	o.OutputDir = dest
	st := newState("eject", o)
	defer p.ws.Cleanup()
	out := &EjectResult{Destination: dest}
	stages := append(p.assembleStages(), stageDef{StageEject, func(_ context.Context, st *state) error {
		n, err := output.Export(st.workspace, dest)
		out.Files = n
		return err
	}})
	err := p.observe(ctx, st, func(ctx context.Context) error {
		return p.runStages(ctx, st, stages)
	})
	out.Result = st.result(p)
	if err != nil {
		return out, err
	}
	id := p.runner.ID(ctx)
	out.Toolchain = id
	out.Instructions = []string{
		"cd " + dest,
		toolchain.InstallInstruction(id),
		toolchain.RunInstruction(id, "dev"),
	}
	return out, nil
}

func (p *Pipeline) stageScaffold(_ context.Context, st *state) error {
	if err := st.opts.validate(); err != nil {
		return err
	}
	path, err := p.ws.Scaffold(st.opts.TemplateDir, st.opts.DocsDir, st.opts.siteConfigPath(), st.opts.OutputDir)
	if err != nil {
		return err
	}
	st.workspace = path
	return nil
}

func (p *Pipeline) stageSync(_ context.Context, st *state) error {
	report, err := docsync.Sync(st.opts.DocsDir, st.workspace)
	if err != nil {
		return err
	}
	st.report = report
	p.recorder.SetPagesSynced(len(report.Pages))
	return nil
}

func (p *Pipeline) stageSynthesize(_ context.Context, st *state) error {
	res, err := siteconfig.Synthesize(p.ws, st.opts.DocsDir, siteconfig.Input{
		UserConfigPath: st.opts.siteConfigPath(),
		BaseURL:        st.opts.BaseURL,
		Overrides:      st.opts.Overrides,
	})
	if err != nil {
		return err
	}
	st.site = res
	return nil
}

func (p *Pipeline) stageProvider(ctx context.Context, st *state) error {
	res, err := provider.Configure(ctx, p.runner, st.workspace, st.opts.Provider, st.opts.Rendering)
	if err != nil {
		return err
	}
	st.provider = res
	return nil
}

func (p *Pipeline) stageInstall(ctx context.Context, st *state) error {
	return p.runner.Install(ctx, st.workspace)
}

func (p *Pipeline) stageBuild(ctx context.Context, st *state) error {
	return p.runner.RunBinary(ctx, st.workspace, SiteBinary, "build")
}

func (p *Pipeline) stageCollect(_ context.Context, st *state) error {
	if st.opts.OutputDir == "" {
		return ferrors.ValidationError("output directory is required").Build()
	}
	n, err := output.Collect(st.workspace, st.opts.OutputDir)
	st.collected = n
	return err
}

// observe wraps a whole run with pipeline-level metrics and events.
func (p *Pipeline) observe(ctx context.Context, st *state, fn func(context.Context) error) error {
	log := slog.With(logfields.RunID(p.runID), slog.String("pipeline", st.command))
	log.Info("Pipeline started", logfields.Path(st.opts.DocsDir))
	p.publish(ctx, st.command, events.Event{Type: events.TypePipelineStarted})

	t0 := time.Now()
	err := fn(ctx)
	dur := time.Since(t0)

	result := metrics.ResultFor(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		result = metrics.ResultCanceled
	}
	p.recorder.ObservePipelineDuration(st.command, dur)
	p.recorder.IncPipelineOutcome(st.command, result)

	ev := events.Event{Type: events.TypePipelineCompleted, DurationMS: dur.Milliseconds()}
	if err != nil {
		ev.Type = events.TypePipelineFailed
		ev.Error = err.Error()
		log.Debug("Pipeline stopped", logfields.Duration(dur), logfields.Error(err))
	} else {
		log.Info("Pipeline completed", logfields.Duration(dur))
	}
	p.publish(ctx, st.command, ev)
	return err
}

func (p *Pipeline) publish(ctx context.Context, command string, e events.Event) {
	e.RunID = p.runID
	e.Command = command
	// Publishing must not fail a run, and a cancelled run still reports its end.
	if err := p.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("Failed to publish pipeline event",
			logfields.RunID(p.runID),
			slog.String("type", e.Type),
			logfields.Error(err))
	}
}
