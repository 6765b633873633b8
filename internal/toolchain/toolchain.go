// Package toolchain detects the JavaScript package runner available on the
// host and builds the install/run invocations for it.
package toolchain

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"

	"git.home.luguber.info/inful/lito/internal/foundation/normalization"
	"git.home.luguber.info/inful/lito/internal/logfields"
)

// ID names a package runner.
type ID string

const (
	Bun  ID = "bun"
	PNPM ID = "pnpm"
	Yarn ID = "yarn"
	NPM  ID = "npm"
)

// DefaultID is used when no runner answers a probe.
const DefaultID = NPM

// ProbeOrder is the detection priority. First responsive runner wins.
var ProbeOrder = []ID{Bun, PNPM, Yarn, NPM}

var idNormalizer = normalization.NewNormalizer(map[string]ID{
	"bun":  Bun,
	"pnpm": PNPM,
	"yarn": Yarn,
	"npm":  NPM,
}, "")

// ParseID normalizes a runner name. An empty string is valid and means "detect".
func ParseID(raw string) (ID, error) {
	if raw == "" {
		return "", nil
	}
	return idNormalizer.NormalizeWithError(raw)
}

// Prober reports whether a runner is usable on this host.
type Prober interface {
	Probe(ctx context.Context, id ID) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, id ID) bool

func (f ProberFunc) Probe(ctx context.Context, id ID) bool { return f(ctx, id) }

// ExecProber runs `<runner> --version` and treats exit status 0 as presence.
type ExecProber struct{}

func (ExecProber) Probe(ctx context.Context, id ID) bool {
	return exec.CommandContext(ctx, string(id), "--version").Run() == nil
}

// Detector resolves the runner once and caches the answer for its lifetime.
// One Detector is owned by each pipeline invocation.
type Detector struct {
	prober Prober
	forced ID

	once sync.Once
	id   ID
}

// NewDetector returns a Detector. A non-empty forced ID skips probing entirely.
func NewDetector(prober Prober, forced ID) *Detector {
	if prober == nil {
		prober = ExecProber{}
	}
	return &Detector{prober: prober, forced: forced}
}

// Detect returns the runner, probing at most once.
func (d *Detector) Detect(ctx context.Context) ID {
	d.once.Do(func() {
		if d.forced != "" {
			d.id = d.forced
			slog.Debug("Using configured toolchain", logfields.Toolchain(string(d.id)))
			return
		}
		d.id = DefaultID
		for _, id := range ProbeOrder {
			if d.prober.Probe(ctx, id) {
				d.id = id
				break
			}
		}
		slog.Debug("Detected toolchain", logfields.Toolchain(string(d.id)))
	})
	return d.id
}
