package toolchain

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/lito/internal/logfields"
	"git.home.luguber.info/inful/lito/internal/metrics"
)

// Command is a fully-resolved child process invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string // appended to the parent environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Argv returns the command line as a slice.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Executor runs a Command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecExecutor runs commands via os/exec.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// Runner builds runner-specific invocations and executes them in a workspace.
type Runner struct {
	detector *Detector
	exec     Executor
	recorder metrics.Recorder
	stdout   io.Writer
	stderr   io.Writer
}

// NewRunner returns a Runner using detector to pick the package runner.
func NewRunner(detector *Detector, executor Executor) *Runner {
	if executor == nil {
		executor = ExecExecutor{}
	}
	return &Runner{
		detector: detector,
		exec:     executor,
		recorder: metrics.NoopRecorder{},
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithRecorder attaches a metrics recorder.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithOutput overrides the streams inherited by RunBinary.
func (r *Runner) WithOutput(stdout, stderr io.Writer) *Runner {
	r.stdout, r.stderr = stdout, stderr
	return r
}

// ID returns the resolved runner.
func (r *Runner) ID(ctx context.Context) ID {
	return r.detector.Detect(ctx)
}

// Install installs the workspace dependencies. Output is captured and
// attached to the error on failure.
func (r *Runner) Install(ctx context.Context, workspace string) error {
	id := r.ID(ctx)
	var out bytes.Buffer
	cmd := Command{
		Name:   string(id),
		Args:   []string{"install"},
		Dir:    workspace,
		Env:    []string{"CI=true"},
		Stdout: &out,
		Stderr: &out,
	}
	return r.run(ctx, "install", id, cmd, &out)
}

// InstallPackage adds a single package to the workspace.
func (r *Runner) InstallPackage(ctx context.Context, workspace, name string, dev bool) error {
	id := r.ID(ctx)
	var out bytes.Buffer
	cmd := Command{
		Name:   string(id),
		Args:   addArgs(id, name, dev),
		Dir:    workspace,
		Env:    []string{"CI=true"},
		Stdout: &out,
		Stderr: &out,
	}
	return r.run(ctx, "add", id, cmd, &out)
}

// RunBinary executes a project-local binary with inherited output streams.
// It blocks until the process exits or ctx is cancelled.
func (r *Runner) RunBinary(ctx context.Context, workspace, binary string, args ...string) error {
	id := r.ID(ctx)
	name, argv := binaryArgs(id, binary, args)
	cmd := Command{
		Name:   name,
		Args:   argv,
		Dir:    workspace,
		Stdin:  os.Stdin,
		Stdout: r.stdout,
		Stderr: r.stderr,
	}
	return r.run(ctx, binary, id, cmd, nil)
}

func (r *Runner) run(ctx context.Context, op string, id ID, cmd Command, captured *bytes.Buffer) error {
	slog.Debug("Running toolchain command",
		logfields.Toolchain(string(id)),
		logfields.Command(cmd.Argv()),
		logfields.Path(cmd.Dir))

	start := time.Now()
	err := r.exec.Run(ctx, cmd)
	r.recorder.ObserveToolchainDuration(op, string(id), time.Since(start), metrics.ResultFor(err))
	if err == nil {
		return nil
	}
	te := &Error{Runner: id, Command: cmd.Argv(), Err: err, canceled: ctx.Err()}
	if captured != nil {
		te.Output = strings.TrimSpace(captured.String())
	}
	return te
}

// addArgs returns the package-add arguments for id. npm uses `install`,
// the others `add`; the dev flag precedes the package name.
func addArgs(id ID, name string, dev bool) []string {
	verb := "add"
	if id == NPM {
		verb = "install"
	}
	args := []string{verb}
	if dev {
		args = append(args, "-D")
	}
	return append(args, name)
}

// binaryArgs returns the invocation for a project-local binary. npm needs npx;
// the other runners resolve local binaries themselves.
func binaryArgs(id ID, binary string, args []string) (string, []string) {
	name := string(id)
	if id == NPM {
		name = "npx"
	}
	return name, append([]string{binary}, args...)
}

// InstallInstruction returns the shell line that installs dependencies.
func InstallInstruction(id ID) string {
	return string(id) + " install"
}

// RunInstruction returns the shell line that runs a package script.
func RunInstruction(id ID, script string) string {
	if id == Yarn {
		return "yarn " + script
	}
	return string(id) + " run " + script
}
