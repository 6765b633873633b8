package commands

import (
	"context"
	"errors"
	"log/slog"
)

// DevCmd implements the 'dev' command.
type DevCmd struct {
	SiteFlags `embed:""`

	Port int `short:"p" help:"Port for the dev server (default from dev.port)"`
}

func (d *DevCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(root.ToolConfig())
	if err != nil {
		return err
	}
	defer rt.close()

	templateDir, err := rt.resolveTemplate(ctx, d.SiteFlags)
	if err != nil {
		return err
	}
	opts, err := d.options(rt.cfg, templateDir)
	if err != nil {
		return err
	}
	opts.Port = rt.cfg.Dev.Port
	if d.Port != 0 {
		opts.Port = d.Port
	}

	err = rt.pipeline.Dev(ctx, opts)
	if stoppedBySignal(ctx, err) {
		slog.Info("Dev server stopped")
		return nil
	}
	return err
}

// stoppedBySignal reports whether err is the dev server shutting down because
// ctx was cancelled, which is how Ctrl-C stops it.
func stoppedBySignal(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)
}
