package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

// EjectCmd implements the 'eject' command.
type EjectCmd struct {
	SiteFlags `embed:""`

	Output string `short:"o" default:"./docs-project" help:"Output directory for the project"`
}

func (e *EjectCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(root.ToolConfig())
	if err != nil {
		return err
	}
	defer rt.close()

	templateDir, err := rt.resolveTemplate(ctx, e.SiteFlags)
	if err != nil {
		return err
	}
	opts, err := e.options(rt.cfg, templateDir)
	if err != nil {
		return err
	}

	dest, err := filepath.Abs(e.Output)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	res, err := rt.pipeline.Eject(ctx, opts, dest)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Project exported to %s (%d files)\n\nNext steps:\n", res.Destination, res.Files)
	for _, line := range res.Instructions {
		_, _ = fmt.Fprintf(os.Stdout, "  %s\n", line)
	}
	return nil
}
