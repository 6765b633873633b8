package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SiteFlags `embed:""`

	Output string `short:"o" default:"./dist" help:"Output directory for the built site"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(root.ToolConfig())
	if err != nil {
		return err
	}
	defer rt.close()

	templateDir, err := rt.resolveTemplate(ctx, b.SiteFlags)
	if err != nil {
		return err
	}
	opts, err := b.options(rt.cfg, templateDir)
	if err != nil {
		return err
	}
	opts.OutputDir = b.Output

	res, err := rt.pipeline.Build(ctx, opts)
	if err != nil {
		return err
	}

	out, _ := filepath.Abs(b.Output)
	_, _ = fmt.Fprintf(os.Stdout, "Built %d pages into %s (%d files)\n", len(res.Sync.Pages), out, res.Collected)
	return nil
}
