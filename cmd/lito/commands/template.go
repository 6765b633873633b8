package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"git.home.luguber.info/inful/lito/internal/templates"
)

// TemplateCmd groups template-related commands.
type TemplateCmd struct {
	List  TemplateListCmd  `cmd:"" help:"List available templates"`
	Cache TemplateCacheCmd `cmd:"" help:"Manage the template cache"`
}

// TemplateListCmd implements 'lito template list'.
type TemplateListCmd struct{}

func (t *TemplateListCmd) Run(_ *Global, root *CLI) error {
	resolver, err := templates.NewResolver(root.ToolConfig().CacheDir, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resolver.Close() }()

	cached, err := resolver.List(context.Background())
	if err != nil {
		return err
	}
	writeTemplateList(os.Stdout, templates.RegistryEntries(), cached, time.Now())
	return nil
}

// TemplateCacheCmd implements 'lito template cache'.
type TemplateCacheCmd struct {
	Clear bool `help:"Clear all cached templates"`
}

func (t *TemplateCacheCmd) Run(_ *Global, root *CLI) error {
	resolver, err := templates.NewResolver(root.ToolConfig().CacheDir, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resolver.Close() }()

	ctx := context.Background()
	if t.Clear {
		if err := resolver.Clear(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, "Template cache cleared")
		return nil
	}

	cached, err := resolver.List(ctx)
	if err != nil {
		return err
	}
	writeCacheReport(os.Stdout, resolver.CacheDir(), cached, time.Now())
	return nil
}

func writeTemplateList(w io.Writer, registry []templates.RegistryEntry, cached []templates.CachedTemplate, now time.Time) {
	_, _ = fmt.Fprintln(w, "Available templates:")
	for _, e := range registry {
		_, _ = fmt.Fprintf(w, "  %s\t-> %s\n", e.Name, e.Source)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "GitHub references work directly:")
	_, _ = fmt.Fprintln(w, "  lito dev -i . --template github:owner/repo")
	_, _ = fmt.Fprintln(w, "  lito dev -i . --template github:owner/repo#v1.0.0")

	if len(cached) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Cached templates:")
	for _, c := range cached {
		_, _ = fmt.Fprintf(w, "  %s (cached %dm ago)\n", c.Ref, int(now.Sub(c.CachedAt).Round(time.Minute).Minutes()))
	}
}

func writeCacheReport(w io.Writer, dir string, cached []templates.CachedTemplate, now time.Time) {
	if len(cached) == 0 {
		_, _ = fmt.Fprintln(w, "No templates cached.")
		return
	}
	_, _ = fmt.Fprintf(w, "%d template(s) cached in %s:\n", len(cached), dir)
	for _, c := range cached {
		_, _ = fmt.Fprintf(w, "  %s\n    cached %dh ago\n", c.Ref, int(now.Sub(c.CachedAt).Round(time.Hour).Hours()))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Clear with: lito template cache --clear")
}
