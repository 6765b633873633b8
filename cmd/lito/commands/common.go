package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/lito/internal/config"
	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/pipeline"
	"git.home.luguber.info/inful/lito/internal/provider"
	"git.home.luguber.info/inful/lito/internal/siteconfig"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Tool configuration file (reads ./lito.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the documentation site"`
	Dev      DevCmd      `cmd:"" help:"Start the development server with watch mode"`
	Eject    EjectCmd    `cmd:"" help:"Export the full site project source"`
	Template TemplateCmd `cmd:"" help:"Manage documentation templates"`

	tool *config.Config `kong:"-"`
}

// AfterApply runs after flag parsing: load the tool configuration and set up
// logging once.
func (c *CLI) AfterApply() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.tool = cfg

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if c.Verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Loaded tool configuration", slog.String("config", cfg.String()))
	return nil
}

// ToolConfig returns the loaded tool configuration, or defaults before AfterApply.
func (c *CLI) ToolConfig() *config.Config {
	if c.tool == nil {
		return config.Default()
	}
	return c.tool
}

// SiteFlags are shared by the commands that assemble a site.
type SiteFlags struct {
	Input        string `short:"i" required:"" type:"existingdir" help:"Path to the docs folder"`
	Template     string `short:"t" help:"Template to use (default, github:owner/repo[#ref], owner/repo, or local path)"`
	BaseURL      string `short:"b" name:"base-url" default:"/" help:"Base URL for the site"`
	Name         string `help:"Project name"`
	Description  string `help:"Project description"`
	PrimaryColor string `name:"primary-color" help:"Primary theme color (hex)"`
	AccentColor  string `name:"accent-color" help:"Accent theme color (hex)"`
	Favicon      string `help:"Favicon path"`
	Logo         string `help:"Logo path"`
	SiteConfig   string `name:"site-config" help:"Site configuration to merge (default <input>/docs-config.json)"`
	Provider     string `help:"Hosting provider (cloudflare, vercel, netlify)"`
	Rendering    string `help:"Rendering mode (static, server, hybrid)"`
	Refresh      bool   `help:"Force re-download of the template (bypass cache)"`
}

// templateID returns the flag value or the configured template.
func (f SiteFlags) templateID(cfg *config.Config) string {
	if f.Template != "" {
		return f.Template
	}
	return cfg.Template
}

// options builds the pipeline options. Flags override the tool configuration.
func (f SiteFlags) options(cfg *config.Config, templateDir string) (pipeline.Options, error) {
	providerID := cfg.Provider
	if f.Provider != "" {
		providerID = strings.ToLower(strings.TrimSpace(f.Provider))
	}
	rendering := cfg.Rendering
	if f.Rendering != "" {
		rendering = f.Rendering
	}
	mode, err := provider.ParseMode(rendering)
	if err != nil {
		return pipeline.Options{}, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --rendering").
			WithContext("valid", provider.ValidModes()).Build()
	}
	if id, ok := provider.ParseID(providerID); ok {
		providerID = string(id)
	}

	return pipeline.Options{
		DocsDir:        f.Input,
		TemplateDir:    templateDir,
		SiteConfigPath: f.SiteConfig,
		BaseURL:        f.BaseURL,
		Overrides: siteconfig.Overrides{
			Name:         f.Name,
			Description:  f.Description,
			PrimaryColor: f.PrimaryColor,
			AccentColor:  f.AccentColor,
			Favicon:      f.Favicon,
			Logo:         f.Logo,
		},
		Provider:  provider.ID(providerID),
		Rendering: mode,
	}, nil
}
