// Package provider wires hosting-provider adapters into the workspace.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/lito/internal/buildconfig"
	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/foundation/normalization"
	"git.home.luguber.info/inful/lito/internal/logfields"
)

// ID names a hosting provider.
type ID string

const (
	Cloudflare ID = "cloudflare"
	Vercel     ID = "vercel"
	Netlify    ID = "netlify"
)

// Mode is the rendering mode of the generated site.
type Mode string

const (
	Static Mode = "static"
	Server Mode = "server"
	Hybrid Mode = "hybrid"
)

var (
	idNormalizer = normalization.NewNormalizer(map[string]ID{
		"cloudflare": Cloudflare,
		"vercel":     Vercel,
		"netlify":    Netlify,
	}, "")
	modeNormalizer = normalization.NewNormalizer(map[string]Mode{
		"static": Static,
		"server": Server,
		"hybrid": Hybrid,
	}, Static)
)

// ParseID normalizes a provider name. Unknown names yield "" and ok=false;
// callers treat that as "no provider".
func ParseID(raw string) (ID, bool) {
	return idNormalizer.Lookup(raw)
}

// ParseMode normalizes a rendering mode. Empty input means Static.
func ParseMode(raw string) (Mode, error) {
	if raw == "" {
		return Static, nil
	}
	return modeNormalizer.NormalizeWithError(raw)
}

// ValidModes lists the accepted rendering modes.
func ValidModes() []string { return modeNormalizer.ValidKeys() }

// PackageInstaller adds a package to a workspace. toolchain.Runner satisfies it.
type PackageInstaller interface {
	InstallPackage(ctx context.Context, workspace, name string, dev bool) error
}

// Descriptor is a deployment file a provider expects at the workspace root.
type Descriptor struct {
	Name    string
	Content []byte
}

// AdapterPackage returns the npm package of the provider's adapter.
func AdapterPackage(id ID) string {
	return "@astrojs/" + string(id)
}

// AdapterPatch returns the build configuration patch for a non-static mode.
// Both fields are guarded by `output`, so a file that already declares an
// output mode is left alone.
func AdapterPatch(id ID, mode Mode) buildconfig.Patch {
	return buildconfig.Patch{
		Imports: []buildconfig.Import{{Name: string(id), Source: AdapterPackage(id)}},
		Fields: []buildconfig.Field{
			{Key: "adapter", Expr: string(id) + "()", Guard: "output"},
			{Key: "output", Expr: buildconfig.Quote(string(mode))},
		},
	}
}

// Descriptors returns the deployment files for id.
func Descriptors(id ID) []Descriptor {
	switch id {
	case Vercel:
		return []Descriptor{{Name: "vercel.json", Content: vercelJSON()}}
	case Netlify:
		return []Descriptor{{Name: "netlify.toml", Content: []byte(netlifyTOML)}}
	default:
		return nil
	}
}

func vercelJSON() []byte {
	doc := struct {
		CleanURLs       bool   `json:"cleanUrls"`
		Framework       string `json:"framework"`
		BuildCommand    string `json:"buildCommand"`
		OutputDirectory string `json:"outputDirectory"`
	}{true, "astro", "lito build", "dist"}
	data, _ := json.MarshalIndent(doc, "", "  ")
	return append(data, '\n')
}

const netlifyTOML = `[build]
  publish = "dist"
  command = "lito build"

[[headers]]
  for = "/*"
  [headers.values]
    X-Frame-Options = "DENY"
    X-XSS-Protection = "1; mode=block"
`

// Result reports what Configure changed.
type Result struct {
	Installed   string
	Patch       buildconfig.Result
	Descriptors []string
}

// Configure installs and wires the adapter for non-static modes and writes
// any missing deployment descriptors. It is safe to call repeatedly: the
// build patch is idempotent and existing descriptors are never overwritten.
// An unrecognized provider is a no-op.
func Configure(ctx context.Context, installer PackageInstaller, workspace string, id ID, mode Mode) (*Result, error) {
	res := &Result{}
	canonical, ok := idNormalizer.Lookup(string(id))
	if !ok {
		if id != "" {
			slog.Debug("Unknown provider, building plain static output", logfields.Provider(string(id)))
		}
		return res, nil
	}
	id = canonical
	log := slog.With(logfields.Provider(string(id)), logfields.Rendering(string(mode)))

	if mode != Static && mode != "" {
		pkg := AdapterPackage(id)
		if err := installer.InstallPackage(ctx, workspace, pkg, false); err != nil {
			return nil, err
		}
		res.Installed = pkg

		path := filepath.Join(workspace, buildconfig.FileName)
		patch, err := buildconfig.ApplyFile(path, AdapterPatch(id, mode))
		switch {
		case errors.Is(err, buildconfig.ErrAnchorNotFound):
			log.Warn("Build configuration has no defineConfig anchor, adapter not wired", logfields.Error(err))
		case err != nil:
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "patch build configuration").
				WithContext("path", path).Build()
		}
		for _, key := range patch.Conflicts {
			log.Warn("Build configuration field kept, adapter value not applied", slog.String("field", key))
		}
		res.Patch = patch
	}

	for _, d := range Descriptors(id) {
		written, err := writeIfAbsent(filepath.Join(workspace, d.Name), d.Content)
		if err != nil {
			return nil, err
		}
		if written {
			res.Descriptors = append(res.Descriptors, d.Name)
		}
	}

	log.Info("Configured provider",
		slog.String("adapter", res.Installed),
		slog.Any("descriptors", res.Descriptors))
	return res, nil
}

func writeIfAbsent(path string, content []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create deployment descriptor").
			WithContext("path", path).Build()
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return false, ferrors.WrapError(err, ferrors.CategoryFileSystem, "write deployment descriptor").
			WithContext("path", path).Build()
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", path, err)
	}
	return true, nil
}
