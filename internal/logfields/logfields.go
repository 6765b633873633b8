package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyWorkspace  = "workspace"
	KeyTemplate   = "template"
	KeyProvider   = "provider"
	KeyRendering  = "rendering"
	KeyToolchain  = "toolchain"
	KeyCommand    = "command"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Workspace(p string) slog.Attr     { return slog.String(KeyWorkspace, p) }
func Template(id string) slog.Attr     { return slog.String(KeyTemplate, id) }
func Provider(id string) slog.Attr     { return slog.String(KeyProvider, id) }
func Rendering(mode string) slog.Attr  { return slog.String(KeyRendering, mode) }
func Toolchain(name string) slog.Attr  { return slog.String(KeyToolchain, name) }
func Command(argv []string) slog.Attr  { return slog.Any(KeyCommand, argv) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
