package config

import (
	"fmt"
	"log/slog"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
	"git.home.luguber.info/inful/lito/internal/foundation/normalization"
	"git.home.luguber.info/inful/lito/internal/provider"
	"git.home.luguber.info/inful/lito/internal/toolchain"
)

var (
	levelNormalizer = normalization.NewNormalizer(map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}, slog.LevelInfo)
	formatNormalizer = normalization.NewNormalizer(map[string]string{
		"text": "text",
		"json": "json",
	}, "text")
)

// Validate normalizes enumerations in place and rejects invalid values.
// An unrecognized provider is allowed; the pipeline treats it as none.
func (c *Config) Validate() error {
	mode, err := provider.ParseMode(c.Rendering)
	if err != nil {
		return invalid("rendering", err)
	}
	c.Rendering = string(mode)

	tc, err := toolchain.ParseID(c.Toolchain)
	if err != nil {
		return invalid("toolchain", err)
	}
	c.Toolchain = string(tc)

	if id, ok := provider.ParseID(c.Provider); ok {
		c.Provider = string(id)
	}

	if _, err := levelNormalizer.NormalizeWithError(c.Log.Level); err != nil {
		return invalid("log.level", err)
	}
	format, err := formatNormalizer.NormalizeWithError(c.Log.Format)
	if err != nil {
		return invalid("log.format", err)
	}
	c.Log.Format = format

	switch {
	case c.Dev.Port < 0 || c.Dev.Port > 65535:
		return invalid("dev.port", fmt.Errorf("port %d out of range", c.Dev.Port))
	case c.Dev.Debounce < 0:
		return invalid("dev.debounce", fmt.Errorf("negative duration %s", c.Dev.Debounce))
	case c.Dev.ResyncInterval < 0:
		return invalid("dev.resync_interval", fmt.Errorf("negative duration %s", c.Dev.ResyncInterval))
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return levelNormalizer.Normalize(c.Log.Level)
}

func invalid(field string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid "+field).
		WithContext("field", field).
		Build()
}
