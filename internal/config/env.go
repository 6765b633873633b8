package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/lito/internal/foundation/errors"
)

// envFiles are loaded in order. Variables already set in the process
// environment, or by an earlier file, are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfigParse, "malformed environment file").
				WithContext("path", path).Build()
		}
		slog.Debug("Loaded environment file", slog.String("path", path))
	}
	return nil
}
