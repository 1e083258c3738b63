package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docsflow/internal/foundation/errors"
)

// envFiles are loaded in order; a variable set by an earlier file or by the
// process environment is never overridden.
var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env and .env.local from the working directory when they
// exist. Missing files are not an error.
func LoadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to load environment file").
				WithContext("path", name).
				Build()
		}
	}
	return nil
}
