// Package jsonfile implements the account and progress stores on top of
// human-readable JSON files. Each save rewrites the whole file atomically.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
	"github.com/careerpath-hub/career-path-builder/pkg/timeutil"
)

// Default file names inside the data directory.
const (
	AccountsFile = "users.json"
	ProgressFile = "progress.json"
)

// Option configures a store.
type Option func(*options)

type options struct {
	log   *logger.Logger
	clock timeutil.Clock
}

// WithLogger sets the logger used to report corrupt files.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the clock used to stamp new records.
func WithClock(c timeutil.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logger.Nop(), clock: timeutil.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// readJSON decodes path into v. It reports false when the file does not
// exist or is empty. Undecodable content is returned as
// shared.ErrPersistenceCorrupt.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("jsonfile: read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", shared.ErrPersistenceCorrupt, path, err)
	}
	return true, nil
}

// writeJSON replaces path with the indented encoding of v. The data is
// written to a temporary file in the same directory and renamed over the
// target, so readers never observe a partial file.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", path, err)
	}
	committed = true
	return nil
}

// isCorrupt reports whether err came from undecodable file content.
func isCorrupt(err error) bool {
	return errors.Is(err, shared.ErrPersistenceCorrupt)
}
