package jsonfile

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/careerpath-hub/career-path-builder/internal/domain/progress"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// ProgressStore keeps the progress record in a single JSON object:
// account id -> career id -> skill name -> completed.
type ProgressStore struct {
	path string
	opts options
	mu   sync.Mutex
}

var _ progress.Repository = (*ProgressStore)(nil)

// NewProgressStore creates a store backed by dataDir/progress.json.
func NewProgressStore(dataDir string, opts ...Option) *ProgressStore {
	return NewProgressStoreAt(filepath.Join(dataDir, ProgressFile), opts...)
}

// NewProgressStoreAt creates a store backed by the given file.
func NewProgressStoreAt(path string, opts ...Option) *ProgressStore {
	o := buildOptions(opts)
	o.log = o.log.With(logger.Component("jsonfile.progress"))
	return &ProgressStore{path: path, opts: o}
}

// Path returns the backing file.
func (s *ProgressStore) Path() string {
	return s.path
}

// Load returns the whole record. A missing or corrupt file yields an empty record.
func (s *ProgressStore) Load(ctx context.Context) (progress.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ProgressStore) load() (progress.Record, error) {
	var r progress.Record
	if _, err := readJSON(s.path, &r); err != nil {
		if !isCorrupt(err) {
			return nil, err
		}
		s.opts.log.Warn("progress file is corrupt, treating as empty",
			logger.String("path", s.path), logger.Err(err))
		r = nil
	}
	if r == nil {
		r = make(progress.Record)
	}
	return r, nil
}

// Save overwrites the file with the given record.
func (s *ProgressStore) Save(ctx context.Context, record progress.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record == nil {
		record = make(progress.Record)
	}
	return writeJSON(s.path, record)
}

// Set writes one completion flag and rewrites the file.
func (s *ProgressStore) Set(ctx context.Context, accountID, careerID, skillName string, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load()
	if err != nil {
		return err
	}
	r.Set(accountID, careerID, skillName, completed)
	return writeJSON(s.path, r)
}

// GetForAccount returns one account's progress; empty when there is none.
func (s *ProgressStore) GetForAccount(ctx context.Context, accountID string) (progress.AccountProgress, error) {
	r, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return r.ForAccount(accountID), nil
}
