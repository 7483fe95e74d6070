package repositories

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"alfredoptarigan/resume-scorer/internal/scoring"
)

// ParameterStore persists the parameter configuration record.
type ParameterStore interface {
	Load() ([]scoring.Parameter, error)
	Save(params []scoring.Parameter) error
	Upsert(p scoring.Parameter) error
	Delete(key string) error
}

type fileParameterStore struct {
	mu   sync.Mutex
	path string
}

// NewParameterStore stores the record as JSON at path. A missing file reads
// as an empty configuration.
func NewParameterStore(path string) ParameterStore {
	return &fileParameterStore{path: path}
}

func (s *fileParameterStore) Load() ([]scoring.Parameter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *fileParameterStore) load() ([]scoring.Parameter, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters: %w", err)
	}

	params, err := scoring.DecodeRecord(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return params, nil
}

func (s *fileParameterStore) Save(params []scoring.Parameter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(params)
}

// save writes to a temp file in the same directory and renames it over the
// record, so readers never see a partial file.
func (s *fileParameterStore) save(params []scoring.Parameter) error {
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.Key]; dup {
			return fmt.Errorf("duplicate parameter key %q", p.Key)
		}
		seen[p.Key] = struct{}{}
	}

	var buf bytes.Buffer
	if err := scoring.EncodeRecord(&buf, params); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create parameters directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".parameters-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write parameters: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync parameters: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close parameters file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace parameters file: %w", err)
	}
	return nil
}

// Upsert replaces the parameter with the same key in place, or appends it.
func (s *fileParameterStore) Upsert(p scoring.Parameter) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range params {
		if params[i].Key == p.Key {
			params[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		params = append(params, p)
	}
	return s.save(params)
}

func (s *fileParameterStore) Delete(key string) error {
	key = scoring.NormalizeKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := s.load()
	if err != nil {
		return err
	}

	kept := params[:0]
	for _, p := range params {
		if p.Key != key {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(params) {
		return fmt.Errorf("parameter %q: %w", key, ErrNotFound)
	}
	return s.save(kept)
}
