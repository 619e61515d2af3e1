package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// File appends results as JSON lines to a single file.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile opens a JSON-lines store at path.
// If path is empty, defaults to ~/.config/luxbin/sessions.jsonl
func NewFile(path string) (*File, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStore, err, "get home dir")
		}
		path = filepath.Join(home, ".config", "luxbin", "sessions.jsonl")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "create store dir")
	}
	return &File{path: path}, nil
}

func (s *File) Record(ctx context.Context, r entanglement.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := json.Marshal(r)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "marshal session %s", r.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "open %s", s.path)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeStore, err, "append session %s", r.ID)
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeStore, err, "close %s", s.path)
	}
	return nil
}

func (s *File) List(ctx context.Context, limit int) ([]entanglement.Result, error) {
	all, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return tail(all, limit), nil
}

func (s *File) Get(ctx context.Context, id string) (entanglement.Result, error) {
	all, err := s.readAll(ctx)
	if err != nil {
		return entanglement.Result{}, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return entanglement.Result{}, notFound(id)
}

func (s *File) readAll(ctx context.Context) ([]entanglement.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.ErrCodeStore, err, "open %s", s.path)
	}
	defer f.Close()

	var results []entanglement.Result
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var r entanglement.Result
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return nil, errs.Wrap(errs.ErrCodeStore, err, "%s:%d", s.path, line)
		}
		results = append(results, r)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStore, err, "read %s", s.path)
	}
	return results, nil
}

func (s *File) Close() error { return nil }

// Path returns the file backing the store.
func (s *File) Path() string {
	return s.path
}

var _ Store = (*File)(nil)
