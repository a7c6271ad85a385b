package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFilePath is the file store location used when the config does
// not name one.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ethgas", "history.jsonl")
	}
	return filepath.Join(home, ".ethgas", "history.jsonl")
}

// FileStore is an append-only JSON-lines file store guarded by a mutex.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store at path, creating the parent
// directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Append(_ context.Context, sample Sample) error {
	line, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("failed to encode sample: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append sample: %w", err)
	}
	return nil
}

func (s *FileStore) Recent(_ context.Context, network string, limit int) ([]Sample, error) {
	if limit <= 0 {
		return nil, nil
	}

	samples, err := s.read(network)
	if err != nil {
		return nil, err
	}

	// File order is ascending; return the tail, newest first.
	if len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	out := make([]Sample, 0, len(samples))
	for i := len(samples) - 1; i >= 0; i-- {
		out = append(out, samples[i])
	}
	return out, nil
}

func (s *FileStore) Since(_ context.Context, network string, since time.Time) ([]Sample, error) {
	samples, err := s.read(network)
	if err != nil {
		return nil, err
	}

	out := make([]Sample, 0, len(samples))
	for _, sample := range samples {
		if !sample.Timestamp.Before(since) {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (s *FileStore) Clear(_ context.Context, network string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if network == "" {
		if err := os.Truncate(s.path, 0); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		return nil
	}

	kept, err := s.readLocked("")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to rewrite history: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, sample := range kept {
		if sample.Network == network {
			continue
		}
		line, err := json.Marshal(sample)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to encode sample: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			f.Close()
			return fmt.Errorf("failed to rewrite history: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to rewrite history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to rewrite history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(network string) ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(network)
}

func (s *FileStore) readLocked(network string) ([]Sample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var samples []Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sample Sample
		if err := json.Unmarshal(line, &sample); err != nil {
			return nil, fmt.Errorf("malformed history entry at %s:%d: %w", s.path, lineNo, err)
		}
		if network != "" && sample.Network != network {
			continue
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return samples, nil
}
