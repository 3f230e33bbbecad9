package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Source holds the reasoning-service API key behind an explicit reload
// boundary. Callers read through Key(); nothing in the process keeps its own
// copy of the credential.
type Source struct {
	mu   sync.RWMutex
	key  string
	path string
}

// NewStatic returns a source with a fixed key and no backing file.
func NewStatic(key string) *Source {
	return &Source{key: strings.TrimSpace(key)}
}

// NewFromFile loads the key from path. Reload re-reads the same path.
func NewFromFile(path string) (*Source, error) {
	source := &Source{path: strings.TrimSpace(path)}
	if err := source.Reload(); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *Source) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Reload re-reads the backing file. A source without a backing file keeps
// its current key.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read api key file: %w", err)
	}
	s.mu.Lock()
	s.key = strings.TrimSpace(string(data))
	s.mu.Unlock()
	return nil
}

// Watch reloads the key whenever the backing file changes. It blocks until
// ctx is cancelled and is a no-op for sources without a backing file.
func (s *Source) Watch(ctx context.Context, logger *slog.Logger) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create credential watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace the file rather than write in place.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch credential dir: %w", err)
	}
	logger.Info("credential watcher started", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			logger.Info("credential watcher stopped")
			return nil
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("credential reload failed", "error", err)
				continue
			}
			logger.Info("credential reloaded", "path", s.path)
		case watchErr := <-watcher.Errors:
			if watchErr != nil {
				logger.Error("credential watcher error", "error", watchErr)
			}
		}
	}
}
