package baseline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// FileStore is a Store backed by a JSON document that an external training
// process rewrites periodically. Changes are picked up via fsnotify without
// interrupting concurrent scoring reads.
type FileStore struct {
	*MemoryStore
	path string
	log  *logrus.Logger
}

// NewFileStore loads baselines from path and returns a store ready for
// lookups. Call Watch to keep it in sync with the file.
func NewFileStore(path string, log *logrus.Logger) (*FileStore, error) {
	fs := &FileStore{MemoryStore: NewMemoryStore(), path: path, log: log}
	if err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Reload re-reads the baseline file and swaps the full set atomically. A
// malformed file leaves the previous set in place.
func (fs *FileStore) Reload() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return fmt.Errorf("read baselines: %w", err)
	}
	var baselines []types.UserBaseline
	if err := json.Unmarshal(data, &baselines); err != nil {
		return fmt.Errorf("parse baselines: %w", err)
	}
	fs.replaceAll(baselines)
	return nil
}

// Watch blocks, reloading the store whenever the baseline file is rewritten,
// until ctx is canceled. Reload failures are logged and the previous
// baselines stay in effect.
func (fs *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent directory: trainers typically replace the file via
	// rename, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(fs.path)); err != nil {
		return err
	}

	fs.log.WithField("path", fs.path).Info("Watching baseline file")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != fs.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := fs.Reload(); err != nil {
				fs.log.WithError(err).Warn("Baseline reload failed, keeping previous set")
				continue
			}
			fs.log.WithField("baselines", fs.Len()).Info("Baselines reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fs.log.WithError(err).Error("Baseline watcher error")
		}
	}
}
