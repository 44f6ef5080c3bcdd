package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/panelctl/panelctl/pkg/events"
	"github.com/panelctl/panelctl/pkg/util"
	"go.uber.org/zap"
)

// FileStore keeps values as a JSON object in a single 0600 file.
type FileStore struct {
	path string
	bus  *events.Bus

	mu sync.Mutex
	// last is what this process believes is on disk. Watch diffs against
	// it so our own writes do not come back as external changes.
	last map[string]string
}

// NewFileStore opens the store at path, creating nothing until the first
// write.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, bus: events.NewBus()}

	values, err := s.readForWrite()
	if err != nil {
		return nil, err
	}
	s.last = values
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("unable to read session file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w %s: %s", ErrCorrupt, s.path, err)
	}
	return values, nil
}

// readForWrite is read, except an undecodable file counts as empty so the
// next write replaces it.
func (s *FileStore) readForWrite() (map[string]string, error) {
	values, err := s.read()
	if errors.Is(err, ErrCorrupt) {
		zap.S().Warnf("Ignoring unreadable session data: %s", err)
		return make(map[string]string), nil
	}
	return values, err
}

func (s *FileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(s.path, data, 0600)
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	values, err := s.readForWrite()
	if err == nil {
		values[key] = value
		err = s.write(values)
	}
	if err == nil {
		s.last = values
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	zap.S().Debugf("Stored %q in %s", key, s.path)
	return publish(ctx, s.bus, events.Event{Key: key, Value: value})
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	values, err := s.readForWrite()
	_, found := values[key]
	if err == nil && found {
		delete(values, key)
		err = s.write(values)
	}
	if err == nil {
		s.last = values
	}
	s.mu.Unlock()
	if err != nil || !found {
		return err
	}

	zap.S().Debugf("Removed %q from %s", key, s.path)
	return publish(ctx, s.bus, events.Event{Key: key, Deleted: true})
}

func (s *FileStore) Subscribe(h events.Handler) func() {
	return s.bus.Subscribe(h)
}

// Watch follows the session file for changes made by other processes and
// publishes them as external events until ctx is done. ready, if non-nil,
// is closed once the watcher is in place.
func (s *FileStore) Watch(ctx context.Context, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to start session watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic writes replace the file, which drops a
	// watch on the file itself.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if err := s.reload(ctx); err != nil {
				zap.S().Warnf("Session file changed but could not be applied: %s", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			zap.S().Debugf("Session watcher error: %s", err)
		}
	}
}

func (s *FileStore) reload(ctx context.Context) error {
	s.mu.Lock()
	current, err := s.read()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changes := diff(s.last, current)
	s.last = current
	s.mu.Unlock()

	var perr error
	for _, ev := range changes {
		ev.Source = events.SourceExternal
		if err := publish(ctx, s.bus, ev); err != nil {
			perr = err
		}
	}
	return perr
}

func diff(old, cur map[string]string) []events.Event {
	var out []events.Event
	for k, v := range cur {
		if ov, ok := old[k]; !ok || ov != v {
			out = append(out, events.Event{Key: k, Value: v})
		}
	}
	for k := range old {
		if _, ok := cur[k]; !ok {
			out = append(out, events.Event{Key: k, Deleted: true})
		}
	}
	return out
}
