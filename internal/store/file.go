package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/staffdir/staffdir-backend/internal/metrics"
	"github.com/staffdir/staffdir-backend/internal/model"
)

// employeesSchema is the contract the data file must satisfy before any
// record reaches the query engine. Malformed files fail at load, not at
// query time.
const employeesSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"email": {"type": "string"},
			"department": {"type": "string"},
			"title": {"type": "string"},
			"city": {"type": "string"},
			"age": {"type": "number", "minimum": 0},
			"salary": {"type": "number", "minimum": 0}
		}
	}
}`

// EmployeeSource supplies point-in-time record snapshots to the HTTP layer.
type EmployeeSource interface {
	Snapshot(ctx context.Context) ([]model.Employee, error)
}

// FileSource loads employees from a JSON data file. The decoded snapshot is
// kept in memory and invalidated when the file changes; every Snapshot call
// returns a copy, so a query is never affected by a concurrent reload.
type FileSource struct {
	path    string
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	records []model.Employee
	loaded  bool

	// Collapses concurrent reloads triggered by simultaneous requests
	// after an invalidation into a single file read.
	group singleflight.Group

	watcher *fsnotify.Watcher
}

func NewFileSource(path string, logger *zap.SugaredLogger, m *metrics.Metrics) *FileSource {
	return &FileSource{
		path:    path,
		logger:  logger,
		metrics: m,
	}
}

// Snapshot returns a point-in-time copy of the record set, reloading the
// data file if the cached snapshot was invalidated.
func (s *FileSource) Snapshot(ctx context.Context) ([]model.Employee, error) {
	s.mu.RLock()
	if s.loaded {
		out := make([]model.Employee, len(s.records))
		copy(out, s.records)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	_, err, _ := s.group.Do("reload", func() (interface{}, error) {
		return nil, s.reload(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Employee, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Invalidate discards the cached snapshot; the next Snapshot call rereads
// the data file.
func (s *FileSource) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
}

func (s *FileSource) reload(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read data file %s: %w", s.path, err)
	}

	if err := validateEmployees(data); err != nil {
		return err
	}

	var records []model.Employee
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode data file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordSnapshotReload(ctx)
	}
	if s.logger != nil {
		s.logger.Infow("Employee snapshot loaded", "path", s.path, "records", len(records))
	}
	return nil
}

func validateEmployees(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(employeesSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate data file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("data file does not match schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Watch invalidates the snapshot whenever the data file changes. The parent
// directory is watched rather than the file itself so that editors and
// atomic rename-into-place writes are picked up. Watch returns after
// starting the event loop; cancel ctx to stop it.
func (s *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	s.watcher = watcher

	target := filepath.Clean(s.path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if s.logger != nil {
					s.logger.Infow("Data file changed, invalidating snapshot", "event", event.Op.String())
				}
				s.Invalidate()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if s.logger != nil {
					s.logger.Errorw("Data file watcher error", "error", err)
				}
			}
		}
	}()

	return nil
}

var _ EmployeeSource = (*FileSource)(nil)
