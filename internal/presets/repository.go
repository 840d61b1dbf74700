package presets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists presets to a single JSON file. Writes go through a
// temp file and an atomic rename, so a crash mid-write never leaves a
// truncated presets file behind.
type Repository struct {
	path   string
	logger *zap.SugaredLogger

	mu      sync.Mutex
	presets []Preset
	loaded  bool
}

func NewRepository(path string, logger *zap.SugaredLogger) *Repository {
	return &Repository{
		path:   path,
		logger: logger,
	}
}

// List returns all presets in stored order.
func (r *Repository) List(ctx context.Context) ([]Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	out := make([]Preset, len(r.presets))
	copy(out, r.presets)
	return out, nil
}

// Get returns the preset with the given ID.
func (r *Repository) Get(ctx context.Context, id string) (Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return Preset{}, err
	}

	for _, p := range r.presets {
		if p.ID == id {
			return p, nil
		}
	}
	return Preset{}, ErrNotFound
}

// Create validates and stores a new preset, assigning its ID and timestamps.
func (r *Repository) Create(ctx context.Context, p Preset) (Preset, error) {
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return Preset{}, err
	}

	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.presets = append(r.presets, p)
	if err := r.save(); err != nil {
		r.presets = r.presets[:len(r.presets)-1]
		return Preset{}, err
	}

	if r.logger != nil {
		r.logger.Infow("Preset created", "id", p.ID, "name", p.Name)
	}
	return p, nil
}

// Update replaces the caller-supplied fields of an existing preset.
func (r *Repository) Update(ctx context.Context, id string, p Preset) (Preset, error) {
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return Preset{}, err
	}

	for i, existing := range r.presets {
		if existing.ID != id {
			continue
		}

		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = time.Now().UTC()

		prev := r.presets[i]
		r.presets[i] = p
		if err := r.save(); err != nil {
			r.presets[i] = prev
			return Preset{}, err
		}

		if r.logger != nil {
			r.logger.Infow("Preset updated", "id", p.ID, "name", p.Name)
		}
		return p, nil
	}
	return Preset{}, ErrNotFound
}

// Delete removes a preset by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(); err != nil {
		return err
	}

	for i, existing := range r.presets {
		if existing.ID != id {
			continue
		}

		removed := make([]Preset, 0, len(r.presets)-1)
		removed = append(removed, r.presets[:i]...)
		removed = append(removed, r.presets[i+1:]...)

		prev := r.presets
		r.presets = removed
		if err := r.save(); err != nil {
			r.presets = prev
			return err
		}

		if r.logger != nil {
			r.logger.Infow("Preset deleted", "id", id)
		}
		return nil
	}
	return ErrNotFound
}

// ensureLoaded lazily reads the presets file. A missing file is an empty
// repository, not an error. Callers must hold r.mu.
func (r *Repository) ensureLoaded() error {
	if r.loaded {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.presets = []Preset{}
			r.loaded = true
			return nil
		}
		return fmt.Errorf("read presets file %s: %w", r.path, err)
	}

	var presets []Preset
	if err := json.Unmarshal(data, &presets); err != nil {
		return fmt.Errorf("decode presets file %s: %w", r.path, err)
	}

	r.presets = presets
	r.loaded = true
	return nil
}

// save writes the full preset list atomically. Callers must hold r.mu.
func (r *Repository) save() error {
	data, err := json.MarshalIndent(r.presets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create presets directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "presets-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write presets: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync presets: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("replace presets file: %w", err)
	}
	return nil
}
