package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const employeesFixture = `[
	{"id": "e1", "name": "Bob", "email": "bob@corp.test", "department": "Engineering", "title": "Backend Engineer", "city": "Oslo", "age": 30, "salary": 90000},
	{"id": "e2", "name": "Amy", "email": "amy@corp.test", "department": "Design", "title": "Product Designer", "city": "Berlin", "age": 25, "salary": 78000}
]`

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_Snapshot(t *testing.T) {
	path := writeDataFile(t, employeesFixture)
	source := NewFileSource(path, zap.NewNop().Sugar(), nil)

	records, err := source.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Bob", records[0].Name)
	assert.Equal(t, 25.0, records[1].Age)
}

func TestFileSource_SnapshotIsACopy(t *testing.T) {
	path := writeDataFile(t, employeesFixture)
	source := NewFileSource(path, zap.NewNop().Sugar(), nil)
	ctx := context.Background()

	first, err := source.Snapshot(ctx)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := source.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", second[0].Name)
}

func TestFileSource_InvalidateReloads(t *testing.T) {
	path := writeDataFile(t, employeesFixture)
	source := NewFileSource(path, zap.NewNop().Sugar(), nil)
	ctx := context.Background()

	records, err := source.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "e3", "name": "Cid"}]`), 0o644))

	// Cached snapshot is still served until invalidation.
	records, err = source.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	source.Invalidate()
	records, err = source.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Cid", records[0].Name)
}

func TestFileSource_SchemaViolations(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"not an array", `{"id": "e1"}`},
		{"missing id", `[{"name": "Bob"}]`},
		{"empty id", `[{"id": "", "name": "Bob"}]`},
		{"age wrong type", `[{"id": "e1", "name": "Bob", "age": "thirty"}]`},
		{"negative salary", `[{"id": "e1", "name": "Bob", "salary": -1}]`},
		{"invalid json", `[{`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDataFile(t, tc.content)
			source := NewFileSource(path, zap.NewNop().Sugar(), nil)

			_, err := source.Snapshot(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), zap.NewNop().Sugar(), nil)
	_, err := source.Snapshot(context.Background())
	assert.Error(t, err)
}
