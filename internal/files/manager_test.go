package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macuschedule/internal/dataprocessing"
)

func TestManager_ReadSourceFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Soccer.csv"), []byte("Date\n1/1/2025\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Golf.csv"), []byte("Dates\n"), 0644))

	sources, err := NewManager(dir, 0).ReadSourceFiles([]string{"Soccer.csv", filepath.Join(dir, "Golf.csv")})

	require.NoError(t, err)
	assert.Equal(t, []dataprocessing.SourceFile{
		{Name: "Soccer.csv", Content: []byte("Date\n1/1/2025\n")},
		{Name: "Golf.csv", Content: []byte("Dates\n")},
	}, sources)
}

func TestManager_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.csv")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	tests := []struct {
		name    string
		limit   int64
		path    string
		wantErr string
	}{
		{"no limit", 0, path, ""},
		{"within limit", 10, path, ""},
		{"over limit", 9, path, "limit is 9"},
		{"missing file", 10, filepath.Join(dir, "missing.csv"), "failed to stat"},
		{"missing file without limit", 0, filepath.Join(dir, "missing.csv"), "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewManager("", tt.limit).ReadFile(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0123456789", string(data))
		})
	}
}
