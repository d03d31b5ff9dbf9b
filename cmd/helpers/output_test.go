package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	document := []byte(`{"token": "t"}`)

	require.NoError(t, WriteOutput(path, document))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, document, got)
}

func TestWriteOutputOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, WriteOutput(path, []byte("fresh")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestWriteOutputBadPath(t *testing.T) {
	err := WriteOutput(filepath.Join(t.TempDir(), "missing", "creds.json"), []byte("x"))
	require.Error(t, err)
}
