package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(24)
	require.NoError(t, err)
	s2, err := GenerateRandomString(24)
	require.NoError(t, err)

	assert.Len(t, s1, 32) // base64 of 24 bytes
	assert.NotEqual(t, s1, s2)
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "samples.csv")
	require.NoError(t, os.WriteFile(file, []byte("1,2,3\n"), 0o600))

	exists, err := PathExists(dir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(file, true)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = PathExists(file, false)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(filepath.Join(dir, "nope"), false)
	require.NoError(t, err)
	assert.False(t, exists)
}
