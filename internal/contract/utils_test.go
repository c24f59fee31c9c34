package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/dealflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		input schema.Classification
	}{
		{"advance", schema.Advance},
		{"regression", schema.Regression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain label whether or not colors are enabled
			assert.Contains(t, GetColorLabel(tt.input), string(tt.input))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetCacheDBFilePath(t *testing.T) {
	path := GetCacheDBFilePath()
	assert.Equal(t, ".dealflow_cache.db", filepath.Base(path))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", ""} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	prefix := filepath.Join(t.TempDir(), "run")
	require.NoError(t, ProcessProfilingConfig(profile, prefix))
	assert.True(t, profile.Enabled)
	assert.Equal(t, prefix, profile.Prefix)

	assert.Error(t, ProcessProfilingConfig(profile, "/does/not/exist/run"))
}
