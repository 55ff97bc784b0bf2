package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFileFor(t *testing.T) {
	assert.Equal(t, filepath.Join("project", ".env"), EnvFileFor(filepath.Join("project", ".flpipeline.toml")))
	assert.Equal(t, ".env", EnvFileFor(".flpipeline.toml"))
}

func TestLoadEnvFile_MissingIsFine(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnvFile_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"FLPIPELINE_TEST_FROM_FILE=file-value\nFLPIPELINE_TEST_PRESET=file-value\n",
	), 0600))

	t.Setenv("FLPIPELINE_TEST_PRESET", "env-value")
	t.Setenv("FLPIPELINE_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("FLPIPELINE_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "file-value", os.Getenv("FLPIPELINE_TEST_FROM_FILE"))
	assert.Equal(t, "env-value", os.Getenv("FLPIPELINE_TEST_PRESET"))
}
