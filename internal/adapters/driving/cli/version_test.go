package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	old := version
	version = "1.2.3"
	defer func() { version = old }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "flpipeline version 1.2.3\n", out)
}

func TestVersionCmd_SkipsServices(t *testing.T) {
	_, ok := versionCmd.Annotations[annotationNoServices]
	assert.True(t, ok)
}
