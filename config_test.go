package actiongate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/config/engine.yaml"
	content := `
worker:
  workers: 2
dispatch:
  maxRetries: 5
`
	require.NoError(t, afs.New().Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)))

	config, err := LoadConfig(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Worker.Workers)
	assert.Equal(t, 5, config.Dispatch.MaxRetries)
	// Unset fields keep their defaults.
	assert.Equal(t, 2*time.Second, config.Dispatch.RetryDelay())
	assert.Equal(t, time.Minute, config.Sweeper.Interval())
}

func TestLoadConfigInvalid(t *testing.T) {
	ctx := context.Background()
	URL := "mem://localhost/config/broken.yaml"
	content := "worker:\n  workers: 0\n"
	require.NoError(t, afs.New().Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(content)))

	_, err := LoadConfig(ctx, URL)
	require.Error(t, err)
}

func TestConfigValidateDefaults(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}
