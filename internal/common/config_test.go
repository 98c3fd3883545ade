package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:5000/predict", cfg.Inference.URL)
	assert.Equal(t, "http", cfg.Inference.Transport)
	assert.Equal(t, 60*time.Second, cfg.Inference.Timeout)
	assert.False(t, cfg.Inference.Concurrent)
	assert.Equal(t, "door", cfg.Inference.TargetClass)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Pipeline.DocumentTimeout)
	assert.Equal(t, 150, cfg.Pipeline.PDFDPI)
	assert.Equal(t, 250, cfg.Pipeline.BinaryThreshold)
	assert.Empty(t, cfg.Journal.DBPath)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INFERENCE_URL", "http://model:9000/predict")
	t.Setenv("INFERENCE_TRANSPORT", "ws")
	t.Setenv("INFERENCE_TIMEOUT", "90s")
	t.Setenv("INFERENCE_CONCURRENT", "true")
	t.Setenv("PIPELINE_WORKERS", "8")
	t.Setenv("BINARY_THRESHOLD", "240")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://model:9000/predict", cfg.Inference.URL)
	assert.Equal(t, "ws", cfg.Inference.Transport)
	assert.Equal(t, 90*time.Second, cfg.Inference.Timeout)
	assert.True(t, cfg.Inference.Concurrent)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 240, cfg.Pipeline.BinaryThreshold)
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("PIPELINE_WORKERS", "lots")
	t.Setenv("INFERENCE_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 60*time.Second, cfg.Inference.Timeout)
}

func TestValidateRejectsBadConfig(t *testing.T) {
	base := func() *Config { return LoadConfig() }

	cfg := base()
	cfg.Inference.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Inference.Transport = "grpc"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Pipeline.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Pipeline.BinaryThreshold = 300
	assert.Error(t, cfg.Validate())
}
