package ioc

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nnlgsakib/DataFee-oracle/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigShippedExample(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(file), "..", "configs", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("example config not found: %v", err)
	}

	cfg, err := InitConfig(ConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, app.BackendLog, cfg.Registry.Backend)
	require.Len(t, cfg.Endpoints.Items, 4)
	assert.Equal(t, "ethereum", cfg.Endpoints.Items[1].Selector)
	assert.Equal(t, "price", cfg.Endpoints.Items[3].Selector)
}
