package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token)
	assert.Equal(t, 10000, cfg.Port)
	assert.Equal(t, "escape_san_antonio.db", cfg.DBPath)
	assert.Equal(t, ".", cfg.AssetDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "/tmp/state.db")
	t.Setenv("ASSET_DIR", "/srv/assets")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/state.db", cfg.DBPath)
	assert.Equal(t, "/srv/assets", cfg.AssetDir)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
