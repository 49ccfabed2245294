package lodestone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"go.lodestone.dev/lodestone/pkg/internal/configs"
	"go.lodestone.dev/lodestone/pkg/lodestone"
	"go.lodestone.dev/lodestone/pkg/lodestone/config"
)

// loadEmbedded runs embedded config bytes through the regular load
// path, like a user who redirected `lodestone config` to a file.
func loadEmbedded(t *testing.T, raw []byte) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lodestone.yml")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := lodestone.LoadConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestEmbeddedFullConfigMatchesDefaults(t *testing.T) {
	cfg := loadEmbedded(t, configs.DefaultConfigBytes)
	assert.Equal(t, config.DefaultConfig, *cfg)

	warns, errs := cfg.Validate()
	assert.Empty(t, warns)
	assert.Empty(t, errs)
}

func TestEmbeddedMinimalConfigMatchesDefaults(t *testing.T) {
	cfg := loadEmbedded(t, configs.MinimalConfigBytes)
	assert.Equal(t, config.DefaultConfig, *cfg)
}

func TestEmbeddedConfigsAreValidYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(configs.DefaultConfigBytes, &doc))
	assert.Equal(t, "ModInfo.xml", doc["marker"])

	doc = nil
	require.NoError(t, yaml.Unmarshal(configs.MinimalConfigBytes, &doc))
	assert.Empty(t, doc)
}
