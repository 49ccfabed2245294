package lodestone

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"go.lodestone.dev/lodestone/pkg/lodestone/config"
)

// LoadConfig loads the Lodestone configuration from v.
// A missing config file is not an error, defaults apply. Every call
// returns a fresh Config so reloads never share state.
func LoadConfig(v *viper.Viper) (*config.Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %q: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := config.DefaultConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := config.DefaultConfig

	v.SetDefault("modsConfig", d.ModsConfig)
	v.SetDefault("userDataFolder", d.UserDataFolder)
	v.SetDefault("marker", d.Marker)
	v.SetDefault("binaryExt", d.BinaryExt)
	v.SetDefault("searchDepth", d.SearchDepth)
	v.SetDefault("resolveCacheTTL", d.ResolveCacheTTL)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("debug", d.Debug)

	v.SetDefault("api.enabled", d.API.Enabled)
	v.SetDefault("api.config.bind", d.API.Config.Bind)

	v.SetDefault("telemetry.metrics.enabled", d.Telemetry.Metrics.Enabled)
	v.SetDefault("telemetry.metrics.endpoint", d.Telemetry.Metrics.Endpoint)
	v.SetDefault("telemetry.tracing.enabled", d.Telemetry.Tracing.Enabled)
	v.SetDefault("telemetry.tracing.endpoint", d.Telemetry.Tracing.Endpoint)
}
