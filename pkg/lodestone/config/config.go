package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.lodestone.dev/lodestone/pkg/internal/api"
	"go.lodestone.dev/lodestone/pkg/mods/modinfo"
	"go.lodestone.dev/lodestone/pkg/mods/resolve"
)

// DefaultConfig is a default Config.
var DefaultConfig = Config{
	Marker:          modinfo.FileName,
	BinaryExt:       resolve.DefaultExt,
	SearchDepth:     resolve.DefaultMaxDepth,
	ResolveCacheTTL: resolve.DefaultCacheTTL,
	Watch:           true,
	API: API{
		Enabled: false,
		Config:  api.DefaultConfig,
	},
	Telemetry: Telemetry{
		Metrics: TelemetryMetrics{
			Enabled:  false,
			Endpoint: "http://localhost:4317",
		},
		Tracing: TelemetryTracing{
			Enabled:  false,
			Endpoint: "http://localhost:4317",
		},
	},
}

// Config is the root configuration of Lodestone.
type Config struct {
	// ModsConfig is the path of the game's mod configuration file.
	// If empty, mods.ini inside the user data folder is used.
	ModsConfig string `json:"modsConfig,omitempty" yaml:"modsConfig,omitempty"`
	// UserDataFolder overrides the user data folder of the game.
	// The -userDataFolder=<path> process argument takes precedence.
	UserDataFolder string `json:"userDataFolder,omitempty" yaml:"userDataFolder,omitempty"`
	// Marker is the file name marking a directory as a mod.
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`
	// BinaryExt is the file extension of loadable binaries.
	BinaryExt string `json:"binaryExt,omitempty" yaml:"binaryExt,omitempty"`
	// SearchDepth caps how deep the dependency resolver descends
	// into a mod directory.
	SearchDepth int `json:"searchDepth,omitempty" yaml:"searchDepth,omitempty"`
	// ResolveCacheTTL is how long resolver results are cached.
	ResolveCacheTTL time.Duration `json:"resolveCacheTTL,omitempty" yaml:"resolveCacheTTL,omitempty"`
	// Watch logs when the mod configuration file drifts from the
	// loaded state. Changes apply on the next launch.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`
	// See API struct.
	API API `json:"api,omitempty" yaml:"api,omitempty"`
	// Telemetry configuration for metrics and tracing.
	Telemetry Telemetry `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
	// Debug enables verbose logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// API is the configuration of the debug API.
type API struct {
	Enabled bool       `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Config  api.Config `json:"config,omitempty" yaml:"config,omitempty"`
}

// Telemetry configuration for metrics and tracing.
type Telemetry struct {
	Metrics TelemetryMetrics `yaml:"metrics,omitempty" json:"metrics,omitempty"`
	Tracing TelemetryTracing `yaml:"tracing,omitempty" json:"tracing,omitempty"`
}

// TelemetryMetrics configures OpenTelemetry metrics collection.
type TelemetryMetrics struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// TelemetryTracing configures OpenTelemetry trace collection.
type TelemetryTracing struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// Validate validates the Config.
func (c *Config) Validate() (warns []error, errs []error) {
	e := func(m string, args ...any) { errs = append(errs, fmt.Errorf(m, args...)) }
	w := func(m string, args ...any) { warns = append(warns, fmt.Errorf(m, args...)) }
	if c == nil {
		e("config must not be nil")
		return
	}

	if strings.TrimSpace(c.Marker) == "" {
		e("marker file name must not be empty")
	} else if filepath.Base(c.Marker) != c.Marker {
		e("marker %q must be a plain file name without path separators", c.Marker)
	}

	if c.BinaryExt == "" {
		e("binaryExt must not be empty")
	} else if !strings.HasPrefix(c.BinaryExt, ".") {
		e("binaryExt %q must start with a dot", c.BinaryExt)
	}

	if c.SearchDepth < 1 {
		e("searchDepth must be at least 1, got %d", c.SearchDepth)
	} else if c.SearchDepth > 32 {
		w("searchDepth %d is unusually deep, scans may be slow", c.SearchDepth)
	}

	if c.ModsConfig != "" && !strings.EqualFold(filepath.Ext(c.ModsConfig), ".ini") {
		w("modsConfig %q does not end in .ini", c.ModsConfig)
	}

	if c.Telemetry.Metrics.Enabled && c.Telemetry.Metrics.Endpoint == "" {
		e("telemetry metrics endpoint must not be empty when metrics are enabled")
	}
	if c.Telemetry.Tracing.Enabled && c.Telemetry.Tracing.Endpoint == "" {
		e("telemetry tracing endpoint must not be empty when tracing is enabled")
	}

	prefix := func(p string, errs []error) (pErrs []error) {
		for _, err := range errs {
			pErrs = append(pErrs, fmt.Errorf("%s: %w", p, err))
		}
		return
	}

	if c.API.Enabled {
		warns2, errs2 := c.API.Config.Validate()
		warns = append(warns, prefix("api", warns2)...)
		errs = append(errs, prefix("api", errs2)...)
	}
	return
}
