package lodestone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.lodestone.dev/lodestone/pkg/lodestone/config"
)

// userDataArg is the process argument overriding the user data
// folder, matched case-insensitively: -userDataFolder=<path>
const userDataArg = "userDataFolder"

// defaultFolderName is the product folder below the platform user
// config dir.
const defaultFolderName = "Lodestone"

// UserDataFolder determines the user data folder of the game.
// The process argument wins over the configured override, which wins
// over the platform default.
func UserDataFolder(cfg *config.Config, args []string) (string, error) {
	if path, ok := userDataFromArgs(args); ok {
		return filepath.Abs(path)
	}
	if cfg != nil && cfg.UserDataFolder != "" {
		return filepath.Abs(cfg.UserDataFolder)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error determining user config dir: %w", err)
	}
	return filepath.Join(base, defaultFolderName), nil
}

// userDataFromArgs extracts the first -userDataFolder=<path> argument.
// The argument name is matched case-insensitively and may use one or
// two dashes.
func userDataFromArgs(args []string) (string, bool) {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		key, value, ok := strings.Cut(arg, "=")
		if !ok || value == "" {
			continue
		}
		key = strings.TrimLeft(key, "-")
		if strings.EqualFold(key, userDataArg) {
			return value, true
		}
	}
	return "", false
}
