// Package configs holds the default configuration files shipped
// with the lodestone command.
package configs

import _ "embed"

// DefaultConfigBytes is the full default config file with all
// options documented.
//
//go:embed lodestone.yml
var DefaultConfigBytes []byte

// MinimalConfigBytes is an empty config relying on all defaults.
//
//go:embed minimal.yml
var MinimalConfigBytes []byte
