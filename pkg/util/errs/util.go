// Package errs holds error values shared across the mod pipeline.
package errs

import (
	"errors"
)

// ErrMissingConfig marks a mod configuration file that does not
// exist. Callers treat it as "nothing to load", not as a failure.
var ErrMissingConfig = errors.New("config is missing")
