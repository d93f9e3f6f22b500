package config

import "errors"

// ErrInvalidConfig indicates a configuration value is out of range or missing.
var ErrInvalidConfig = errors.New("invalid config")
