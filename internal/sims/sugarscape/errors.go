package sugarscape

import "errors"

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("sugarscape: invalid configuration")

// ConfigurationError is returned by New when the world cannot be built from
// the requested parameters. No world exists when it is returned.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "sugarscape: " + e.Field + ": " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
