package quiescent

import "errors"

var (
	ErrMissingConfiguration = errors.New("missing configuration")
)

type MissingConfigurationError struct {
	Key string
}

func (e MissingConfigurationError) Error() string {
	return "configuration missing entry for: " + e.Key
}

func (e MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}
