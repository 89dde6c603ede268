package match

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyFinished    = errors.New("match already finished")
	ErrAlreadyInitialized = errors.New("match already initialized")
	ErrAlreadyStarted     = errors.New("match already started")
	ErrNotInitialized     = errors.New("match not initialized")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchInProgress    = errors.New("match still in progress")
)

// ConfigError rejects an invalid player or match configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid match config: %s %s", e.Field, e.Reason)
}
