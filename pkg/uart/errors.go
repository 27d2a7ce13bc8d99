package uart

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy indicates a send was requested while a previous one is
	// still in flight. The caller retries once the transmitter returns
	// to idle; nothing is queued.
	ErrBusy = errors.New("transmitter busy")
)

// ConfigError reports an out-of-range configuration field at
// construction time.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
