package tally

import (
	"time"

	"github.com/smazurov/obsctl/internal/logging"
)

// noop implements Controller as a no-op for systems without LED support.
type noop struct {
	logger logging.Logger
}

// newNoop creates a new no-op tally controller.
func newNoop(logger logging.Logger) *noop {
	return &noop{
		logger: logger,
	}
}

// Set logs the request but performs no actual LED control.
func (n *noop) Set(mode Mode) error {
	if n.logger != nil {
		n.logger.Debug("Tally hardware not available (no-op)", "mode", string(mode))
	}
	return nil
}

// Configure is a no-op.
func (n *noop) Configure(_ time.Duration) {}

// Name identifies the controller for logging.
func (n *noop) Name() string {
	return "noop"
}
