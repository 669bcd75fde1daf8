package tally

import "time"

// Mode is a tally light state.
type Mode string

// Tally modes. Solid means the configured scene is live on the program
// output, blink means streaming is active on some other scene.
const (
	ModeOff   Mode = "off"
	ModeSolid Mode = "solid"
	ModeBlink Mode = "blink"
)

// Controller abstracts tally light hardware across different SBC boards.
// Implementations handle board-specific LED naming and capabilities.
type Controller interface {
	// Set drives the light to the requested mode.
	Set(mode Mode) error

	// Configure adjusts the blink period. Zero keeps the current rate.
	Configure(blinkRate time.Duration)

	// Name identifies the backing device for logging.
	Name() string
}
