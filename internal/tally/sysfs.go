package tally

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const defaultBlinkRate = 500 * time.Millisecond

// sysfs implements Controller using the Linux sysfs LED interface.
type sysfs struct {
	path string // LED device directory, e.g. /sys/class/leds/usr_led

	mu        sync.Mutex
	blinkRate time.Duration
}

// newSysfs creates a sysfs controller for an LED device directory.
func newSysfs(path string, blinkRate time.Duration) *sysfs {
	if blinkRate <= 0 {
		blinkRate = defaultBlinkRate
	}
	return &sysfs{path: path, blinkRate: blinkRate}
}

// Set drives the LED through its trigger and brightness attributes. Blink
// uses the kernel timer trigger so the pattern keeps running without help
// from this process.
func (s *sysfs) Set(mode Mode) error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("LED not found at %s", s.path)
	}

	switch mode {
	case ModeOff:
		if err := s.write("trigger", "none"); err != nil {
			return err
		}
		return s.write("brightness", "0")

	case ModeSolid:
		if err := s.write("trigger", "none"); err != nil {
			return err
		}
		return s.write("brightness", "1")

	case ModeBlink:
		if err := s.write("trigger", "timer"); err != nil {
			return err
		}
		s.mu.Lock()
		half := s.blinkRate / 2
		s.mu.Unlock()
		ms := strconv.FormatInt(half.Milliseconds(), 10)
		// delay files appear once the timer trigger is active; best effort
		// on kernels without CONFIG_LEDS_TRIGGER_TIMER delay tuning.
		_ = s.write("delay_on", ms)
		_ = s.write("delay_off", ms)
		return nil

	default:
		return fmt.Errorf("unknown tally mode %q", mode)
	}
}

// Configure adjusts the blink period.
func (s *sysfs) Configure(blinkRate time.Duration) {
	if blinkRate <= 0 {
		return
	}
	s.mu.Lock()
	s.blinkRate = blinkRate
	s.mu.Unlock()
}

// Name identifies the backing device.
func (s *sysfs) Name() string {
	return s.path
}

func (s *sysfs) write(attr, value string) error {
	target := filepath.Join(s.path, attr)
	if err := os.WriteFile(target, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write LED %s: %w", attr, err)
	}
	return nil
}
