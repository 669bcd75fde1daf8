package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// TallyConfig maps OBS scenes to tally light behavior. It lives in its own
// file so operators can retarget the tally without restarting the daemon;
// the monitor watches it through a Watcher[TallyConfig].
type TallyConfig struct {
	// Scene is the program scene that counts as "on air".
	Scene string `toml:"scene" json:"scene"`

	// LEDPath is the sysfs LED device directory. Empty selects the
	// first available LED, "none" disables hardware output.
	LEDPath string `toml:"led_path,omitempty" json:"led_path,omitempty"`

	// BlinkRateMs controls the blink period when streaming off the
	// tally scene. Zero uses the controller default.
	BlinkRateMs int `toml:"blink_rate_ms,omitempty" json:"blink_rate_ms,omitempty"`
}

// Validate checks the tally configuration for obvious mistakes.
func (c *TallyConfig) Validate() error {
	if c.BlinkRateMs < 0 {
		return fmt.Errorf("blink_rate_ms must not be negative, got %d", c.BlinkRateMs)
	}
	if strings.ContainsAny(c.Scene, "\n\r") {
		return fmt.Errorf("scene name contains line breaks")
	}
	return nil
}

// LoadTallyConfig reads a tally configuration file. A missing file is not
// an error; it yields the zero config with the tally disabled.
func LoadTallyConfig(path string) (TallyConfig, error) {
	var cfg TallyConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read tally config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse tally config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
