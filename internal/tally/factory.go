package tally

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smazurov/obsctl/internal/config"
	"github.com/smazurov/obsctl/internal/logging"
)

const (
	deviceTreeModelPath = "/proc/device-tree/model"
	sysfsLEDRoot        = "/sys/class/leds"
)

// New creates a tally controller based on the configuration and board
// detection. Falls back to a no-op controller if LEDs are not available.
func New(cfg config.TallyConfig, logger logging.Logger) Controller {
	blinkRate := time.Duration(cfg.BlinkRateMs) * time.Millisecond

	if cfg.LEDPath == "none" {
		if logger != nil {
			logger.Info("Tally hardware disabled by configuration")
		}
		return newNoop(logger)
	}

	if cfg.LEDPath != "" {
		if logger != nil {
			logger.Info("Using configured tally LED", "path", cfg.LEDPath)
		}
		return newSysfs(cfg.LEDPath, blinkRate)
	}

	boardModel := detectBoard()
	if logger != nil {
		logger.Info("Detecting board for tally LED", "board_model", boardModel)
	}

	var ledName string
	switch {
	case strings.Contains(boardModel, "NanoPC-T6"):
		ledName = "usr_led"
	case strings.Contains(boardModel, "Orange Pi"):
		ledName = "blue_led"
	case strings.Contains(boardModel, "Raspberry Pi"):
		ledName = "ACT"
	default:
		if logger != nil {
			logger.Info("No LED support detected, using no-op controller", "board_model", boardModel)
		}
		return newNoop(logger)
	}

	path := filepath.Join(sysfsLEDRoot, ledName)
	if _, err := os.Stat(path); err != nil {
		if logger != nil {
			logger.Warn("Detected board LED is missing, using no-op controller", "path", path)
		}
		return newNoop(logger)
	}

	if logger != nil {
		logger.Info("Using board tally LED", "path", path)
	}
	return newSysfs(path, blinkRate)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
