package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMessage is the text handed to the worker when none is configured.
const DefaultMessage = "OS Rullz!"

// DefaultDelay is how long the worker sleeps when no delay is configured.
const DefaultDelay = 5 * time.Second

const maxDelay = time.Hour

// Config holds CLI configuration.
type Config struct {
	Message string
	Delay   time.Duration
	Format  string // "text" or "json"
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Message: DefaultMessage,
		Delay:   DefaultDelay,
		Format:  "text",
	}
}

// ParseDelay accepts a Go duration ("250ms", "5s") or a bare number of
// seconds ("5", "0.5").
func ParseDelay(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("delay is empty")
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, numErr := strconv.ParseFloat(raw, 64)
		if numErr != nil {
			return 0, fmt.Errorf("invalid delay %q: %w", raw, err)
		}
		d = time.Duration(secs * float64(time.Second))
	}
	return d, ValidateDelay(d)
}

func ValidateDelay(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("delay %s must not be negative", d)
	}
	if d > maxDelay {
		return fmt.Errorf("delay %s exceeds maximum of %s", d, maxDelay)
	}
	return nil
}
