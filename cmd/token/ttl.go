package main

import (
	"fmt"
	"time"
)

func parseTTL(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --ttl %q: %w", value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid --ttl %q: must be positive", value)
	}
	return d, nil
}
