package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseDurationHours(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{"days and hours", "2 hari 3 jam", 51, true},
		{"hours and minutes", "1 jam 30 menit", 1.5, true},
		{"minutes only", "45 menit", 0.75, true},
		{"all parts", "1 hari 0 jam 30 menit", 24.5, true},
		{"blank", "  ", 0, false},
		{"unrecognised text", "three days", 0, false},
		{"zero total", "0 jam 0 menit", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := domain.ParseDurationHours(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{"days and hours", 51, "2 hari 3 jam"},
		{"whole days", 48, "2 hari"},
		{"hours only", 5.9, "5 jam"},
		{"minutes below an hour", 0.5, "30 menit"},
		{"tiny positive", 0.001, "Kurang dari 1 menit"},
		{"negative", -1, domain.NotAvailable},
		{"nan", math.NaN(), domain.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FormatHours(tt.hours))
		})
	}
}

func TestFormatShortDuration(t *testing.T) {
	assert.Equal(t, "1h 2j 3m", domain.FormatShortDuration(26*time.Hour+3*time.Minute))
	assert.Equal(t, "30m", domain.FormatShortDuration(30*time.Minute))
	assert.Equal(t, "45d", domain.FormatShortDuration(45*time.Second))
}
