package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is shown when a metric has no contributing records.
const NotAvailable = "N/A"

var (
	daysPattern    = regexp.MustCompile(`(\d+)\s*hari`)
	hoursPattern   = regexp.MustCompile(`(\d+)\s*jam`)
	minutesPattern = regexp.MustCompile(`(\d+)\s*menit`)
)

// ParseDurationHours converts an Indonesian duration such as "2 hari 3 jam
// 15 menit" into hours. Blank text, text without any recognised part and a
// zero total all report false.
func ParseDurationHours(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}

	var total float64
	if n, ok := firstInt(daysPattern, text); ok {
		total += float64(n) * 24
	}
	if n, ok := firstInt(hoursPattern, text); ok {
		total += float64(n)
	}
	if n, ok := firstInt(minutesPattern, text); ok {
		total += float64(n) / 60
	}

	if total <= 0 {
		return 0, false
	}
	return total, true
}

func firstInt(pattern *regexp.Regexp, text string) (int, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatHours renders hours as "N hari M jam".
func FormatHours(totalHours float64) string {
	if math.IsNaN(totalHours) || totalHours < 0 {
		return NotAvailable
	}
	if totalHours < 1 {
		minutes := int(math.Round(totalHours * 60))
		if minutes == 0 && totalHours > 0 {
			return "Kurang dari 1 menit"
		}
		return fmt.Sprintf("%d menit", minutes)
	}

	days := int(totalHours / 24)
	hours := int(math.Mod(totalHours, 24))

	parts := make([]string, 0, 2)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d hari", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d jam", hours))
	}
	if len(parts) == 0 {
		return "0 jam"
	}
	return strings.Join(parts, " ")
}

// FormatShortDuration renders a gap on the history timeline as "1h 2j 3m"
// (hari, jam, menit), falling back to seconds ("45d", detik) below a minute.
func FormatShortDuration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	days := totalSeconds / 86400
	rem := totalSeconds % 86400
	hours := rem / 3600
	minutes := (rem % 3600) / 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dj", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%dd", totalSeconds)
	}
	return strings.Join(parts, " ")
}
