package domain

import (
	"strings"
	"time"
)

// Timeline layout constants.
const (
	timelineJumpThreshold = 6 * time.Hour
	timelineJumpSize      = 10.0
	timelineScalePerHour  = 2.0
	timelineMinStep       = 1.0
)

// Marker classes for timeline points.
const (
	TimelineStateTodo    = "todo"
	TimelineStateDone    = "done"
	TimelineStateInvalid = "invalid"
	TimelineStateOther   = "other"
)

// TimelinePoint is one compressed history event placed on the vertical axis.
type TimelinePoint struct {
	Event StatusEvent `json:"event"`
	Y     float64     `json:"y"`
	Tick  string      `json:"tick"`
	State string      `json:"state"`
}

// TimelineAnnotation labels the gap between two neighbouring points.
type TimelineAnnotation struct {
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Timeline is the layout of a ticket's history view.
type Timeline struct {
	Points      []TimelinePoint      `json:"points"`
	Annotations []TimelineAnnotation `json:"annotations"`
}

// BuildTimeline lays out sorted (usually compressed) events. Long gaps are
// collapsed to a fixed jump so a ticket idle for weeks stays readable.
func BuildTimeline(events []StatusEvent) Timeline {
	tl := Timeline{
		Points:      make([]TimelinePoint, 0, len(events)),
		Annotations: make([]TimelineAnnotation, 0),
	}

	var (
		y        float64
		lastTime time.Time
		lastDate Date
	)
	for i, ev := range events {
		if i > 0 {
			delta := ev.Timestamp.Sub(lastTime)
			if delta > timelineJumpThreshold {
				y += timelineJumpSize
			} else {
				y += delta.Hours()*timelineScalePerHour + timelineMinStep
			}
		}

		day := DateOf(ev.Timestamp)
		tick := "   " + ev.Timestamp.Format("15:04")
		if i == 0 || !day.Equal(lastDate) {
			tick = ev.Timestamp.Format("02 Jan 2006")
			lastDate = day
		}

		tl.Points = append(tl.Points, TimelinePoint{
			Event: ev,
			Y:     y,
			Tick:  tick,
			State: timelineState(ev.StatusTo),
		})
		lastTime = ev.Timestamp
	}

	for i := 1; i < len(tl.Points); i++ {
		prev, curr := tl.Points[i-1], tl.Points[i]
		gap := curr.Event.Timestamp.Sub(prev.Event.Timestamp)
		if gap > TransitionalThreshold {
			tl.Annotations = append(tl.Annotations, TimelineAnnotation{
				Y:    (prev.Y + curr.Y) / 2,
				Text: FormatShortDuration(gap),
			})
		}
	}

	return tl
}

func timelineState(status string) string {
	s := strings.ToLower(status)
	switch {
	case containsAny(s, "to do", "reopen"):
		return TimelineStateTodo
	case containsAny(s, "done", "passed", "closed", "resolve"):
		return TimelineStateDone
	case strings.Contains(s, "invalid"):
		return TimelineStateInvalid
	default:
		return TimelineStateOther
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
