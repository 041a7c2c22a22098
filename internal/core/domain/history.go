package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// TransitionalThreshold is the gap under which consecutive status changes are
// treated as one jump.
const TransitionalThreshold = 5 * time.Minute

// StatusEvent is one status transition. StatusFrom is nil for the creation
// event.
type StatusEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusFrom *string   `json:"statusFrom"`
	StatusTo   string    `json:"statusTo"`
	Author     string    `json:"author"`
}

type rawStatusEvent struct {
	Timestamp  *string `json:"timestamp"`
	StatusFrom *string `json:"status_from"`
	StatusTo   *string `json:"status_to"`
	Author     *string `json:"author"`
}

// ParseHistory decodes a status-history JSON array. Anything that is not an
// array yields nil; events without a readable timestamp are skipped. The result
// is sorted chronologically.
func ParseHistory(raw string) []StatusEvent {
	if raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}

	events := make([]StatusEvent, 0, len(items))
	for _, item := range items {
		var ev rawStatusEvent
		if err := json.Unmarshal(item, &ev); err != nil || ev.Timestamp == nil {
			continue
		}
		ts, ok := ParseTimestamp(*ev.Timestamp)
		if !ok {
			continue
		}
		events = append(events, StatusEvent{
			Timestamp:  ts,
			StatusFrom: ev.StatusFrom,
			StatusTo:   deref(ev.StatusTo),
			Author:     deref(ev.Author),
		})
	}

	SortEvents(events)
	return events
}

// SortEvents orders events by timestamp, keeping input order for ties.
func SortEvents(events []StatusEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

// CompressHistory merges runs of events whose successive gaps are all below
// threshold into a single jump from the first event's source status to the last
// event's destination. Input must be sorted.
func CompressHistory(events []StatusEvent, threshold time.Duration) []StatusEvent {
	if len(events) == 0 {
		return nil
	}

	compressed := make([]StatusEvent, 0, len(events))
	for i := 0; i < len(events); {
		j := i + 1
		for j < len(events) && events[j].Timestamp.Sub(events[j-1].Timestamp) < threshold {
			j++
		}

		if j > i+1 {
			last := events[j-1]
			compressed = append(compressed, StatusEvent{
				Timestamp:  events[i].Timestamp,
				StatusFrom: events[i].StatusFrom,
				StatusTo:   last.StatusTo,
				Author:     last.Author,
			})
		} else {
			compressed = append(compressed, events[i])
		}
		i = j
	}
	return compressed
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
