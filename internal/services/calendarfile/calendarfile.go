package calendarfile

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/surftrip-planner/server/internal/agent/model"
)

var (
	datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"}
	dateLayout      = "2006-01-02"
)

// Calendar is a static list of commitments loaded from a YAML file:
//
//	events:
//	  - summary: Standup
//	    start: 2025-09-05T09:00:00
//	    end: 2025-09-05T12:00:00
//	  - summary: Wedding
//	    start: 2025-09-06
//
// Date-only entries are all-day events. Naive times are wall-clock times.
type Calendar struct {
	events []model.CalendarEvent
}

type fileEvent struct {
	Summary string `yaml:"summary"`
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
}

type file struct {
	Events []fileEvent `yaml:"events"`
}

// Open reads and parses the calendar at path.
func Open(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar file: %w", err)
	}
	cal, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cal, nil
}

func Parse(data []byte) (*Calendar, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(f.Events))
	for i, fe := range f.Events {
		ev, err := fe.event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return &Calendar{events: events}, nil
}

func (fe fileEvent) event() (model.CalendarEvent, error) {
	summary := strings.TrimSpace(fe.Summary)
	if summary == "" {
		summary = "Busy"
	}

	if d, err := time.Parse(dateLayout, strings.TrimSpace(fe.Start)); err == nil {
		end := d
		if fe.End != "" {
			if end, err = time.Parse(dateLayout, strings.TrimSpace(fe.End)); err != nil {
				return model.CalendarEvent{}, fmt.Errorf("all-day end %q: %w", fe.End, err)
			}
		}
		return model.CalendarEvent{Summary: summary, Start: d, End: end, AllDay: true}, nil
	}

	start, err := parseDatetime(fe.Start)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	end, err := parseDatetime(fe.End)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if end.Before(start) {
		return model.CalendarEvent{}, fmt.Errorf("event %q ends before it starts", summary)
	}
	return model.CalendarEvent{Summary: summary, Start: start, End: end}, nil
}

func parseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// Events returns the commitments starting in [from, to).
func (c *Calendar) Events(_ context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, ev := range c.events {
		if ev.Start.Before(from) || !ev.Start.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// Len reports how many events were loaded.
func (c *Calendar) Len() int {
	return len(c.events)
}
