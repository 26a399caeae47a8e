package tools

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
)

// ===================================
// Check Calendar Tool
// ===================================

// EventSource lists the calendar commitments overlapping [from, to).
type EventSource interface {
	Events(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
}

// FreeCalendar is an EventSource with no commitments at all.
type FreeCalendar struct{}

func (FreeCalendar) Events(context.Context, time.Time, time.Time) ([]model.CalendarEvent, error) {
	return nil, nil
}

type CheckCalendarInput struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// NewCheckCalendarTool reports, for every day of the range, when the user's
// last commitment ends. Days without commitments report midnight.
func NewCheckCalendarTool(src EventSource) *Tool[CheckCalendarInput, model.DayAvailability] {
	info := &schema.ToolInfo{
		Name: ToolCheckCalendar,
		Desc: "Check the user's personal calendar between two dates. Returns, for each day, the time after which the user is free.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"from_date": {
				Type:     schema.String,
				Desc:     "The start date (YYYY-MM-DD).",
				Required: true,
			},
			"to_date": {
				Type:     schema.String,
				Desc:     "The end date (YYYY-MM-DD), inclusive.",
				Required: true,
			},
		}),
	}

	return NewTool(info, func(ctx context.Context, in CheckCalendarInput) ([]model.DayAvailability, error) {
		from, to, err := dateRange(in.FromDate, in.ToDate)
		if err != nil {
			return nil, err
		}
		events, err := src.Events(ctx, from.Time, to.AddDays(1).Time)
		if err != nil {
			return nil, err
		}
		return Availability(events, from, to), nil
	}, func(out []model.DayAvailability) model.ToolResult {
		return model.ToolResult{Availabilities: out}
	})
}

// Availability folds events into one record per day of [from, to], keeping
// the latest end time seen for each day.
func Availability(events []model.CalendarEvent, from, to model.Date) []model.DayAvailability {
	lastEnd := make(map[model.Date]time.Time)
	for _, ev := range events {
		end := ev.End
		if end.IsZero() {
			continue
		}
		if ev.AllDay {
			end = model.DateOf(end).Time
		}
		day := model.DateOf(end)
		if cur, ok := lastEnd[day]; !ok || end.After(cur) {
			lastEnd[day] = end
		}
	}

	var out []model.DayAvailability
	for day := from; !day.After(to.Time); day = day.AddDays(1) {
		end, ok := lastEnd[day]
		if !ok {
			end = day.Time
		}
		out = append(out, model.DayAvailability{Date: day, MeetingsEndAt: end})
	}
	return out
}
