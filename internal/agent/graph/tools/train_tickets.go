package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

// ===================================
// Find Train Tickets Tool
// ===================================

// JourneyPlanner searches train itineraries leaving after from.
type JourneyPlanner interface {
	Journeys(ctx context.Context, origin, destination string, from time.Time) ([]model.Journey, error)
}

type FindTrainTicketsInput struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	FromDatetime string `json:"from_datetime"`
}

var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDatetime reads a naive local datetime; zone offsets are dropped so
// the wall clock is kept as given.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q: want YYYY-MM-DDTHH:MM:SS", s)
}

func NewFindTrainTicketsTool(planner JourneyPlanner) *Tool[FindTrainTicketsInput, model.TrainOption] {
	info := &schema.ToolInfo{
		Name: ToolFindTrainTickets,
		Desc: "Find train journeys between two cities leaving on a given day, after a given time. Returns departure and arrival times and the duration of each option.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"origin": {
				Type:     schema.String,
				Desc:     "The city of departure (e.g. 'Paris').",
				Required: true,
			},
			"destination": {
				Type:     schema.String,
				Desc:     "The destination city (e.g. 'Bayonne').",
				Required: true,
			},
			"from_datetime": {
				Type:     schema.String,
				Desc:     "The earliest departure, in ISO format (e.g. '2025-09-05T08:00:00').",
				Required: true,
			},
		}),
	}

	return NewTool(info, func(ctx context.Context, in FindTrainTicketsInput) ([]model.TrainOption, error) {
		origin, err := requireText("origin", in.Origin)
		if err != nil {
			return nil, err
		}
		destination, err := requireText("destination", in.Destination)
		if err != nil {
			return nil, err
		}
		from, err := ParseDatetime(in.FromDatetime)
		if err != nil {
			return nil, err
		}

		journeys, err := planner.Journeys(ctx, origin, destination, from)
		if err != nil {
			return nil, err
		}
		if len(journeys) == 0 {
			return nil, fmt.Errorf("no train journeys from %s to %s: %w", origin, destination, errx.ErrNotFound)
		}

		day := model.DateOf(from)
		options := SameDayOptions(journeys, day)
		if len(options) == 0 {
			return nil, fmt.Errorf("journeys found, but none leave on %s: %w", day, errx.ErrNotFound)
		}
		return options, nil
	}, func(out []model.TrainOption) model.ToolResult {
		return model.ToolResult{Trains: out}
	})
}

// SameDayOptions keeps the journeys departing on day.
func SameDayOptions(journeys []model.Journey, day model.Date) []model.TrainOption {
	var out []model.TrainOption
	for _, j := range journeys {
		if model.DateOf(j.Departure) != day {
			continue
		}
		origin, destination := j.Origin, j.Destination
		if origin == "" {
			origin = "Unknown Origin"
		}
		if destination == "" {
			destination = "Unknown Destination"
		}
		out = append(out, model.TrainOption{
			Date:          day,
			Origin:        origin,
			Destination:   destination,
			DepartureTime: j.Departure,
			ArrivalTime:   j.Arrival,
			Duration:      FormatDuration(j.Duration),
		})
	}
	return out
}

// FormatDuration renders d as "<h>h <m>m", dropping seconds.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
