package model

import (
	"fmt"
	"strings"
	"time"
)

// DayAvailability is the calendar tool's per-day record. MeetingsEndAt is the
// end of the last commitment that day, or midnight when the day is free.
type DayAvailability struct {
	Date          Date      `json:"date"`
	MeetingsEndAt time.Time `json:"meetings_end_at"`
}

// Free reports whether nothing is booked on the day.
func (a DayAvailability) Free() bool {
	h, m, s := a.MeetingsEndAt.Clock()
	return h == 0 && m == 0 && s == 0
}

func (a DayAvailability) String() string {
	if a.Free() {
		return fmt.Sprintf("%s: Free all day", a.Date)
	}
	return fmt.Sprintf("%s: Available after %s", a.Date, a.MeetingsEndAt.Format("15:04"))
}

func (a DayAvailability) identity() string {
	return a.Date.String()
}

// SurfForecast is one day of the surf-forecast tool's output.
type SurfForecast struct {
	Date         Date    `json:"date"`
	Spot         string  `json:"spot"`
	WaveHeightM  float64 `json:"wave_height_m"`
	WavePeriodS  float64 `json:"wave_period_s"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
}

func (f SurfForecast) String() string {
	return fmt.Sprintf("Date: %s, Spot: %s, Waves: %gm, Period: %gs, Wind: %gkm/h",
		f.Date, f.Spot, f.WaveHeightM, f.WavePeriodS, f.WindSpeedKmh)
}

func (f SurfForecast) identity() string {
	return strings.ToLower(f.Spot) + "|" + f.Date.String()
}

// TrainOption is one same-day journey found by the train-ticket tool.
type TrainOption struct {
	Date          Date      `json:"date"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
}

func (o TrainOption) String() string {
	return fmt.Sprintf("Train from %s to %s on %s: Departs %s, Arrives %s, Duration: %s",
		o.Origin, o.Destination, o.Date,
		o.DepartureTime.Format("15:04"), o.ArrivalTime.Format("15:04"), o.Duration)
}

func (o TrainOption) identity() string {
	return strings.ToLower(o.Origin) + "|" + strings.ToLower(o.Destination) + "|" +
		o.DepartureTime.Format(time.RFC3339)
}

// ToolResult is the success side of a tool invocation. Each tool fills the
// slice matching its record type; failures travel as a separate error.
type ToolResult struct {
	Availabilities []DayAvailability `json:"availabilities,omitempty"`
	Forecasts      []SurfForecast    `json:"forecasts,omitempty"`
	Trains         []TrainOption     `json:"trains,omitempty"`
}

// Len counts every record in the result.
func (r ToolResult) Len() int {
	return len(r.Availabilities) + len(r.Forecasts) + len(r.Trains)
}

// String renders one record per line for tool messages and prompts.
func (r ToolResult) String() string {
	lines := make([]string, 0, r.Len())
	for _, a := range r.Availabilities {
		lines = append(lines, a.String())
	}
	for _, f := range r.Forecasts {
		lines = append(lines, f.String())
	}
	for _, o := range r.Trains {
		lines = append(lines, o.String())
	}
	if len(lines) == 0 {
		return "[]"
	}
	return strings.Join(lines, "\n")
}

// appendUnique appends the elements of src whose identity is not yet in dst.
// The result never aliases dst.
func appendUnique[T any](dst, src []T, identity func(T) string) []T {
	out := make([]T, len(dst), len(dst)+len(src))
	copy(out, dst)
	if len(src) == 0 {
		return out
	}
	seen := make(map[string]struct{}, len(out)+len(src))
	for _, v := range out {
		seen[identity(v)] = struct{}{}
	}
	for _, v := range src {
		k := identity(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
