package model

import "time"

// CalendarEvent is one commitment read from a calendar source. All-day
// events carry midnight boundaries and AllDay set.
type CalendarEvent struct {
	Summary string    `yaml:"summary" json:"summary"`
	Start   time.Time `yaml:"start" json:"start"`
	End     time.Time `yaml:"end" json:"end"`
	AllDay  bool      `yaml:"all_day" json:"all_day"`
}

// Coordinates locate a named place.
type Coordinates struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DailyConditions is one day of marine and wind data for a coordinate.
type DailyConditions struct {
	Date         Date    `json:"date"`
	WaveHeightM  float64 `json:"wave_height_m"`
	WavePeriodS  float64 `json:"wave_period_s"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
}

// Journey is a raw itinerary from the journey planner, before same-day
// filtering. Times are local wall-clock times.
type Journey struct {
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	Duration    time.Duration
}
