package openmeteo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
	"github.com/surftrip-planner/server/internal/services"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

const (
	serviceName = "open-meteo"

	DefaultMarineURL   = "https://marine-api.open-meteo.com/v1/marine"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultTimezone    = "Europe/Paris"
)

// Client reads daily wave and wind maxima from the Open-Meteo marine and
// weather forecast APIs.
type Client struct {
	http        *http.Client
	marineURL   string
	forecastURL string
	timezone    string
}

type Option func(*Client)

func WithMarineURL(u string) Option {
	return func(c *Client) { c.marineURL = u }
}

func WithForecastURL(u string) Option {
	return func(c *Client) { c.forecastURL = u }
}

func WithTimezone(tz string) Option {
	return func(c *Client) { c.timezone = tz }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(opts ...Option) *Client {
	c := &Client{
		marineURL:   DefaultMarineURL,
		forecastURL: DefaultForecastURL,
		timezone:    DefaultTimezone,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = services.NewHTTPClient(0)
	}
	return c
}

type marineResponse struct {
	Daily struct {
		Time          []string   `json:"time"`
		WaveHeightMax []*float64 `json:"wave_height_max"`
		WavePeriodMax []*float64 `json:"wave_period_max"`
	} `json:"daily"`
}

type forecastResponse struct {
	Daily struct {
		Time            []string   `json:"time"`
		WindSpeed10mMax []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// DailyConditions returns one record per day of [from, to] for which wind
// data exists, with wave data merged in by day.
func (c *Client) DailyConditions(ctx context.Context, at model.Coordinates, from, to model.Date) ([]model.DailyConditions, error) {
	var wind forecastResponse
	if err := services.GetJSON(ctx, c.http, c.forecastURL, c.query(at, from, to, "wind_speed_10m_max"), &wind); err != nil {
		return nil, errx.WrapUpstream(serviceName, fmt.Errorf("wind forecast: %w", err))
	}
	var waves marineResponse
	if err := services.GetJSON(ctx, c.http, c.marineURL, c.query(at, from, to, "wave_height_max,wave_period_max"), &waves); err != nil {
		return nil, errx.WrapUpstream(serviceName, fmt.Errorf("wave forecast: %w", err))
	}

	out := make([]model.DailyConditions, 0, len(wind.Daily.Time))
	index := make(map[string]int, len(wind.Daily.Time))
	for i, day := range wind.Daily.Time {
		d, err := model.ParseDate(day)
		if err != nil {
			logx.Warn().Err(err).Str("day", day).Msg("Skipping forecast day")
			continue
		}
		index[day] = len(out)
		out = append(out, model.DailyConditions{Date: d, WindSpeedKmh: at0(wind.Daily.WindSpeed10mMax, i)})
	}
	for i, day := range waves.Daily.Time {
		j, ok := index[day]
		if !ok {
			continue
		}
		out[j].WaveHeightM = at0(waves.Daily.WaveHeightMax, i)
		out[j].WavePeriodS = at0(waves.Daily.WavePeriodMax, i)
	}
	return out, nil
}

func (c *Client) query(at model.Coordinates, from, to model.Date, daily string) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	q.Set("start_date", from.String())
	q.Set("end_date", to.String())
	q.Set("daily", daily)
	q.Set("timezone", c.timezone)
	return q
}

// at0 reads a nullable series value; gaps count as zero.
func at0(series []*float64, i int) float64 {
	if i >= len(series) || series[i] == nil {
		return 0
	}
	return *series[i]
}
