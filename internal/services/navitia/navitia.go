package navitia

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
	"github.com/surftrip-planner/server/internal/services"
	logx "github.com/surftrip-planner/server/pkg/logger"
)

const (
	serviceName     = "navitia"
	DefaultBaseURL  = "https://api.navitia.io/v1"
	DefaultCoverage = "sncf"

	// datetimeLayout is Navitia's naive local datetime format.
	datetimeLayout = "20060102T150405"
	journeyCount   = 20
	trainMode      = "commercial_mode:Train"
)

// Client plans train journeys through the Navitia API.
type Client struct {
	http     *http.Client
	baseURL  string
	coverage string
	apiKey   string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithCoverage(coverage string) Option {
	return func(c *Client) { c.coverage = coverage }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL, coverage: DefaultCoverage, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = services.NewHTTPClient(0)
	}
	return c
}

type placesResponse struct {
	Places []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"places"`
}

type endpoint struct {
	Name string `json:"name"`
}

type journeysResponse struct {
	Journeys []struct {
		DepartureDateTime string `json:"departure_date_time"`
		ArrivalDateTime   string `json:"arrival_date_time"`
		Duration          int    `json:"duration"`
		Sections          []struct {
			From *endpoint `json:"from"`
			To   *endpoint `json:"to"`
		} `json:"sections"`
	} `json:"journeys"`
}

// Journeys resolves both cities to stations and lists train journeys
// leaving after from. Journeys with unreadable times are skipped.
func (c *Client) Journeys(ctx context.Context, origin, destination string, from time.Time) ([]model.Journey, error) {
	originID, err := c.findStation(ctx, origin)
	if err != nil {
		return nil, err
	}
	destinationID, err := c.findStation(ctx, destination)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("from", originID)
	q.Set("to", destinationID)
	q.Set("datetime", from.Format(datetimeLayout))
	q.Set("count", strconv.Itoa(journeyCount))
	q.Set("commercial_mode_id[]", trainMode)

	var res journeysResponse
	if err := services.GetJSON(ctx, c.http, c.endpoint("journeys"), q, &res, c.auth()); err != nil {
		return nil, errx.WrapUpstream(serviceName, fmt.Errorf("journeys: %w", err))
	}

	out := make([]model.Journey, 0, len(res.Journeys))
	for _, j := range res.Journeys {
		dep, err := time.Parse(datetimeLayout, j.DepartureDateTime)
		if err != nil {
			logx.Warn().Err(err).Str("value", j.DepartureDateTime).Msg("Skipping journey with bad departure time")
			continue
		}
		arr, err := time.Parse(datetimeLayout, j.ArrivalDateTime)
		if err != nil {
			logx.Warn().Err(err).Str("value", j.ArrivalDateTime).Msg("Skipping journey with bad arrival time")
			continue
		}

		journey := model.Journey{
			Departure: dep,
			Arrival:   arr,
			Duration:  time.Duration(j.Duration) * time.Second,
		}
		if n := len(j.Sections); n > 0 {
			if j.Sections[0].From != nil {
				journey.Origin = j.Sections[0].From.Name
			}
			if j.Sections[n-1].To != nil {
				journey.Destination = j.Sections[n-1].To.Name
			}
		}
		out = append(out, journey)
	}
	return out, nil
}

func (c *Client) findStation(ctx context.Context, city string) (string, error) {
	q := url.Values{}
	q.Set("q", city)

	var res placesResponse
	if err := services.GetJSON(ctx, c.http, c.endpoint("places"), q, &res, c.auth()); err != nil {
		return "", errx.WrapUpstream(serviceName, fmt.Errorf("places: %w", err))
	}
	if len(res.Places) == 0 {
		return "", errx.WrapUpstream(serviceName, fmt.Errorf("station %q: %w", city, errx.ErrNotFound))
	}
	return res.Places[0].ID, nil
}

func (c *Client) endpoint(name string) string {
	return fmt.Sprintf("%s/coverage/%s/%s", c.baseURL, c.coverage, name)
}

// auth sends the API key as the basic-auth user with an empty password.
func (c *Client) auth() services.RequestOption {
	return services.WithBasicAuth(c.apiKey, "")
}
