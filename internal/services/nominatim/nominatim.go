package nominatim

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
	"github.com/surftrip-planner/server/internal/services"
)

const (
	serviceName    = "nominatim"
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
)

// Client geocodes place names through the Nominatim search API.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a client. Nominatim's usage policy requires an identifying User-Agent.
func New(userAgent string, opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL, userAgent: userAgent}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = services.NewHTTPClient(0)
	}
	return c
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Locate returns the coordinates of the best match for name.
func (c *Client) Locate(ctx context.Context, name string) (model.Coordinates, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	var places []place
	if err := services.GetJSON(ctx, c.http, c.baseURL+"/search", q, &places,
		services.WithHeader("User-Agent", c.userAgent)); err != nil {
		return model.Coordinates{}, errx.WrapUpstream(serviceName, err)
	}
	if len(places) == 0 {
		return model.Coordinates{}, errx.WrapUpstream(serviceName,
			fmt.Errorf("location %q could not be found: %w", name, errx.ErrNotFound))
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, errx.WrapUpstream(serviceName, fmt.Errorf("latitude %q: %w", places[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, errx.WrapUpstream(serviceName, fmt.Errorf("longitude %q: %w", places[0].Lon, err))
	}
	return model.Coordinates{Name: name, Latitude: lat, Longitude: lon}, nil
}
