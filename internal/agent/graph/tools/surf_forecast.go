package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

// ===================================
// Surf Forecast Tool
// ===================================

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, place string) (model.Coordinates, error)
}

// Forecaster returns daily marine and wind conditions for a coordinate.
type Forecaster interface {
	DailyConditions(ctx context.Context, at model.Coordinates, from, to model.Date) ([]model.DailyConditions, error)
}

type SurfForecastInput struct {
	Spot     string `json:"spot"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

func NewSurfForecastTool(geo Geocoder, fc Forecaster) *Tool[SurfForecastInput, model.SurfForecast] {
	info := &schema.ToolInfo{
		Name: ToolGetSurfForecast,
		Desc: "Retrieve the surf forecast (wave height, period and wind) for a surf spot or town between two dates. Returns one record per day.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"spot": {
				Type:     schema.String,
				Desc:     "The name of the surf spot or town.",
				Required: true,
			},
			"from_date": {
				Type:     schema.String,
				Desc:     "The start date (YYYY-MM-DD).",
				Required: true,
			},
			"to_date": {
				Type:     schema.String,
				Desc:     "The end date (YYYY-MM-DD).",
				Required: true,
			},
		}),
	}

	return NewTool(info, func(ctx context.Context, in SurfForecastInput) ([]model.SurfForecast, error) {
		spot, err := requireText("spot", in.Spot)
		if err != nil {
			return nil, err
		}
		from, to, err := dateRange(in.FromDate, in.ToDate)
		if err != nil {
			return nil, err
		}

		at, err := geo.Locate(ctx, spot)
		if err != nil {
			return nil, fmt.Errorf("locate %q: %w", spot, err)
		}
		days, err := fc.DailyConditions(ctx, at, from, to)
		if err != nil {
			return nil, err
		}
		if len(days) == 0 {
			return nil, fmt.Errorf("no forecast data for %s between %s and %s: %w", spot, from, to, errx.ErrNoData)
		}

		out := make([]model.SurfForecast, 0, len(days))
		for _, d := range days {
			out = append(out, model.SurfForecast{
				Date:         d.Date,
				Spot:         spot,
				WaveHeightM:  d.WaveHeightM,
				WavePeriodS:  d.WavePeriodS,
				WindSpeedKmh: d.WindSpeedKmh,
			})
		}
		return out, nil
	}, func(out []model.SurfForecast) model.ToolResult {
		return model.ToolResult{Forecasts: out}
	})
}
