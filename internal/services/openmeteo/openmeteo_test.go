package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftrip-planner/server/internal/agent/model"
	errx "github.com/surftrip-planner/server/internal/core/error"
)

func newServer(t *testing.T, marine, forecast string, marineStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/marine", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wave_height_max,wave_period_max", r.URL.Query().Get("daily"))
		assert.Equal(t, "Europe/Paris", r.URL.Query().Get("timezone"))
		if marineStatus != 0 {
			w.WriteHeader(marineStatus)
			return
		}
		_, _ = w.Write([]byte(marine))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wind_speed_10m_max", r.URL.Query().Get("daily"))
		assert.Equal(t, "2025-09-06", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-09-07", r.URL.Query().Get("end_date"))
		assert.Equal(t, "43.49", r.URL.Query().Get("latitude"))
		_, _ = w.Write([]byte(forecast))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	return New(
		WithMarineURL(srv.URL+"/marine"),
		WithForecastURL(srv.URL+"/forecast"),
		WithHTTPClient(srv.Client()),
	)
}

var bayonne = model.Coordinates{Name: "Bayonne", Latitude: 43.49, Longitude: -1.47}

func TestDailyConditionsMergesByDay(t *testing.T) {
	srv := newServer(t,
		`{"daily": {"time": ["2025-09-06", "2025-09-07"], "wave_height_max": [1.6, null], "wave_period_max": [12.1, 10.5]}}`,
		`{"daily": {"time": ["2025-09-06", "2025-09-07"], "wind_speed_10m_max": [8.4, 15.2]}}`,
		0)

	got, err := newClient(srv).DailyConditions(context.Background(), bayonne, model.NewDate(2025, 9, 6), model.NewDate(2025, 9, 7))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-09-06", got[0].Date.String())
	assert.Equal(t, 1.6, got[0].WaveHeightM)
	assert.Equal(t, 12.1, got[0].WavePeriodS)
	assert.Equal(t, 8.4, got[0].WindSpeedKmh)
	assert.Zero(t, got[1].WaveHeightM)
	assert.Equal(t, 10.5, got[1].WavePeriodS)
}

func TestDailyConditionsWaveDaysWithoutWindAreDropped(t *testing.T) {
	srv := newServer(t,
		`{"daily": {"time": ["2025-09-06", "2025-09-07"], "wave_height_max": [1.6, 1.2], "wave_period_max": [12, 10]}}`,
		`{"daily": {"time": ["2025-09-06"], "wind_speed_10m_max": [8]}}`,
		0)

	got, err := newClient(srv).DailyConditions(context.Background(), bayonne, model.NewDate(2025, 9, 6), model.NewDate(2025, 9, 7))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDailyConditionsEmpty(t *testing.T) {
	srv := newServer(t, `{"daily": {}}`, `{"daily": {}}`, 0)

	got, err := newClient(srv).DailyConditions(context.Background(), bayonne, model.NewDate(2025, 9, 6), model.NewDate(2025, 9, 7))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDailyConditionsMarineFailure(t *testing.T) {
	srv := newServer(t, "", `{"daily": {"time": ["2025-09-06"], "wind_speed_10m_max": [8]}}`, http.StatusInternalServerError)

	_, err := newClient(srv).DailyConditions(context.Background(), bayonne, model.NewDate(2025, 9, 6), model.NewDate(2025, 9, 7))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
	assert.Contains(t, err.Error(), "wave forecast")
}
