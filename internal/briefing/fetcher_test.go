package briefing_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/itinerary/internal/briefing"
)

func weatherHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris,France", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"main": map[string]any{
				"temp":       22.5,
				"feels_like": 21.0,
				"humidity":   60,
			},
			"weather": []map[string]any{{"description": "clear sky"}},
		})
	}
}

func countriesHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/France", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"capital":    []string{"Paris"},
				"region":     "Europe",
				"languages":  map[string]string{"fra": "French"},
				"currencies": map[string]any{"EUR": map[string]string{"name": "Euro"}},
			},
		})
	}
}

func failingHandler(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func TestBrief_Success(t *testing.T) {
	wSrv := httptest.NewServer(weatherHandler(t))
	defer wSrv.Close()
	cSrv := httptest.NewServer(countriesHandler(t))
	defer cSrv.Close()

	b := briefing.NewBrieferWithClients(
		briefing.NewWeatherClientWithURL(wSrv.URL, "test-key"),
		briefing.NewCountriesClientWithURL(cSrv.URL),
		nil,
	)

	brief, err := b.Brief(context.Background(), "Paris", "France")
	require.NoError(t, err)
	require.NotNil(t, brief.Weather)
	assert.Equal(t, 22.5, brief.Weather.Temperature)
	assert.Equal(t, "clear sky", brief.Weather.Description)
	require.NotNil(t, brief.Country)
	assert.Equal(t, "Paris", brief.Country.Capital)
	assert.Equal(t, "Euro", brief.Country.Currencies["EUR"])

	summary := brief.Summary()
	assert.Contains(t, summary, "clear sky, 22.5°C")
	assert.Contains(t, summary, "Euro (EUR)")
	assert.Contains(t, summary, "French")
}

func TestBrief_WeatherFails_PartialData(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(failingHandler))
	defer badSrv.Close()
	cSrv := httptest.NewServer(countriesHandler(t))
	defer cSrv.Close()

	b := briefing.NewBrieferWithClients(
		briefing.NewWeatherClientWithURL(badSrv.URL, "test-key"),
		briefing.NewCountriesClientWithURL(cSrv.URL),
		nil,
	)

	brief, err := b.Brief(context.Background(), "Paris", "France")
	require.NoError(t, err)
	assert.Nil(t, brief.Weather, "weather should be nil on failure")
	require.NotNil(t, brief.Country)
	assert.NotContains(t, brief.Summary(), "weather")
}

func TestBrief_AllFail_EmptySummary(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(failingHandler))
	defer badSrv.Close()

	b := briefing.NewBrieferWithClients(
		briefing.NewWeatherClientWithURL(badSrv.URL, "k"),
		briefing.NewCountriesClientWithURL(badSrv.URL),
		nil,
	)

	brief, err := b.Brief(context.Background(), "Paris", "France")
	require.NoError(t, err)
	assert.Nil(t, brief.Weather)
	assert.Nil(t, brief.Country)
	assert.Empty(t, brief.Summary())
}

func TestBrief_WeatherDisabled(t *testing.T) {
	cSrv := httptest.NewServer(countriesHandler(t))
	defer cSrv.Close()

	b := briefing.NewBrieferWithClients(nil, briefing.NewCountriesClientWithURL(cSrv.URL), nil)

	brief, err := b.Brief(context.Background(), "Paris", "France")
	require.NoError(t, err)
	assert.Nil(t, brief.Weather)
	assert.NotNil(t, brief.Country)
}

func TestBrief_Timeout(t *testing.T) {
	slowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slowSrv.Close()

	b := briefing.NewBrieferWithClients(
		briefing.NewWeatherClientWithURL(slowSrv.URL, "k"),
		briefing.NewCountriesClientWithURL(slowSrv.URL),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	brief, err := b.Brief(ctx, "Paris", "France")
	require.NoError(t, err)
	assert.Nil(t, brief.Weather)
	assert.Nil(t, brief.Country)
}

func TestSummary_NilBrief(t *testing.T) {
	var b *briefing.Brief
	assert.Empty(t, b.Summary())
}

func TestWeatherClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(failingHandler))
	defer srv.Close()

	_, err := briefing.NewWeatherClientWithURL(srv.URL, "key").Fetch(context.Background(), "Paris", "France")
	require.Error(t, err)
}

func TestCountriesClient_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	_, err := briefing.NewCountriesClientWithURL(srv.URL).Fetch(context.Background(), "Nowhere")
	require.Error(t, err)
}
