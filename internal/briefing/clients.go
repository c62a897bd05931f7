package briefing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doGet performs a GET request and decodes the JSON response into dst.
func doGet(ctx context.Context, client *http.Client, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", req.URL.Redacted(), resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Redacted(), err)
	}

	return nil
}

// ---- OpenWeatherMap ----

const owmDefaultURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherClient fetches current weather from OpenWeatherMap.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewWeatherClient constructs a WeatherClient with the given API key.
func NewWeatherClient(apiKey string) *WeatherClient {
	return NewWeatherClientWithURL(owmDefaultURL, apiKey)
}

// NewWeatherClientWithURL constructs a WeatherClient pointing at a custom base URL (for tests).
func NewWeatherClientWithURL(baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient()}
}

type owmResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Fetch retrieves current weather for city in country.
func (c *WeatherClient) Fetch(ctx context.Context, city, country string) (*Weather, error) {
	q := url.Values{}
	q.Set("q", city+","+country)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	var raw owmResponse
	if err := doGet(ctx, c.client, c.baseURL+"?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("openweathermap fetch for %s: %w", city, err)
	}

	w := &Weather{
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
	}
	if len(raw.Weather) > 0 {
		w.Description = raw.Weather[0].Description
	}
	return w, nil
}

// ---- RestCountries ----

const countriesDefaultURL = "https://restcountries.com/v3.1/name"

// CountriesClient fetches country facts from RestCountries (no API key required).
type CountriesClient struct {
	baseURL string
	client  *http.Client
}

// NewCountriesClient constructs a CountriesClient.
func NewCountriesClient() *CountriesClient {
	return NewCountriesClientWithURL(countriesDefaultURL)
}

// NewCountriesClientWithURL constructs a CountriesClient pointing at a custom base URL (for tests).
func NewCountriesClientWithURL(baseURL string) *CountriesClient {
	return &CountriesClient{baseURL: baseURL, client: newHTTPClient()}
}

type restCountriesEntry struct {
	Capital    []string          `json:"capital"`
	Region     string            `json:"region"`
	Languages  map[string]string `json:"languages"`
	Currencies map[string]struct {
		Name string `json:"name"`
	} `json:"currencies"`
}

// Fetch retrieves facts for the named country.
func (c *CountriesClient) Fetch(ctx context.Context, country string) (*Country, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(country) + "?fullText=true"

	var raw []restCountriesEntry
	if err := doGet(ctx, c.client, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("restcountries fetch for %s: %w", country, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("restcountries: no results for %s", country)
	}

	entry := raw[0]
	out := &Country{
		Region:     entry.Region,
		Currencies: make(map[string]string, len(entry.Currencies)),
		Languages:  make([]string, 0, len(entry.Languages)),
	}
	for code, cur := range entry.Currencies {
		out.Currencies[code] = cur.Name
	}
	for _, lang := range entry.Languages {
		out.Languages = append(out.Languages, lang)
	}
	if len(entry.Capital) > 0 {
		out.Capital = entry.Capital[0]
	}
	return out, nil
}
