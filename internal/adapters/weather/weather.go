// Package weather pulls current conditions and a daily forecast from
// Open-Meteo. Weather is the one optional integration that is silent when
// off: no coordinates means "nothing to show", never an error, and an
// upstream timeout degrades to a structured indicator because the dashboard
// should not lose a whole poll to a slow forecast.
package weather

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "weather"

const baseURL = "https://api.open-meteo.com/v1/forecast"

type Client struct {
	cfg config.WeatherSettings

	http *upstream.Client

	// BaseURL and Timeout are overridable for tests.
	BaseURL string
	Timeout time.Duration
}

func New(cfg config.WeatherSettings, httpc *upstream.Client) *Client {
	return &Client{cfg: cfg, http: httpc, BaseURL: baseURL}
}

func (c *Client) Configured() bool { return c.cfg.Configured() }

func (c *Client) coords() url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(*c.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(*c.cfg.Longitude, 'f', -1, 64))
	q.Set("timezone", c.cfg.Timezone)
	return q
}

// intBool coerces Open-Meteo's 0/1 flags. Absence stays nil; it must never
// collapse to false.
type intBool struct {
	value *bool
}

func (b *intBool) UnmarshalJSON(raw []byte) error {
	switch string(raw) {
	case "0":
		v := false
		b.value = &v
	case "1":
		v := true
		b.value = &v
	}
	return nil
}

type currentResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature *float64 `json:"temperature_2m"`
		Apparent    *float64 `json:"apparent_temperature"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WeatherCode *int     `json:"weather_code"`
		IsDay       intBool  `json:"is_day"`
	} `json:"current"`
}

// Current is the normalized conditions payload. Configured=false means the
// integration is off; TimedOut=true means the upstream did not answer in
// time and the rest of the fields are absent.
type Current struct {
	Configured  bool     `json:"configured"`
	TimedOut    bool     `json:"timedOut,omitempty"`
	Label       string   `json:"label,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Temperature *float64 `json:"temperature"`
	Apparent    *float64 `json:"apparentTemperature"`
	Humidity    *float64 `json:"humidity"`
	WindSpeed   *float64 `json:"windSpeed"`
	WeatherCode *int     `json:"weatherCode"`
	IsDay       *bool    `json:"isDay"`
}

func (c *Client) Current(ctx context.Context) (*Current, error) {
	if !c.cfg.Configured() {
		return &Current{Configured: false}, nil
	}

	q := c.coords()
	q.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,weather_code,is_day")

	var resp currentResponse
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     c.BaseURL,
		Query:   q,
		Timeout: c.Timeout,
	}, &resp)
	if err != nil {
		if upstream.IsTimeout(err) {
			return &Current{Configured: true, TimedOut: true, Label: c.cfg.Label}, nil
		}
		return nil, err
	}

	return &Current{
		Configured:  true,
		Label:       c.cfg.Label,
		Timezone:    resp.Timezone,
		Temperature: resp.Current.Temperature,
		Apparent:    resp.Current.Apparent,
		Humidity:    resp.Current.Humidity,
		WindSpeed:   resp.Current.WindSpeed,
		WeatherCode: resp.Current.WeatherCode,
		IsDay:       resp.Current.IsDay.value,
	}, nil
}

type forecastResponse struct {
	Timezone string `json:"timezone"`
	Daily    struct {
		Time         []string   `json:"time"`
		WeatherCode  []*int     `json:"weather_code"`
		TempMin      []*float64 `json:"temperature_2m_min"`
		TempMax      []*float64 `json:"temperature_2m_max"`
		PrecipChance []*float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// ForecastDay is one day of the daily forecast.
type ForecastDay struct {
	Date         string   `json:"date"`
	WeatherCode  *int     `json:"weatherCode"`
	TempMin      *float64 `json:"tempMin"`
	TempMax      *float64 `json:"tempMax"`
	PrecipChance *float64 `json:"precipChance"`
}

// Forecast mirrors Current's degradation contract.
type Forecast struct {
	Configured bool          `json:"configured"`
	TimedOut   bool          `json:"timedOut,omitempty"`
	Label      string        `json:"label,omitempty"`
	Timezone   string        `json:"timezone,omitempty"`
	Days       []ForecastDay `json:"days"`
}

// DailyForecast fetches up to days of forecast; days is clamped to [1, 14].
func (c *Client) DailyForecast(ctx context.Context, days int) (*Forecast, error) {
	if !c.cfg.Configured() {
		return &Forecast{Configured: false}, nil
	}
	if days < 1 {
		days = 1
	}
	if days > 14 {
		days = 14
	}

	q := c.coords()
	q.Set("daily", "weather_code,temperature_2m_min,temperature_2m_max,precipitation_probability_max")
	q.Set("forecast_days", strconv.Itoa(days))

	var resp forecastResponse
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     c.BaseURL,
		Query:   q,
		Timeout: c.Timeout,
	}, &resp)
	if err != nil {
		if upstream.IsTimeout(err) {
			return &Forecast{Configured: true, TimedOut: true, Label: c.cfg.Label}, nil
		}
		return nil, err
	}

	out := &Forecast{
		Configured: true,
		Label:      c.cfg.Label,
		Timezone:   resp.Timezone,
		Days:       make([]ForecastDay, 0, len(resp.Daily.Time)),
	}
	for i, date := range resp.Daily.Time {
		day := ForecastDay{Date: date}
		if i < len(resp.Daily.WeatherCode) {
			day.WeatherCode = resp.Daily.WeatherCode[i]
		}
		if i < len(resp.Daily.TempMin) {
			day.TempMin = resp.Daily.TempMin[i]
		}
		if i < len(resp.Daily.TempMax) {
			day.TempMax = resp.Daily.TempMax[i]
		}
		if i < len(resp.Daily.PrecipChance) {
			day.PrecipChance = resp.Daily.PrecipChance[i]
		}
		out.Days = append(out.Days, day)
	}
	return out, nil
}
