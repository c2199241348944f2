package dispatchy

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Weather and geolocation API constants
const (
	openWeatherBaseURL    = "https://api.openweathermap.org"
	openWeatherPath       = "/data/2.5/weather"
	openWeatherUnits      = "imperial"
	ipLocateBaseURL       = "http://ip-api.com"
	ipLocatePath          = "/json/"
	weatherRequestTimeout = 15 * time.Second
)

// Location is a geographic position resolved from the caller's IP.
type Location struct {
	City      string
	Latitude  float64
	Longitude float64
}

// WeatherReport is the current-conditions summary used for spoken responses.
type WeatherReport struct {
	City        string
	Description string
	Temperature float64
	FeelsLike   float64
}

// WeatherClient looks up current conditions through OpenWeather and resolves
// the caller's location through ip-api.com.
type WeatherClient struct {
	weather *resty.Client
	locate  *resty.Client
	apiKey  string
}

// NewWeatherClient creates a client authenticated with the given
// OpenWeather API key.
func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		weather: resty.New().
			SetBaseURL(openWeatherBaseURL).
			SetTimeout(weatherRequestTimeout),
		locate: resty.New().
			SetBaseURL(ipLocateBaseURL).
			SetTimeout(weatherRequestTimeout),
		apiKey: apiKey,
	}
}

// ipLocateResponse is the subset of the ip-api response the client reads.
type ipLocateResponse struct {
	Status string  `json:"status"`
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locate resolves the machine's approximate location from its public IP.
func (c *WeatherClient) Locate(ctx context.Context) (Location, error) {
	var result ipLocateResponse
	resp, err := c.locate.R().
		SetContext(ctx).
		SetResult(&result).
		Get(ipLocatePath)
	if err != nil {
		return Location{}, NewCapabilityError(ErrMsgLocationLookup, err)
	}
	if resp.IsError() || result.Status != "success" {
		return Location{}, NewCapabilityStatusError(ErrMsgLocationLookup, resp.StatusCode())
	}
	return Location{City: result.City, Latitude: result.Lat, Longitude: result.Lon}, nil
}

// openWeatherResponse is the subset of the weather response the client reads.
type openWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
	} `json:"main"`
}

// Current fetches the current conditions at the given coordinates.
func (c *WeatherClient) Current(ctx context.Context, loc Location) (WeatherReport, error) {
	var result openWeatherResponse
	resp, err := c.weather.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			"lon":   strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
			"units": openWeatherUnits,
			"appid": c.apiKey,
		}).
		SetResult(&result).
		Get(openWeatherPath)
	if err != nil {
		return WeatherReport{}, NewCapabilityError(ErrMsgWeatherLookup, err)
	}
	if resp.IsError() {
		return WeatherReport{}, NewCapabilityStatusError(ErrMsgWeatherLookup, resp.StatusCode())
	}

	report := WeatherReport{
		City:        result.Name,
		Temperature: result.Main.Temp,
		FeelsLike:   result.Main.FeelsLike,
	}
	if report.City == "" {
		report.City = loc.City
	}
	if len(result.Weather) > 0 {
		report.Description = result.Weather[0].Description
	}
	return report, nil
}
