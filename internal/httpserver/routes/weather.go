package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerWeather) }

func registerWeather(r chi.Router, d deps.Deps) {
	r.Get("/api/weather", handlers.Weather(d))
	r.Get("/api/weather/forecast", handlers.WeatherForecast(d))
}
