package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
)

func Weather(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := d.Weather.Current(r.Context())
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, current)
	}
}

func WeatherForecast(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", 7)
		forecast, err := d.Weather.DailyForecast(r.Context(), days)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, forecast)
	}
}
