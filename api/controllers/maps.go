package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gaslink/gaslink-backend/api/responses"
	pkgerrors "github.com/gaslink/gaslink-backend/pkg/errors"
	"github.com/gaslink/gaslink-backend/pkg/logger"
	"github.com/gaslink/gaslink-backend/pkg/maps"
)

// MapsSearch proxies a keyword search to the maps provider.
func MapsSearch(client *maps.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "maps client unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		places, err := client.SearchKeyword(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "maps search"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": places})
	}
}

// MapsReverse resolves coordinates to an address.
func MapsReverse(client *maps.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "maps client unavailable"))
			return
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lat")), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get("lng")), 64)
		if latErr != nil || lngErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be numeric"))
			return
		}

		address, err := client.ReverseGeocode(r.Context(), lat, lng)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reverse geocode"))
			return
		}
		responses.WriteSuccess(w, address)
	}
}
