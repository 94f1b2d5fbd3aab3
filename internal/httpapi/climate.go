package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/climatewidget/internal/api"
	middleware "github.com/tejusbharadwaj/climatewidget/internal/httpapi/middlewares"
)

// RawFetcher returns the upstream climate JSON unchanged.
type RawFetcher interface {
	FetchRaw(ctx context.Context) (json.RawMessage, error)
}

// ClimateController proxies the upstream sensor API.
type ClimateController struct {
	upstream RawFetcher
	logger   *logrus.Logger
}

func NewClimateController(upstream RawFetcher, logger *logrus.Logger) *ClimateController {
	return &ClimateController{upstream: upstream, logger: logger}
}

// Latest serves GET /v1/climate/latest. Upstream status failures map to 502,
// anything else that goes wrong maps to 500.
func (c *ClimateController) Latest(w http.ResponseWriter, r *http.Request) {
	logger := c.logger.WithField("request_id", middleware.RequestID(r.Context()))

	body, err := c.upstream.FetchRaw(r.Context())
	if err != nil {
		var failure *api.PollFailure
		if errors.As(err, &failure) && errors.Is(err, api.ErrStatus) {
			logger.WithField("status", failure.StatusCode).Error("Climate API error")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to fetch climate data"})
			return
		}
		logger.WithError(err).Error("Error fetching climate data")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.WithError(err).Warn("Failed to write climate response")
	}
}
