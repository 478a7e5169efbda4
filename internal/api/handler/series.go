package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nodewatch/nodewatch/internal/api/models"
	"github.com/nodewatch/nodewatch/internal/api/response"
	"github.com/nodewatch/nodewatch/internal/feed"
)

// SeriesFetcher fetches the reshaped series for a channel.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, channelID, apiKey string) (*feed.Series, error)
}

// SeriesHandler serves channel time series.
type SeriesHandler struct {
	fetcher SeriesFetcher
	logger  zerolog.Logger
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(fetcher SeriesFetcher, logger zerolog.Logger) *SeriesHandler {
	return &SeriesHandler{
		fetcher: fetcher,
		logger:  logger,
	}
}

// GetSeries handles GET /api/data/{channelID}/{apiKey}.
func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")
	apiKey := chi.URLParam(r, "apiKey")

	series, err := h.fetcher.FetchSeries(r.Context(), channelID, apiKey)
	switch {
	case err == nil:
		response.JSON(w, r, http.StatusOK, series)
	case errors.Is(err, feed.ErrNoData):
		response.NotFound(w, r, models.MessageNoData)
	default:
		if !errors.Is(err, feed.ErrFetch) {
			h.logger.Error().Err(err).Str("channel_id", channelID).Msg("unexpected error loading series")
		}
		response.InternalError(w, r, models.MessageLoadFailed)
	}
}
