package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodewatch/nodewatch/internal/provider/resilience"
	"github.com/nodewatch/nodewatch/internal/telemetry"
)

const tracerName = "github.com/nodewatch/nodewatch/internal/feed"

// ServiceConfig holds configuration for the feed service.
type ServiceConfig struct {
	// Provider is the upstream telemetry source.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// Health receives the outcome of every provider call (optional).
	Health *resilience.Registry

	// Metrics records provider call duration and dropped entries (optional).
	Metrics *telemetry.ProviderMetrics
}

// Service fetches and reshapes channel feeds. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	health   *resilience.Registry
	metrics  *telemetry.ProviderMetrics
	tracer   trace.Tracer
}

// NewService creates a new feed service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		health:   cfg.Health,
		metrics:  cfg.Metrics,
		tracer:   telemetry.Tracer(tracerName),
	}
}

// FetchSeries fetches the most recent feeds of a channel and returns them as
// an oldest-first Series. The returned error wraps either ErrFetch or ErrNoData.
func (s *Service) FetchSeries(ctx context.Context, channelID, apiKey string) (*Series, error) {
	ctx, span := s.tracer.Start(ctx, "feed.FetchSeries",
		trace.WithAttributes(
			attribute.String("provider.name", s.provider.Name()),
			attribute.String("channel.id", channelID),
		),
	)
	defer span.End()

	log := s.logger.With().
		Str("provider", s.provider.Name()).
		Str("channel_id", channelID).
		Logger()

	start := time.Now()
	feeds, err := s.provider.GetFeeds(ctx, channelID, apiKey)
	s.metrics.RecordRequest(ctx, s.provider.Name(), "feeds", time.Since(start), err)

	if err != nil {
		if s.health != nil {
			s.health.RecordFailure(s.provider.Name(), err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		log.Error().Err(err).Msg("error fetching feeds")

		if errors.Is(err, ErrFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if s.health != nil {
		s.health.RecordSuccess(s.provider.Name())
	}

	if len(feeds) == 0 {
		log.Warn().Msg("provider returned no feeds")
		span.SetAttributes(attribute.Int("feed.count", 0))
		return nil, ErrNoData
	}

	series, skipped := Reshape(log, feeds)
	s.metrics.RecordSkipped(ctx, s.provider.Name(), skipped)

	span.SetAttributes(
		attribute.Int("feed.count", len(feeds)),
		attribute.Int("feed.skipped", skipped),
	)

	return series, nil
}
