// Package feed fetches recent sensor readings for a channel and reshapes them
// into aligned time series for charting.
package feed

import (
	"context"
	"encoding/json"
	"errors"
)

// Feed errors.
var (
	// ErrFetch covers transport failures, timeouts, non-success statuses and
	// undecodable provider responses.
	ErrFetch = errors.New("fetching feeds failed")

	// ErrNoData is returned when the provider answered but had no feeds.
	ErrNoData = errors.New("no feed data available")
)

// Provider is an upstream telemetry source.
type Provider interface {
	// GetFeeds returns the channel's feed entries in provider order
	// (newest first). A missing or empty feed list is returned as nil.
	GetFeeds(ctx context.Context, channelID, apiKey string) ([]json.RawMessage, error)

	// Name returns the provider name for logging.
	Name() string
}

// Series holds index-aligned samples ordered oldest to newest.
// A nil reading marks a value that was missing or could not be parsed.
type Series struct {
	Timestamps  []string   `json:"timestamps"`
	Temperature []*float64 `json:"temperature"`
	Distance    []*float64 `json:"distance"`
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Timestamps)
}

func newSeries(capacity int) *Series {
	return &Series{
		Timestamps:  make([]string, 0, capacity),
		Temperature: make([]*float64, 0, capacity),
		Distance:    make([]*float64, 0, capacity),
	}
}

func (s *Series) append(timestamp string, temperature, distance *float64) {
	s.Timestamps = append(s.Timestamps, timestamp)
	s.Temperature = append(s.Temperature, temperature)
	s.Distance = append(s.Distance, distance)
}

// entry is one feed record as delivered by the provider. Fields stay raw so
// each one can fail independently.
type entry struct {
	CreatedAt json.RawMessage `json:"created_at"`
	Field1    json.RawMessage `json:"field1"`
	Field2    json.RawMessage `json:"field2"`
}
