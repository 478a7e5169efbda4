package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// CreatedAtLayout is the provider's created_at format.
	CreatedAtLayout = "2006-01-02T15:04:05Z"

	// DisplayLayout is the chart axis label format.
	DisplayLayout = "15:04"
)

var (
	errMissingTimestamp = errors.New("created_at missing")
	errNotFinite        = errors.New("value is not finite")
)

// Reshape converts provider feeds (newest first) into a Series ordered oldest
// first. Entries with an unusable timestamp are dropped; unusable readings
// become nil. It returns the series and the number of dropped entries.
func Reshape(log zerolog.Logger, feeds []json.RawMessage) (*Series, int) {
	series := newSeries(len(feeds))
	skipped := 0

	for i := len(feeds) - 1; i >= 0; i-- {
		var e entry
		if err := json.Unmarshal(feeds[i], &e); err != nil {
			log.Error().Err(err).Int("index", i).Msg("error processing feed entry")
			skipped++
			continue
		}

		ts, err := parseTimestamp(e.CreatedAt)
		if err != nil {
			log.Error().Err(err).Int("index", i).Msg("error processing feed entry")
			skipped++
			continue
		}

		temperature, err := parseReading(e.Field1)
		if err != nil {
			log.Warn().Err(err).RawJSON("value", e.Field1).Msg("invalid temperature value")
		}

		distance, err := parseReading(e.Field2)
		if err != nil {
			log.Warn().Err(err).RawJSON("value", e.Field2).Msg("invalid distance value")
		}

		series.append(ts.Format(DisplayLayout), temperature, distance)
	}

	return series, skipped
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if isAbsent(raw) {
		return time.Time{}, errMissingTimestamp
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("created_at: %w", err)
	}

	ts, err := time.Parse(CreatedAtLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_at: %w", err)
	}
	return ts, nil
}

// parseReading returns nil without error for an absent or null value, and nil
// with an error for a value that is present but not a finite number.
// Numbers may arrive as JSON strings or JSON numbers.
func parseReading(raw json.RawMessage) (*float64, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	var v float64
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, err
		}
		v = parsed
	} else if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errNotFinite
	}

	rounded := roundTenths(v)
	return &rounded, nil
}

// roundTenths rounds the exact binary value to one decimal, ties to even.
func roundTenths(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
