// Package metrics sends auction counters to a DogStatsD agent.
//
// Naming convention:
//   - counters: <subject>.<event>, e.g. bids.accepted
//   - gauges: <subject>.count
//   - durations: *.time
package metrics

import (
	"fmt"
	"strings"
	"time"

	"auction-house/utils"

	"github.com/DataDog/datadog-go/statsd"
)

const (
	// DefaultNamespace prefixes every metric name
	DefaultNamespace = "auction_house."

	sampleRate = 1
)

// Client is the subset of the statsd client the recorder uses
type Client interface {
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Close() error
}

// Recorder bumps metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	client Client
}

// NewStatsd dials a DogStatsD agent at addr ("host:port")
func NewStatsd(addr string) (*Recorder, error) {
	client, err := statsd.New(addr, statsd.WithNamespace(DefaultNamespace))
	if err != nil {
		return nil, fmt.Errorf("metrics: dial statsd %s: %w", addr, err)
	}
	return &Recorder{client: client}, nil
}

// Nop returns a recorder that drops everything
func Nop() *Recorder {
	return nil
}

// New wraps an existing client
func New(client Client) *Recorder {
	return &Recorder{client: client}
}

// BumpSum adds val to the counter key. Tags are key/value pairs.
func (r *Recorder) BumpSum(key string, val int64, tags ...string) {
	if r == nil {
		return
	}
	if err := r.client.Count(key, val, parseTags(tags), sampleRate); err != nil {
		utils.Warn("metrics: bump sum failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// Gauge sets the current value of key
func (r *Recorder) Gauge(key string, val float64, tags ...string) {
	if r == nil {
		return
	}
	if err := r.client.Gauge(key, val, parseTags(tags), sampleRate); err != nil {
		utils.Warn("metrics: gauge failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// BumpTime reports the time elapsed since start under key
func (r *Recorder) BumpTime(key string, start time.Time, tags ...string) {
	if r == nil {
		return
	}
	if err := r.client.Timing(key, time.Since(start), parseTags(tags), sampleRate); err != nil {
		utils.Warn("metrics: bump time failed", map[string]any{"key": key, "error": err.Error()})
	}
}

// Close flushes buffered metrics
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.client.Close()
}

// parseTags turns ("k1", "v1", "k2", "v2") into ["k1:v1", "k2:v2"]. A
// trailing key without a value is dropped.
func parseTags(tags []string) []string {
	if len(tags) < 2 {
		return nil
	}
	out := make([]string, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		out = append(out, tags[i]+":"+strings.ReplaceAll(tags[i+1], ":", "_"))
	}
	return out
}
