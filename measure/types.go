package measure

import (
	"errors"
	"io"
	"log/slog"
)

// Node and edge attributes written by this package.
const (
	// AttrNodeBetweenness is the normalized betweenness centrality of a
	// node on the unrestricted graph. The restricted variant carries the
	// SuffixRestricted suffix.
	AttrNodeBetweenness = "node_betweenness_normal"

	// SuffixRestricted marks attributes derived from the restricted
	// distance model.
	SuffixRestricted = "_restricted"

	// AttrRelativeIncrease is the per-edge relative travel increase
	// (d_N - d_S) / d_S between the edge's endpoints.
	AttrRelativeIncrease = "rel_increase"
)

// Unit selects the edge attribute shortest paths are weighted by.
// The zero value counts hops.
type Unit string

const (
	UnitTime     Unit = "time"
	UnitDistance Unit = "distance"
	UnitHops     Unit = ""
)

// Symbol returns the display symbol of the unit: "s", "m", "hops", or the
// custom attribute name in brackets.
func (u Unit) Symbol() string {
	switch u {
	case UnitTime:
		return "s"
	case UnitDistance:
		return "m"
	case UnitHops:
		return "hops"
	}
	return "(" + string(u) + ")"
}

// weight maps the unit onto the edge attribute it weighs paths by.
func (u Unit) weight() string {
	switch u {
	case UnitTime:
		return "travel_time"
	case UnitDistance:
		return "length"
	case UnitHops:
		return ""
	}
	return string(u)
}

var (
	// ErrBadPercentile is returned when a percentile threshold is not
	// strictly between 0 and 100.
	ErrBadPercentile = errors.New("measure: percentile must be in (0, 100)")

	// ErrMissingMatrix is returned when a measure needs a distance matrix
	// family that has not been computed.
	ErrMissingMatrix = errors.New("measure: required distance matrix missing")

	// ErrMissingBetweenness is returned when the high-betweenness analysis
	// runs before betweenness centrality has been written to the graph.
	ErrMissingBetweenness = errors.New("measure: node betweenness not computed")

	// ErrNoNodes is returned when a measure is asked about an empty graph.
	ErrNoNodes = errors.New("measure: graph has no nodes")
)

// Options configure the metric computation.
type Options struct {
	// Percentile is the betweenness percentile above which nodes count as
	// high-betweenness. Must be strictly between 0 and 100.
	Percentile float64

	// ReplaceMaxSpeeds selects the travel_time_restricted weight for the
	// restricted model when the unit is time, modelling LTN speed caps.
	ReplaceMaxSpeeds bool

	// NumWorkers and MaxMemFactor are forwarded to the restricted distance
	// computation.
	NumWorkers   int
	MaxMemFactor float64

	// Logger receives progress diagnostics.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults used by Metric: 90th percentile,
// restricted speed caps applied, distance-engine worker defaults, silent
// logger.
func DefaultOptions() Options {
	return Options{
		Percentile:       90,
		ReplaceMaxSpeeds: true,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPercentile sets the high-betweenness percentile threshold.
func WithPercentile(p float64) Option {
	return func(o *Options) { o.Percentile = p }
}

// WithReplaceMaxSpeeds toggles the LTN speed-cap weight for the restricted
// model.
func WithReplaceMaxSpeeds(replace bool) Option {
	return func(o *Options) { o.ReplaceMaxSpeeds = replace }
}

// WithNumWorkers forwards the worker count to the distance engine.
func WithNumWorkers(n int) Option {
	return func(o *Options) { o.NumWorkers = n }
}

// WithMaxMemFactor forwards the memory backpressure factor to the distance
// engine.
func WithMaxMemFactor(f float64) Option {
	return func(o *Options) { o.MaxMemFactor = f }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
