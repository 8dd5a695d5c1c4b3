package partition

import (
	"errors"
	"io"
	"log/slog"

	"github.com/urbanform/superblock/core"
)

// Attribute names written by this package.
const (
	// AttrBearing90 is the edge bearing reduced modulo 90 degrees.
	AttrBearing90 = "bearing_90"

	// AttrBearingGroup is the bearing-interval center an edge was assigned
	// to by the bearing strategy.
	AttrBearingGroup = "bearing_group"

	// AttrHighlight tags the edges of a disconnected component for an
	// external plotter. Set to 1 while reporting the failure, reset to NaN
	// afterwards.
	AttrHighlight = "highlight"

	// SparseClassification is the classification value exported for edges
	// of the sparsified backbone.
	SparseClassification = "SPARSE"
)

var (
	// ErrWrongState is returned when an operation is called outside the
	// lifecycle phase it belongs to.
	ErrWrongState = errors.New("partition: operation not allowed in current state")

	// ErrNoPeaks is the degenerate-input outcome of the bearing strategy:
	// the bearing histogram has no prominent peaks, so the strategy is
	// inapplicable to the graph. Expected on small synthetic graphs.
	ErrNoPeaks = errors.New("partition: no bearing peaks found")

	// ErrBadBins is returned when the bearing histogram is requested with
	// fewer than 360 bins.
	ErrBadBins = errors.New("partition: at least 360 bearing bins required")

	// ErrIdenticalBases is returned when two peaks share both bases, which
	// makes boundary finding ambiguous. The bearing data is too coarse.
	ErrIdenticalBases = errors.New("partition: identical peak bases, bearing data too coarse")

	// ErrBadRange is returned for a malformed attribute min/max range.
	ErrBadRange = errors.New("partition: malformed minmax range")

	// ErrNoSparsified is returned when an export or validation runs on a
	// partitioner without a sparsified backbone.
	ErrNoSparsified = errors.New("partition: no sparsified subgraph")

	// ErrNoComponents is returned when an export runs on a partitioner
	// without components or partitions.
	ErrNoComponents = errors.New("partition: no components or partitions")

	// ErrMalformedComponent is returned when a component misses its name
	// or subgraph.
	ErrMalformedComponent = errors.New("partition: malformed component")
)

// Validity check failures, in check order. Validate wraps these with the
// offending names.
var (
	ErrSparseDisconnected    = errors.New("partition: sparsified graph is not connected")
	ErrComponentDisconnected = errors.New("partition: component is not connected")
	ErrNodeOverlap           = errors.New("partition: components share nodes")
	ErrMissingNodes          = errors.New("partition: nodes in no component and not sparsified")
	ErrEdgeOverlap           = errors.New("partition: edge sets overlap")
	ErrMissingEdges          = errors.New("partition: edges in no component and not sparsified")
	ErrNotTouchingSparse     = errors.New("partition: component shares no node with sparsified graph")
)

// Component is one partition cell: a named read/write view over a disjoint
// part of the parent graph. Value is the partition attribute value whose
// edges the cell was built from.
type Component struct {
	Name     string
	Value    float64
	Subgraph *core.View
}

// State is the lifecycle phase of a Partitioner.
type State int

const (
	// Created: constructed, not yet partitioned.
	Created State = iota
	// Running: a strategy run is in progress.
	Running
	// Partitioned: a valid partitioning exists.
	Partitioned
	// MetricsComputed: terminal; the metric has been computed and stored.
	MetricsComputed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Partitioned:
		return "partitioned"
	case MetricsComputed:
		return "metrics_computed"
	}
	return "unknown"
}

// Strategy produces a partition assignment on the graph. Apply writes the
// assignment as an edge attribute and returns the attribute name together
// with the partition values present. Edges left without the attribute (NaN)
// fall to the sparsified backbone.
type Strategy interface {
	// Apply partitions g in place.
	Apply(g *core.Graph, logger *slog.Logger) (label string, parts []Group, err error)
}

// Group names one partition attribute value produced by a strategy.
type Group struct {
	Name  string
	Value float64
}

// Options configure a Partitioner.
type Options struct {
	// Logger receives lifecycle and validation diagnostics.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns a silent logger.
func DefaultOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
