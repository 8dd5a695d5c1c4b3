// Sentinel errors, node ordering, and functional options for the distance
// computations.

package distance

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/urbanform/superblock/core"
)

// Sentinel errors for distance computations.
var (
	// ErrNilGraph is returned when a nil graph or edge set is passed.
	ErrNilGraph = errors.New("distance: graph is nil")

	// ErrNegativeWeight indicates a negative edge weight, which violates
	// the Dijkstra precondition.
	ErrNegativeWeight = errors.New("distance: negative edge weight")

	// ErrUnprojected indicates the graph lacks a projected (planar)
	// coordinate reference system, required for Euclidean distances.
	ErrUnprojected = errors.New("distance: graph is not projected")

	// ErrBadCoordinate indicates a node with a missing or non-finite
	// coordinate.
	ErrBadCoordinate = errors.New("distance: non-finite node coordinate")

	// ErrOrderMismatch indicates the node ordering references nodes absent
	// from the graph, or misses nodes the computation needs.
	ErrOrderMismatch = errors.New("distance: node order does not match graph")

	// ErrDuplicateName indicates two cells share a name, which would make
	// restricted routing ambiguous.
	ErrDuplicateName = errors.New("distance: duplicate cell name")

	// ErrCellOverlap indicates two cells share a node outside the
	// sparsified backbone.
	ErrCellOverlap = errors.New("distance: cells overlap")

	// ErrBadOption indicates an invalid option value.
	ErrBadOption = errors.New("distance: invalid option")
)

// NoPredecessor is the predecessor-matrix sentinel for unreachable pairs
// and the diagonal.
const NoPredecessor int32 = -9999

// NodeOrder fixes the row/column index assignment of every matrix in one
// computation session. The same NodeOrder must be used for the E, S and N
// matrices of a run for them to be comparable.
type NodeOrder struct {
	ids   []core.NodeID
	index map[core.NodeID]int
}

// NewNodeOrder builds an ordering from an explicit id sequence. Duplicate
// ids are rejected.
func NewNodeOrder(ids []core.NodeID) (*NodeOrder, error) {
	o := &NodeOrder{
		ids:   make([]core.NodeID, len(ids)),
		index: make(map[core.NodeID]int, len(ids)),
	}
	copy(o.ids, ids)
	for i, id := range ids {
		if _, dup := o.index[id]; dup {
			return nil, fmt.Errorf("distance: duplicate node %d in order: %w", id, ErrOrderMismatch)
		}
		o.index[id] = i
	}

	return o, nil
}

// OrderFromGraph builds the canonical ordering: the graph's nodes in
// ascending id order.
func OrderFromGraph(g *core.Graph) *NodeOrder {
	ids := g.Nodes()
	o := &NodeOrder{ids: ids, index: make(map[core.NodeID]int, len(ids))}
	for i, id := range ids {
		o.index[id] = i
	}

	return o
}

// Len reports the number of ordered nodes (the matrix dimension).
func (o *NodeOrder) Len() int { return len(o.ids) }

// ID returns the node id at matrix index i.
func (o *NodeOrder) ID(i int) core.NodeID { return o.ids[i] }

// IDs returns the ordered id sequence. The returned slice is the order's
// own; callers must not modify it.
func (o *NodeOrder) IDs() []core.NodeID { return o.ids }

// IndexOf returns the matrix index of a node id.
func (o *NodeOrder) IndexOf(id core.NodeID) (int, bool) {
	i, ok := o.index[id]
	return i, ok
}

// Options tune the restricted-distance computation.
type Options struct {
	// NumWorkers bounds the worker pool for per-cell shortest-path runs.
	// Defaults to min(32, NumCPU+4).
	NumWorkers int

	// MaxMemFactor in (0, 1] scales how many cell frontiers may be in
	// flight at once: effective concurrency is
	// max(1, round(MaxMemFactor·NumWorkers)). Lower values trade
	// wall-clock time for a smaller peak RSS.
	MaxMemFactor float64

	// CheckOverlap re-validates that cells do not overlap outside the
	// backbone before computing. The validity checker performs the same
	// test; the restricted computation keeps its own because it is a
	// public entry point that may run on an unvalidated partitioning.
	CheckOverlap bool

	// Logger receives progress diagnostics. Defaults to a discard logger.
	Logger *slog.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults described on Options.
func DefaultOptions() Options {
	return Options{
		NumWorkers:   min(32, runtime.NumCPU()+4),
		MaxMemFactor: 1.0,
		CheckOverlap: true,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithNumWorkers sets the worker pool size (must be > 0).
func WithNumWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.NumWorkers = n
		}
	}
}

// WithMaxMemFactor sets the memory factor; values outside (0, 1] are
// clamped into the interval.
func WithMaxMemFactor(f float64) Option {
	return func(o *Options) {
		switch {
		case f <= 0:
			o.MaxMemFactor = 0 // degrades to a single frontier in flight
		case f > 1:
			o.MaxMemFactor = 1
		default:
			o.MaxMemFactor = f
		}
	}
}

// WithCheckOverlap toggles the defensive overlap re-validation.
func WithCheckOverlap(check bool) Option {
	return func(o *Options) { o.CheckOverlap = check }
}

// WithLogger injects a structured logger for progress diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}
