package partition

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/urbanform/superblock/attribute"
	"github.com/urbanform/superblock/config"
	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
	"github.com/urbanform/superblock/measure"
)

// Partitioner drives one partitioning run over a graph it does not own.
// The graph is mutated in place (partition attributes, betweenness,
// relative increase) but never destroyed.
type Partitioner struct {
	graph *core.Graph
	name  string

	state    State
	strategy Strategy
	logger   *slog.Logger

	attributeLabel string
	attrMin        float64
	attrMax        float64

	// partitions are one view per attribute value; components split each
	// partition into its weakly connected pieces. Distance and metric
	// computations consume components.
	partitions []Component
	components []Component
	sparsified *core.View

	metric *measure.Metric
}

// New creates a Partitioner in the Created state.
func New(g *core.Graph, name string, strategy Strategy, opts ...Option) *Partitioner {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Partitioner{
		graph:    g,
		name:     name,
		strategy: strategy,
		logger:   cfg.Logger,
		attrMin:  math.NaN(),
		attrMax:  math.NaN(),
	}
	p.logger.Info("partitioner initialized",
		"name", name, "nodes", g.NumNodes(), "edges", g.NumEdges())
	return p
}

// Name returns the run name.
func (p *Partitioner) Name() string { return p.name }

// Graph returns the shared parent graph.
func (p *Partitioner) Graph() *core.Graph { return p.graph }

// State returns the lifecycle phase.
func (p *Partitioner) State() State { return p.state }

// AttributeLabel returns the edge attribute encoding the partition
// assignment. Empty before a successful run.
func (p *Partitioner) AttributeLabel() string { return p.attributeLabel }

// Partitions returns one component per strategy group, possibly internally
// disconnected. Nil before a successful run.
func (p *Partitioner) Partitions() []Component { return p.partitions }

// Components returns the weakly connected cells of the partitioning. Nil
// before a successful run.
func (p *Partitioner) Components() []Component { return p.components }

// Sparsified returns the backbone view. Nil before a successful run.
func (p *Partitioner) Sparsified() *core.View { return p.sparsified }

// Metric returns the computed metric, or nil before ComputeMetrics.
func (p *Partitioner) Metric() *measure.Metric { return p.metric }

// SetAttributeMinMax records the value range of the partition attribute
// for the plotting collaborator.
func (p *Partitioner) SetAttributeMinMax(lo, hi float64) error {
	if !(lo < hi) {
		return fmt.Errorf("partition: minmax (%v, %v): %w", lo, hi, ErrBadRange)
	}
	p.attrMin, p.attrMax = lo, hi
	return nil
}

// AttributeMinMax returns the recorded attribute range, NaN when unset.
func (p *Partitioner) AttributeMinMax() (lo, hi float64) { return p.attrMin, p.attrMax }

// Run executes the strategy and builds a validated partitioning. Only
// legal in the Created state. On any failure the partitioner reverts to
// Created with no partial partition exposed; the degenerate ErrNoPeaks of
// the bearing strategy surfaces unwrapped in the chain so callers can
// treat it as "strategy inapplicable".
func (p *Partitioner) Run() error {
	if p.state != Created {
		return fmt.Errorf("partition: run in state %s: %w", p.state, ErrWrongState)
	}
	p.state = Running
	p.logger.Info("partitioning started", "name", p.name)

	if err := p.run(); err != nil {
		p.state = Created
		p.partitions, p.components, p.sparsified = nil, nil, nil
		p.attributeLabel = ""
		p.logger.Warn("partitioning failed", "name", p.name, "err", err)
		return err
	}

	p.state = Partitioned
	p.logger.Info("partitioning done",
		"name", p.name, "components", len(p.components))
	return nil
}

func (p *Partitioner) run() error {
	label, groups, err := p.strategy.Apply(p.graph, p.logger)
	if err != nil {
		return fmt.Errorf("partition: strategy: %w", err)
	}
	p.attributeLabel = label

	p.makeSubgraphs(groups)
	p.deriveSparsified()

	if err := Validate(p.graph, p.components, p.sparsified, p.logger); err != nil {
		return fmt.Errorf("partition: invalid partitioning: %w", err)
	}
	return nil
}

// makeSubgraphs builds one partition view per group and splits each into
// weakly connected components named "<group>_<i>".
func (p *Partitioner) makeSubgraphs(groups []Group) {
	p.partitions = p.partitions[:0]
	p.components = p.components[:0]
	for _, grp := range groups {
		sub := attribute.EdgeSubgraph(p.graph, p.attributeLabel, grp.Value)
		p.partitions = append(p.partitions, Component{
			Name: grp.Name, Value: grp.Value, Subgraph: sub,
		})
		for i, piece := range splitWeakComponents(sub) {
			p.components = append(p.components, Component{
				Name:     fmt.Sprintf("%s_%d", grp.Name, i),
				Value:    grp.Value,
				Subgraph: piece,
			})
		}
	}
}

// deriveSparsified collects every edge belonging to no partition, plus its
// endpoints, into the backbone view.
func (p *Partitioner) deriveSparsified() {
	taken := make(map[core.EdgeKey]struct{})
	for _, part := range p.partitions {
		for _, e := range part.Subgraph.Edges() {
			taken[e.ID()] = struct{}{}
		}
	}
	sparse := core.NewView(p.graph)
	for _, e := range p.graph.Edges() {
		if _, ok := taken[e.ID()]; ok {
			continue
		}
		// Membership in the parent graph is guaranteed here.
		_ = sparse.AddEdge(e.ID())
	}
	p.sparsified = sparse
}

// splitWeakComponents returns one view per weakly connected piece of sub.
func splitWeakComponents(sub *core.View) []*core.View {
	adj := make(map[core.NodeID][]core.NodeID)
	for _, e := range sub.Edges() {
		adj[e.U] = append(adj[e.U], e.V)
		adj[e.V] = append(adj[e.V], e.U)
	}

	seen := make(map[core.NodeID]struct{})
	var pieces []*core.View
	for _, start := range sub.Nodes() {
		if _, ok := seen[start]; ok {
			continue
		}
		members := map[core.NodeID]struct{}{start: {}}
		seen[start] = struct{}{}
		queue := []core.NodeID{start}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range adj[u] {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				members[v] = struct{}{}
				queue = append(queue, v)
			}
		}

		piece := core.NewView(sub.Parent())
		for id := range members {
			_ = piece.AddNode(id)
		}
		for _, e := range sub.Edges() {
			if _, ok := members[e.U]; ok {
				_ = piece.AddEdge(e.ID())
			}
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// ComputeMetrics runs the metric aggregation over the finished
// partitioning. Only legal in the Partitioned state; a failure leaves the
// partitioner Partitioned and the previous metric untouched. For the time
// unit the restricted travel times are derived first from the configured
// LTN and backbone speed caps.
func (p *Partitioner) ComputeMetrics(ctx context.Context, unit measure.Unit, vMaxLTN, vMaxSparse float64, opts ...measure.Option) (*measure.Metric, error) {
	if p.state != Partitioned {
		return nil, fmt.Errorf("partition: compute metrics in state %s: %w", p.state, ErrWrongState)
	}

	if unit == measure.UnitTime {
		p.WriteRestrictedTravelTimes(vMaxLTN, vMaxSparse)
	}

	cells := make([]distance.Cell, len(p.components))
	for i, comp := range p.components {
		cells[i] = distance.Cell{Name: comp.Name, Subgraph: comp.Subgraph}
	}

	metric := measure.NewMetric(unit)
	opts = append(opts, measure.WithLogger(p.logger))
	if err := metric.CalculateAll(ctx, p.graph, cells, p.sparsified, opts...); err != nil {
		return nil, fmt.Errorf("partition: metrics for %s: %w", p.name, err)
	}

	p.metric = metric
	p.state = MetricsComputed
	return metric, nil
}

// ComputeMetricsWith is ComputeMetrics driven by run-wide settings: speed
// caps, clustering percentile, and parallelism all come from cfg.
func (p *Partitioner) ComputeMetricsWith(ctx context.Context, unit measure.Unit, cfg config.Config) (*measure.Metric, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return p.ComputeMetrics(ctx, unit, cfg.VMaxLTN, cfg.VMaxSparse,
		measure.WithPercentile(cfg.ClusteringPercentile),
		measure.WithNumWorkers(cfg.NumWorkers),
		measure.WithMaxMemFactor(cfg.MaxMemFactor),
	)
}

// WriteRestrictedTravelTimes derives travel_time_restricted for every edge
// from its length and a speed cap in km/h: the backbone cap for sparsified
// edges, the LTN cap inside cells.
func (p *Partitioner) WriteRestrictedTravelTimes(vMaxLTN, vMaxSparse float64) {
	for _, e := range p.graph.Edges() {
		vmax := vMaxLTN
		if p.sparsified != nil && p.sparsified.HasEdge(e.ID()) {
			vmax = vMaxSparse
		}
		e.TravelTimeRestricted = e.Length / (vmax / 3.6)
	}
}
