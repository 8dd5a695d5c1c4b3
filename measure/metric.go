package measure

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urbanform/superblock/core"
	"github.com/urbanform/superblock/distance"
)

// Matrix family labels.
const (
	LabelEuclidean  = "E"
	LabelShortest   = "S"
	LabelRestricted = "N"
)

// Metric holds the quality measures of one partitioning run together with
// the intermediate distance and predecessor matrices they were derived
// from. Scalar fields and map entries are NaN until computed.
//
// Directness keys pair two matrix labels, numerator first: "SN" is
// mean(d_S/d_N). Efficiency keys read the same way: "NS" is
// sum(1/d_N)/sum(1/d_S).
type Metric struct {
	Coverage      float64
	NumComponents int

	AvgPathLength    map[string]float64
	Directness       map[string]float64
	GlobalEfficiency map[string]float64

	HighBCClustering float64
	HighBCAnisotropy float64

	DistanceMatrix    map[string]*distance.Matrix
	PredecessorMatrix map[string]*distance.Predecessors

	Unit     Unit
	NodeList []core.NodeID
}

// NewMetric returns an empty metric for the given unit. All measures are
// NaN; the declared map keys fix which combinations CalculateAllMeasureSums
// will attempt.
func NewMetric(unit Unit) *Metric {
	nan := math.NaN()
	return &Metric{
		Coverage: nan,
		AvgPathLength: map[string]float64{
			LabelEuclidean: nan, LabelShortest: nan, LabelRestricted: nan,
		},
		Directness: map[string]float64{
			"ES": nan, "EN": nan, "SN": nan,
		},
		GlobalEfficiency: map[string]float64{
			"SE": nan, "NE": nan, "NS": nan,
		},
		HighBCClustering:  nan,
		HighBCAnisotropy:  nan,
		DistanceMatrix:    map[string]*distance.Matrix{},
		PredecessorMatrix: map[string]*distance.Predecessors{},
		Unit:              unit,
	}
}

// CalculateBefore computes the measures available before any partitioning
// exists: the Euclidean matrix (distance unit only), the full-graph
// shortest-path matrices, betweenness centrality written onto the graph,
// and the high-betweenness shape statistics. Safe to call again after the
// graph changed; CalculateAll does so.
func (m *Metric) CalculateBefore(g *core.Graph, opts ...Option) error {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if m.NodeList == nil {
		m.NodeList = g.Nodes()
	}
	order, err := distance.NewNodeOrder(m.NodeList)
	if err != nil {
		return fmt.Errorf("measure: node order: %w", err)
	}

	if m.Unit == UnitDistance {
		em, err := distance.Euclidean(g, order)
		if err != nil {
			return fmt.Errorf("measure: euclidean matrix: %w", err)
		}
		m.DistanceMatrix[LabelEuclidean] = em
	}

	weight := m.Unit.weight()
	cfg.Logger.Debug("full-graph distance matrix", "weight", weight, "nodes", order.Len())
	dm, pm, err := distance.PathMatrix(g, weight, order)
	if err != nil {
		return fmt.Errorf("measure: shortest-path matrix: %w", err)
	}
	m.DistanceMatrix[LabelShortest] = dm
	m.PredecessorMatrix[LabelShortest] = pm

	if err := BetweennessCentrality(g, order, dm, pm, ""); err != nil {
		return fmt.Errorf("measure: betweenness: %w", err)
	}
	if err := m.calculateHighBC(g, order, cfg.Percentile); err != nil {
		return err
	}
	return nil
}

// CalculateAll computes every metric for a finished partitioning: the
// before-measures are refreshed, then coverage, the restricted matrices,
// restricted betweenness, the measure sums, and the per-edge relative
// increase annotation.
func (m *Metric) CalculateAll(ctx context.Context, g *core.Graph, cells []distance.Cell, sparsified *core.View, opts ...Option) error {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Recompute even when CalculateBefore already ran: the strategy may
	// have rewritten attributes in between.
	if err := m.CalculateBefore(g, opts...); err != nil {
		return err
	}
	order, err := distance.NewNodeOrder(m.NodeList)
	if err != nil {
		return fmt.Errorf("measure: node order: %w", err)
	}

	m.Coverage = Coverage(g, cells, core.AttrLength)
	m.NumComponents = len(cells)
	cfg.Logger.Debug("coverage", "value", m.Coverage, "cells", len(cells))

	weight := m.Unit.weight()
	if m.Unit == UnitTime && cfg.ReplaceMaxSpeeds {
		weight = core.AttrTravelTimeRestricted
	}
	dopts := []distance.Option{distance.WithLogger(cfg.Logger)}
	if cfg.NumWorkers > 0 {
		dopts = append(dopts, distance.WithNumWorkers(cfg.NumWorkers))
	}
	if cfg.MaxMemFactor > 0 {
		dopts = append(dopts, distance.WithMaxMemFactor(cfg.MaxMemFactor))
	}
	dn, pn, err := distance.RestrictedMatrix(ctx, cells, sparsified, weight, order, dopts...)
	if err != nil {
		return fmt.Errorf("measure: restricted matrix: %w", err)
	}
	m.DistanceMatrix[LabelRestricted] = dn
	m.PredecessorMatrix[LabelRestricted] = pn

	if err := BetweennessCentrality(g, order, dn, pn, SuffixRestricted); err != nil {
		return fmt.Errorf("measure: restricted betweenness: %w", err)
	}

	m.CalculateAllMeasureSums()

	return WriteRelativeIncrease(g, dn, m.DistanceMatrix[LabelShortest], order)
}

// CalculateAllMeasureSums recomputes every declared average, directness
// and efficiency entry from the distance matrices currently present.
// Entries whose matrices are missing are left untouched rather than
// erroring; requesting the hops or time unit simply never produces an "E"
// matrix.
func (m *Metric) CalculateAllMeasureSums() {
	for label := range m.AvgPathLength {
		if dm, ok := m.DistanceMatrix[label]; ok {
			m.AvgPathLength[label] = AveragePathLength(dm)
		}
	}
	for key := range m.Directness {
		dx, okx := m.DistanceMatrix[key[:1]]
		dy, oky := m.DistanceMatrix[key[1:]]
		if okx && oky {
			m.Directness[key] = Directness(dx, dy)
		}
	}
	for key := range m.GlobalEfficiency {
		dx, okx := m.DistanceMatrix[key[:1]]
		dy, oky := m.DistanceMatrix[key[1:]]
		if okx && oky {
			m.GlobalEfficiency[key] = GlobalEfficiency(dx, dy)
		}
	}
}

// calculateHighBC reads coordinates and the freshly written betweenness
// attribute off the graph and fills the high-betweenness statistics.
func (m *Metric) calculateHighBC(g *core.Graph, order *distance.NodeOrder, percentile float64) error {
	n := order.Len()
	xs := make([]float64, n)
	ys := make([]float64, n)
	bc := make([]float64, n)
	for i, id := range order.IDs() {
		node := g.Node(id)
		if node == nil {
			return fmt.Errorf("measure: node %d: %w", id, core.ErrNodeNotFound)
		}
		xs[i], ys[i] = node.X, node.Y
		b := node.GetAttr(AttrNodeBetweenness)
		if math.IsNaN(b) {
			return fmt.Errorf("measure: node %d: %w", id, ErrMissingBetweenness)
		}
		bc[i] = b
	}
	var err error
	m.HighBCClustering, m.HighBCAnisotropy, err = HighBCClustering(xs, ys, bc, percentile)
	return err
}

// String renders the computed fields, skipping NaN values and maps whose
// entries are all NaN. The unit is always included.
func (m *Metric) String() string {
	var b strings.Builder
	writeScalar := func(name string, v float64) {
		if !math.IsNaN(v) {
			fmt.Fprintf(&b, "%s: %v; ", name, v)
		}
	}
	writeScalar("coverage", m.Coverage)
	if m.NumComponents > 0 {
		fmt.Fprintf(&b, "num_components: %d; ", m.NumComponents)
	}
	writeMap := func(name string, vals map[string]float64) {
		keys := make([]string, 0, len(vals))
		for k, v := range vals {
			if !math.IsNaN(v) {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return
		}
		sort.Strings(keys)
		fmt.Fprintf(&b, "%s: ", name)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", k, vals[k])
		}
		b.WriteString("; ")
	}
	writeMap("avg_path_length", m.AvgPathLength)
	writeMap("directness", m.Directness)
	writeMap("global_efficiency", m.GlobalEfficiency)
	writeScalar("high_bc_clustering", m.HighBCClustering)
	writeScalar("high_bc_anisotropy", m.HighBCAnisotropy)
	fmt.Fprintf(&b, "unit: %s", m.Unit.Symbol())
	return b.String()
}

// Equal reports deep field-wise equality, treating NaN entries as equal to
// each other. Used by the save/load round-trip contract.
func (m *Metric) Equal(other *Metric) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !floatEq(m.Coverage, other.Coverage) ||
		m.NumComponents != other.NumComponents ||
		!floatEq(m.HighBCClustering, other.HighBCClustering) ||
		!floatEq(m.HighBCAnisotropy, other.HighBCAnisotropy) ||
		m.Unit != other.Unit {
		return false
	}
	if !floatMapEq(m.AvgPathLength, other.AvgPathLength) ||
		!floatMapEq(m.Directness, other.Directness) ||
		!floatMapEq(m.GlobalEfficiency, other.GlobalEfficiency) {
		return false
	}
	if len(m.NodeList) != len(other.NodeList) {
		return false
	}
	for i, id := range m.NodeList {
		if other.NodeList[i] != id {
			return false
		}
	}
	if len(m.DistanceMatrix) != len(other.DistanceMatrix) {
		return false
	}
	for label, dm := range m.DistanceMatrix {
		om, ok := other.DistanceMatrix[label]
		if !ok || om.N != dm.N || len(om.Data) != len(dm.Data) {
			return false
		}
		for i, v := range dm.Data {
			if !floatEq(v, om.Data[i]) {
				return false
			}
		}
	}
	if len(m.PredecessorMatrix) != len(other.PredecessorMatrix) {
		return false
	}
	for label, pm := range m.PredecessorMatrix {
		om, ok := other.PredecessorMatrix[label]
		if !ok || om.N != pm.N || len(om.Data) != len(pm.Data) {
			return false
		}
		for i, v := range pm.Data {
			if om.Data[i] != v {
				return false
			}
		}
	}
	return true
}

func floatEq(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func floatMapEq(a, b map[string]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !floatEq(v, w) {
			return false
		}
	}
	return true
}

// Save writes the metric as a gob blob to folder/name.metrics,
// overwriting any previous run of the same name.
func (m *Metric) Save(folder, name string) error {
	path := filepath.Join(folder, name+".metrics")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("measure: save metric: %w", err)
	}
	if err := gob.NewEncoder(file).Encode(m); err != nil {
		file.Close()
		return fmt.Errorf("measure: encode metric: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("measure: save metric: %w", err)
	}
	return nil
}

// LoadMetric reads a metric previously written by Save.
func LoadMetric(path string) (*Metric, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("measure: load metric: %w", err)
	}
	defer file.Close()
	var m Metric
	if err := gob.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("measure: decode metric: %w", err)
	}
	return &m, nil
}
