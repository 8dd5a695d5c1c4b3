package partition

import (
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/urbanform/superblock/core"
)

// WriteGeoJSON writes the partitioned graph as a GeoJSON feature
// collection: one LineString feature per edge with a classification
// property naming its owning component, or the SPARSE sentinel for
// backbone edges. Components take precedence over the possibly coarser
// partitions; either must exist.
func (p *Partitioner) WriteGeoJSON(w io.Writer) error {
	if p.sparsified == nil {
		return ErrNoSparsified
	}

	parts := p.components
	if len(parts) == 0 {
		parts = p.partitions
	}
	if len(parts) == 0 {
		return ErrNoComponents
	}
	for _, part := range parts {
		if part.Name == "" || part.Subgraph == nil {
			return fmt.Errorf("partition: component %+v: %w", part, ErrMalformedComponent)
		}
	}

	classification := make(map[core.EdgeKey]string, p.graph.NumEdges())
	for _, part := range parts {
		for _, e := range part.Subgraph.Edges() {
			classification[e.ID()] = part.Name
		}
	}
	for _, e := range p.sparsified.Edges() {
		classification[e.ID()] = SparseClassification
	}

	fc := geojson.NewFeatureCollection()
	for _, e := range p.graph.Edges() {
		u, v := p.graph.Node(e.U), p.graph.Node(e.V)
		feature := geojson.NewFeature(orb.LineString{
			{u.X, u.Y},
			{v.X, v.Y},
		})
		feature.Properties["u"] = int64(e.U)
		feature.Properties["v"] = int64(e.V)
		feature.Properties["key"] = e.Key
		feature.Properties["length"] = e.Length
		feature.Properties["classification"] = classification[e.ID()]
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("partition: encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("partition: write geojson: %w", err)
	}
	return nil
}

// SaveGeoJSON writes the export of WriteGeoJSON to a file.
func (p *Partitioner) SaveGeoJSON(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("partition: save geojson: %w", err)
	}
	if err := p.WriteGeoJSON(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("partition: save geojson: %w", err)
	}
	return nil
}
