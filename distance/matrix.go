// Dense square matrices over a node ordering.
//
// Contract: +Inf means "no path"; the diagonal of a distance matrix is 0;
// finite entries are non-negative. The predecessor plane stores the matrix
// index of the node preceding j on a shortest path i→j, or NoPredecessor.

package distance

import "math"

// Matrix is a dense square float64 matrix in row-major layout.
type Matrix struct {
	N    int
	Data []float64
}

// NewMatrix returns an n×n matrix filled with +Inf off the diagonal and 0
// on it, the initial state of every distance computation.
func NewMatrix(n int) *Matrix {
	m := &Matrix{N: n, Data: make([]float64, n*n)}
	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		base := i * n
		for j := 0; j < n; j++ {
			if i == j {
				m.Data[base+j] = 0
				continue
			}
			m.Data[base+j] = inf
		}
	}

	return m
}

// At returns element (i, j). No bounds checking beyond the slice's own.
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.N+j] }

// Set writes element (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.N+j] = v }

// Row returns the i-th row as a sub-slice of the backing array.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.N : (i+1)*m.N] }

// Predecessors is a dense square int32 matrix of predecessor indices.
type Predecessors struct {
	N    int
	Data []int32
}

// NewPredecessors returns an n×n predecessor matrix filled with the
// NoPredecessor sentinel.
func NewPredecessors(n int) *Predecessors {
	p := &Predecessors{N: n, Data: make([]int32, n*n)}
	for i := range p.Data {
		p.Data[i] = NoPredecessor
	}

	return p
}

// At returns element (i, j).
func (p *Predecessors) At(i, j int) int32 { return p.Data[i*p.N+j] }

// Set writes element (i, j).
func (p *Predecessors) Set(i, j int, v int32) { p.Data[i*p.N+j] = v }

// Row returns the i-th row as a sub-slice of the backing array.
func (p *Predecessors) Row(i int) []int32 { return p.Data[i*p.N : (i+1)*p.N] }
