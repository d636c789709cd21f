// Package frame provides dense row-major matrix primitives for
// frame-aligned speech parameter streams. A Matrix holds one value per
// (frame, feature) cell; all padding, one-hot and concatenation
// operations used by the datatable builder live here.
package frame

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors.
var (
	// ErrShape is returned when operand shapes are incompatible.
	ErrShape = errors.New("frame: shape mismatch")
)

// Matrix is a dense rows×cols matrix of float64 values stored in
// row-major order. One row is one speech frame; one column is one
// feature dimension.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New returns a zero-valued rows×cols matrix.
// Both dimensions must be non-negative.
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("frame: invalid dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows builds a matrix from a slice of equal-length rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(r), cols)
		}
		copy(m.Row(i), r)
	}
	return m, nil
}

// Rows returns the number of rows (frames).
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns (features).
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) { m.data[i*m.cols+j] = v }

// Row returns row i as a slice view into the matrix. Mutating the
// returned slice mutates the matrix.
func (m *Matrix) Row(i int) []float64 { return m.data[i*m.cols : (i+1)*m.cols] }

// Raw returns the underlying row-major storage. Callers must treat the
// slice as read-only unless they own the matrix.
func (m *Matrix) Raw() []float64 { return m.data }

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// Equal reports whether m and o have identical shapes and cell values.
// NaN cells compare equal to NaN cells so round-trip checks stay exact.
func (m *Matrix) Equal(o *Matrix) bool {
	if !m.SameShape(o) {
		return false
	}
	for i, v := range m.data {
		w := o.data[i]
		if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
			return false
		}
	}
	return true
}

// Ones returns a rows×cols matrix with every cell set to 1.
func Ones(rows, cols int) *Matrix {
	m := New(rows, cols)
	for i := range m.data {
		m.data[i] = 1
	}
	return m
}

// Fill returns a rows×cols matrix with every cell set to v.
func Fill(rows, cols int, v float64) *Matrix {
	m := New(rows, cols)
	for i := range m.data {
		m.data[i] = v
	}
	return m
}

// PadFront returns a copy of m extended to total rows by inserting
// zero rows before the existing content, so the true frames sit at the
// end. It fails if total is smaller than the current row count.
func (m *Matrix) PadFront(total int) (*Matrix, error) {
	if total < m.rows {
		return nil, fmt.Errorf("%w: cannot pad %d rows down to %d", ErrShape, m.rows, total)
	}
	p := New(total, m.cols)
	copy(p.data[(total-m.rows)*m.cols:], m.data)
	return p, nil
}

// PadBack returns a copy of m extended to total rows by appending zero
// rows after the existing content, so the true frames sit at the start.
// It fails if total is smaller than the current row count.
func (m *Matrix) PadBack(total int) (*Matrix, error) {
	if total < m.rows {
		return nil, fmt.Errorf("%w: cannot pad %d rows down to %d", ErrShape, m.rows, total)
	}
	p := New(total, m.cols)
	copy(p.data, m.data)
	return p, nil
}

// OneHotRows returns a rows×width matrix where every row is the same
// one-hot indicator with a single 1 at the given index.
func OneHotRows(index, width, rows int) (*Matrix, error) {
	if index < 0 || index >= width {
		return nil, fmt.Errorf("frame: one-hot index %d out of range [0,%d)", index, width)
	}
	m := New(rows, width)
	for i := 0; i < rows; i++ {
		m.Set(i, index, 1)
	}
	return m, nil
}

// ConcatCols joins matrices side by side along the feature axis. All
// operands must have the same row count.
func ConcatCols(ms ...*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return New(0, 0), nil
	}
	rows := ms[0].rows
	cols := 0
	for i, m := range ms {
		if m.rows != rows {
			return nil, fmt.Errorf("%w: operand %d has %d rows, want %d", ErrShape, i, m.rows, rows)
		}
		cols += m.cols
	}
	out := New(rows, cols)
	for i := 0; i < rows; i++ {
		dst := out.Row(i)
		pos := 0
		for _, m := range ms {
			pos += copy(dst[pos:], m.Row(i))
		}
	}
	return out, nil
}

// StackRows joins matrices top to bottom along the frame axis. All
// operands must have the same column count.
func StackRows(ms ...*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return New(0, 0), nil
	}
	cols := ms[0].cols
	rows := 0
	for i, m := range ms {
		if m.cols != cols {
			return nil, fmt.Errorf("%w: operand %d has %d columns, want %d", ErrShape, i, m.cols, cols)
		}
		rows += m.rows
	}
	out := New(rows, cols)
	pos := 0
	for _, m := range ms {
		pos += copy(out.data[pos:], m.data)
	}
	return out, nil
}
