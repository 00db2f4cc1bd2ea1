package specfile

import (
	"iter"
	"slices"
)

// Columns is an ordered mapping from column label to the values of that
// column, one value per successfully parsed data point.
type Columns struct {
	labels []string
	index  map[string]int
	values [][]float64
}

func newColumns(labels []string) *Columns {
	c := &Columns{
		labels: slices.Clone(labels),
		index:  make(map[string]int, len(labels)),
		values: make([][]float64, len(labels)),
	}

	for i, l := range labels {
		if _, dup := c.index[l]; !dup {
			c.index[l] = i
		}
	}

	return c
}

// appendRow appends one value to every column. The caller guarantees
// len(row) equals the column count.
func (c *Columns) appendRow(row []float64) {
	for i, v := range row {
		c.values[i] = append(c.values[i], v)
	}
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	if c == nil {
		return 0
	}

	return len(c.labels)
}

// Labels returns the column labels in order.
func (c *Columns) Labels() []string {
	if c == nil {
		return nil
	}

	return slices.Clone(c.labels)
}

// Get returns the values of the column with the given label.
func (c *Columns) Get(label string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}

	i, ok := c.index[label]
	if !ok {
		return nil, false
	}

	return c.values[i], true
}

// Column returns the values of column i.
func (c *Columns) Column(i int) []float64 { return c.values[i] }

// Row returns the values of data point p across all columns.
func (c *Columns) Row(p int) []float64 {
	row := make([]float64, len(c.values))
	for i, col := range c.values {
		row[i] = col[p]
	}

	return row
}

// All returns an iterator over labels and column values in order.
func (c *Columns) All() iter.Seq2[string, []float64] {
	return func(yield func(string, []float64) bool) {
		if c == nil {
			return
		}

		for i, l := range c.labels {
			if !yield(l, c.values[i]) {
				return
			}
		}
	}
}

// without returns a view of c that omits the columns for which drop is true.
// The view shares value slices with c.
func (c *Columns) without(drop func(string) bool) *Columns {
	v := &Columns{index: make(map[string]int)}

	if c == nil {
		return v
	}

	for i, l := range c.labels {
		if drop(l) {
			continue
		}

		if _, dup := v.index[l]; !dup {
			v.index[l] = len(v.labels)
		}

		v.labels = append(v.labels, l)
		v.values = append(v.values, c.values[i])
	}

	return v
}

// Positions is an ordered mapping from motor label to its position at the
// start of a scan.
type Positions struct {
	labels []string
	values map[string]float64
}

func (p *Positions) set(label string, v float64) {
	if p.values == nil {
		p.values = make(map[string]float64)
	}

	if _, ok := p.values[label]; !ok {
		p.labels = append(p.labels, label)
	}

	p.values[label] = v
}

// Len returns the number of positions.
func (p *Positions) Len() int {
	if p == nil {
		return 0
	}

	return len(p.labels)
}

// Get returns the position of the motor with the given label.
func (p *Positions) Get(label string) (float64, bool) {
	if p == nil {
		return 0, false
	}

	v, ok := p.values[label]

	return v, ok
}

// Labels returns the motor labels in order.
func (p *Positions) Labels() []string {
	if p == nil {
		return nil
	}

	return slices.Clone(p.labels)
}

// All returns an iterator over labels and positions in order.
func (p *Positions) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		if p == nil {
			return
		}

		for _, l := range p.labels {
			if !yield(l, p.values[l]) {
				return
			}
		}
	}
}
