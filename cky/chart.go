package cky

import (
	"github.com/npillmayer/ctfparse/grammar"
)

// Backpointer identifies a chart cell by its span and symbol. It is a
// value triple, not a pointer: Chart cells own their ChartItems and a
// backpointer is resolved back through the Chart at backtrace time (§5).
type Backpointer struct {
	I, J   int
	Symbol grammar.Symbol
}

// ChartItem is the Viterbi-best derivation of Symbol over a span, as
// currently known. Terminal items carry the surface token that seeded
// them and no backpointers; binary items carry two Backpointers into the
// Chart's (i,k) and (k+1,j) cells.
type ChartItem struct {
	Symbol   grammar.Symbol
	Score    float64 // summed log-probability
	Terminal bool
	Token    string // surface token; only set when Terminal
	Left     Backpointer
	Right    Backpointer
}

// Chart is the n×n table of best ChartItems per (i,j,symbol), filled by
// Parser.Parse. Only the upper triangle (i ≤ j) is ever populated.
type Chart struct {
	n     int
	cells []map[grammar.Symbol]*ChartItem
}

func newChart(n int) *Chart {
	c := &Chart{n: n, cells: make([]map[grammar.Symbol]*ChartItem, n*n)}
	return c
}

func (c *Chart) index(i, j int) int { return i*c.n + j }

// Cell returns the map of symbol -> best ChartItem for span (i,j). The
// returned map must not be mutated by callers; it may be nil if nothing
// has been entered for that span yet.
func (c *Chart) Cell(i, j int) map[grammar.Symbol]*ChartItem {
	return c.cells[c.index(i, j)]
}

// Item returns the best ChartItem for (i,j,symbol), if any.
func (c *Chart) Item(i, j int, symbol grammar.Symbol) (*ChartItem, bool) {
	cell := c.cells[c.index(i, j)]
	if cell == nil {
		return nil, false
	}
	item, ok := cell[symbol]
	return item, ok
}

func (c *Chart) set(i, j int, item *ChartItem) {
	idx := c.index(i, j)
	if c.cells[idx] == nil {
		c.cells[idx] = make(map[grammar.Symbol]*ChartItem)
	}
	c.cells[idx][item.Symbol] = item
}

// N returns the chart's span length (the number of tokens it was built for).
func (c *Chart) N() int { return c.n }
