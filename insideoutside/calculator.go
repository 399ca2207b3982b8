package insideoutside

import (
	"math"

	"github.com/npillmayer/ctfparse/cky"
	"github.com/npillmayer/ctfparse/grammar"
)

type calcKey struct {
	symbol grammar.Symbol
	p, q   int
}

// Calculator computes inside and outside marginals over a single frozen
// chart and its grammar (§4.4). Both recursions are memoized per
// (symbol, start, end); the memo tables are the Calculator's entire
// mutable state, and neither the Chart nor the Grammar are touched.
type Calculator struct {
	chart *cky.Chart
	g     *grammar.Grammar
	n     int

	insideCache  map[calcKey]float64
	outsideCache map[calcKey]float64
}

// New creates a Calculator bound to chart (already filled by cky.Parse)
// and its grammar.
func New(chart *cky.Chart, g *grammar.Grammar) *Calculator {
	return &Calculator{
		chart:        chart,
		g:            g,
		n:            chart.N(),
		insideCache:  make(map[calcKey]float64),
		outsideCache: make(map[calcKey]float64),
	}
}

// Inside returns inside(symbol, p, q): the total plain probability of
// every derivation of symbol spanning tokens p..q inclusive, given the
// rules actually reachable through the frozen chart.
func (c *Calculator) Inside(symbol grammar.Symbol, p, q int) float64 {
	key := calcKey{symbol, p, q}
	if v, ok := c.insideCache[key]; ok {
		return v
	}
	// Mark as computing with zero to break cycles defensively; chart-driven
	// CKY grammars are acyclic over spans so this never actually recurses
	// back into itself, but costs nothing to guard.
	c.insideCache[key] = 0
	var score float64
	if p == q {
		if item, ok := c.chart.Item(p, p, symbol); ok && item.Terminal {
			score = math.Exp(item.Score)
		}
	} else {
		for _, rule := range c.g.RulesByLHS(symbol) {
			ruleP := math.Exp(rule.LogP)
			for d := p; d < q; d++ {
				score += ruleP * c.Inside(rule.RHS1, p, d) * c.Inside(rule.RHS2, d+1, q)
			}
		}
	}
	c.insideCache[key] = score
	tracer().Debugf("inside(%s,%d,%d) = %v", c.g.Name(symbol), p, q, score)
	return score
}

// Outside returns outside(symbol, p, q): the probability of generating
// the start symbol together with everything outside span p..q, given
// symbol covers p..q (§4.4).
func (c *Calculator) Outside(symbol grammar.Symbol, p, q int) float64 {
	key := calcKey{symbol, p, q}
	if v, ok := c.outsideCache[key]; ok {
		return v
	}
	c.outsideCache[key] = 0
	var score float64
	if p == 0 && q == c.n-1 {
		if symbol == c.g.Start() {
			score = 1.0
		}
	} else {
		for e := q + 1; e < c.n; e++ {
			for _, rule := range c.g.RulesByRHS1(symbol) {
				score += math.Exp(rule.LogP) * c.Outside(rule.LHS, p, e) * c.Inside(rule.RHS2, q+1, e)
			}
		}
		for e := 0; e < p; e++ {
			for _, rule := range c.g.RulesByRHS2(symbol) {
				score += math.Exp(rule.LogP) * c.Outside(rule.LHS, e, q) * c.Inside(rule.RHS1, e, p-1)
			}
		}
	}
	c.outsideCache[key] = score
	tracer().Debugf("outside(%s,%d,%d) = %v", c.g.Name(symbol), p, q, score)
	return score
}
