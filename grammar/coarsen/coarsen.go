package coarsen

import (
	"math"
	"sort"

	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/grammar/mapping"
)

// Coarsener projects a Grammar onto a coarser alphabet named by a
// mapping.Mapping, producing a new, independently stochastic rule set
// (§4.2). The zero value, via New, sums colliding rules; WithHistoricalOverwrite
// switches to the original implementation's last-write-wins behavior, kept
// only so old fixtures can be reproduced bit-for-bit.
type Coarsener struct {
	historicalOverwrite bool
}

// Option configures a Coarsener.
type Option func(*Coarsener)

// WithHistoricalOverwrite reproduces the original tool's rule-collision
// bug: when two projected rules land on the same (lhs, rhs...) key, the
// later one silently replaces the earlier one's probability instead of
// being summed with it. spec.md §4.2 calls this out as behavior a correct
// implementation MUST NOT replicate by default; this option exists only
// for fixture parity against grammars coarsened by that original tool.
func WithHistoricalOverwrite() Option {
	return func(c *Coarsener) { c.historicalOverwrite = true }
}

// New creates a Coarsener with the given options applied.
func New(opts ...Option) *Coarsener {
	c := &Coarsener{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// rhsKey identifies a projected rule body: either a (rhs1,rhs2) pair for a
// binary rule, or a lone terminal for a Q1 rule.
type rhsKey struct {
	arity int
	rhs1  string
	rhs2  string
}

// Project rewrites every rule of g through m at the given level, sums
// (or, with WithHistoricalOverwrite, overwrites) probabilities of rules
// that collide after projection, and renormalises each projected LHS's
// rule probabilities to sum to 1. The result is returned as a sorted,
// ready-to-write Record list (Q1s, then Q2s, then a single WORDS record),
// matching the canonical order grammar.WriteRecords produces.
func (c *Coarsener) Project(g *grammar.Grammar, m *mapping.Mapping, level int) ([]grammar.Record, error) {
	buckets := make(map[string]map[rhsKey]float64)

	addRule := func(lhs string, key rhsKey, prob float64) {
		b, ok := buckets[lhs]
		if !ok {
			b = make(map[rhsKey]float64)
			buckets[lhs] = b
		}
		if c.historicalOverwrite {
			b[key] = prob
		} else {
			b[key] += prob
		}
	}

	for _, r := range g.AllBinaryRules() {
		lhs := m.Project(level, g.Name(r.LHS))
		rhs1 := m.Project(level, g.Name(r.RHS1))
		rhs2 := m.Project(level, g.Name(r.RHS2))
		addRule(lhs, rhsKey{arity: 2, rhs1: rhs1, rhs2: rhs2}, math.Exp(r.LogP))
	}
	for _, r := range g.AllTerminalRules() {
		lhs := m.Project(level, g.Name(r.LHS))
		term := m.Project(level, g.Name(r.Terminal))
		addRule(lhs, rhsKey{arity: 1, rhs1: term}, math.Exp(r.LogP))
	}

	var records []grammar.Record
	vocabulary := make(map[string]struct{})
	for lhs, rules := range buckets {
		var mass float64
		for _, p := range rules {
			mass += p
		}
		for key, p := range rules {
			norm := p / mass
			switch key.arity {
			case 2:
				records = append(records, grammar.Record{
					Kind: grammar.KindQ2, LHS: lhs, RHS1: key.rhs1, RHS2: key.rhs2, Prob: norm,
				})
			case 1:
				records = append(records, grammar.Record{
					Kind: grammar.KindQ1, LHS: lhs, RHS1: key.rhs1, Prob: norm,
				})
				vocabulary[key.rhs1] = struct{}{}
			}
		}
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Kind != b.Kind {
			return a.Kind == grammar.KindQ1
		}
		if a.LHS != b.LHS {
			return a.LHS < b.LHS
		}
		if a.RHS1 != b.RHS1 {
			return a.RHS1 < b.RHS1
		}
		return a.RHS2 < b.RHS2
	})

	words := make([]string, 0, len(vocabulary))
	for w := range vocabulary {
		words = append(words, w)
	}
	sort.Strings(words)
	records = append(records, grammar.Record{Kind: grammar.KindWords, Words: words})

	tracer().Debugf("coarsened grammar at level %d: %d rules, %d words", level, len(records)-1, len(words))
	return records, nil
}
