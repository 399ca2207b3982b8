package cky

import (
	"time"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/iteratable"
)

// AdmitFunc decides whether a binary ChartItem about to be entered at
// (symbol, i, j) survives. It is consulted only for binary insertions,
// never for diagonal terminal seeds (§4.3). A nil AdmitFunc admits
// everything.
type AdmitFunc func(symbol grammar.Symbol, i, j int) bool

// Option configures a Parser, mirroring the functional-options pattern
// used throughout this module's parsers.
type Option func(*Parser)

// WithAdmit installs a per-item admission predicate, used by the
// coarse-to-fine driver to prune a finer level's chart against a coarser
// level's inside/outside marginals.
func WithAdmit(fn AdmitFunc) Option {
	return func(p *Parser) { p.admit = fn }
}

// Parser runs probabilistic CKY over a single Grammar.
type Parser struct {
	g     *grammar.Grammar
	admit AdmitFunc

	firstSymbols *iteratable.Set // cached copy of g.FirstSymbols(), as Symbols
}

// New creates a Parser bound to g, applying any Options.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{g: g}
	for _, opt := range opts {
		opt(p)
	}
	values := g.FirstSymbols().Values()
	p.firstSymbols = iteratable.NewSet(values...)
	return p
}

// Parse tokenizes nothing itself — it takes already-tokenized input — and
// fills a Chart bottom-up by increasing span width, keeping the Viterbi
// best ChartItem per (i,j,symbol). Returns ctfparse.ErrNoParse, together
// with the Chart and Stats gathered so far, if the full span's
// start-symbol cell ends up empty; for empty input the Chart is nil.
func (p *Parser) Parse(tokens []ctfparse.Token) (*Chart, Stats, error) {
	t0 := time.Now()
	n := len(tokens)
	stats := Stats{Length: n}
	if n == 0 {
		return nil, stats, ctfparse.ErrNoParse
	}

	chart := newChart(n)
	p.seedDiagonal(chart, tokens)
	p.fill(chart, n, &stats)

	stats.Time = time.Since(t0)
	if _, ok := chart.Item(0, n-1, p.g.Start()); !ok {
		tracer().Debugf("no parse for %d tokens after %v (%d items entered, %d pruned)",
			n, stats.Time, stats.ItemsEntered, stats.ItemsPruned)
		return chart, stats, ctfparse.ErrNoParse
	}
	tracer().Debugf("parsed %d tokens in %v (%d items entered, %d pruned)",
		n, stats.Time, stats.ItemsEntered, stats.ItemsPruned)
	return chart, stats, nil
}

// seedDiagonal places, for each position i, the best ChartItem per LHS
// among the terminal rules matching norm(tokens[i]). The admission
// predicate is never consulted here (§4.3, resolving spec Open Question 2).
func (p *Parser) seedDiagonal(chart *Chart, tokens []ctfparse.Token) {
	for i, tok := range tokens {
		norm := p.g.Norm(string(tok))
		for _, rule := range p.g.TerminalRulesFor(norm) {
			item := &ChartItem{Symbol: rule.LHS, Score: rule.LogP, Terminal: true, Token: string(tok)}
			if existing, ok := chart.Item(i, i, rule.LHS); !ok || existing.Score < item.Score {
				chart.set(i, i, item)
			}
		}
	}
}

// fill performs the binary-combination sweep: outer loop over the right
// endpoint j, left endpoint i descending from j, split point k ascending
// from i — the exact order §4.3 specifies.
func (p *Parser) fill(chart *Chart, n int, stats *Stats) {
	for j := 0; j < n; j++ {
		for i := j; i >= 0; i-- {
			tracer().Debugf("filling cell (%d,%d)", i, j)
			for k := i; k < j; k++ {
				p.combine(chart, i, k, j, stats)
			}
		}
	}
}

// combine looks up every (rhs1,rhs2) pair with rhs1 present in cell
// (i,k), rhs2 present in cell (k+1,j), and rhs1 a legal first-symbol of
// some binary rule — via the Grammar's indexes (§4.3 step 3) — and tries
// to enter each resulting LHS into cell (i,j).
func (p *Parser) combine(chart *Chart, i, k, j int, stats *Stats) {
	left := chart.Cell(i, k)
	right := chart.Cell(k+1, j)
	if len(left) == 0 || len(right) == 0 {
		return
	}

	leftKeys := make([]interface{}, 0, len(left))
	for sym := range left {
		leftKeys = append(leftKeys, sym)
	}
	candidates := iteratable.NewSet(leftKeys...).Intersect(p.firstSymbols.Copy())

	candidates.IterateOnce()
	for candidates.Next() {
		rhs1 := candidates.Item().(grammar.Symbol)
		seconds := p.g.SecondsFor(rhs1)
		if seconds == nil {
			continue
		}
		leftItem := left[rhs1]

		for rhs2 := range right {
			if !seconds.Contains(rhs2) {
				continue
			}
			rightItem := right[rhs2]
			for _, rule := range p.g.BinaryRulesFor(rhs1, rhs2) {
				score := leftItem.Score + rightItem.Score + rule.LogP
				existing, ok := chart.Item(i, j, rule.LHS)
				if ok && existing.Score >= score {
					continue
				}
				if p.admit != nil && !p.admit(rule.LHS, i, j) {
					stats.ItemsPruned++
					tracer().Debugf("pruned %s @ (%d,%d), score %v", p.g.Name(rule.LHS), i, j, score)
					continue
				}
				chart.set(i, j, &ChartItem{
					Symbol: rule.LHS,
					Score:  score,
					Left:   Backpointer{I: i, J: k, Symbol: rhs1},
					Right:  Backpointer{I: k + 1, J: j, Symbol: rhs2},
				})
				stats.ItemsEntered++
				tracer().Debugf("entered %s @ (%d,%d) via (%d,%d)+(%d,%d), score %v",
					p.g.Name(rule.LHS), i, j, i, k, k+1, j, score)
			}
		}
	}
}
