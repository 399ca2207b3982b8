package ctf

import (
	"fmt"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/cky"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/grammar/coarsen"
	"github.com/npillmayer/ctfparse/grammar/mapping"
	"github.com/npillmayer/ctfparse/insideoutside"
)

// defaultThreshold matches the CLI surface's default (§6).
const defaultThreshold = 0.0001

// Option configures a Driver.
type Option func(*Driver)

// WithThreshold sets the pruning threshold θ (§4.5 step 2c). Defaults to
// 0.0001 if never set.
func WithThreshold(threshold float64) Option {
	return func(d *Driver) { d.threshold = threshold }
}

// WithCache enables disk caching of every coarsened grammar level under
// dir, keyed by grammarPath (a name identifying the finest grammar's
// source, used only to build a collision-resistant cache filename — §6).
func WithCache(dir, grammarPath string) Option {
	return func(d *Driver) { d.cacheDir, d.grammarPath = dir, grammarPath }
}

// Result is the outcome of parsing one sentence through the full chain.
type Result struct {
	Tree       []interface{}
	LevelStats []cky.Stats
}

// Driver owns the materialized grammar chain levels[0] (coarsest) through
// levels[len(levels)-1] (finest, the grammar the caller supplied) and
// runs the per-sentence coarse-to-fine loop of §4.5.
type Driver struct {
	levels    []*grammar.Grammar
	mapping   *mapping.Mapping
	threshold float64
	tokenizer ctfparse.Tokenizer

	cacheDir    string
	grammarPath string
}

// NewDriver materializes the grammar chain from the finest grammar and a
// mapping, applying any Options, then returns a ready-to-use Driver.
func NewDriver(fine *grammar.Grammar, m *mapping.Mapping, tokenizer ctfparse.Tokenizer, opts ...Option) (*Driver, error) {
	d := &Driver{mapping: m, threshold: defaultThreshold, tokenizer: tokenizer}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.materialize(fine); err != nil {
		return nil, err
	}
	return d, nil
}

// materialize builds levels[0..m.Levels] by repeated coarsening of fine,
// coarsest first in the returned slice but computed finest-first,
// matching the original tool's iteration order (§4.5 Setup).
func (d *Driver) materialize(fine *grammar.Grammar) error {
	levels := make([]*grammar.Grammar, d.mapping.Levels+2)
	levels[len(levels)-1] = fine

	coarsener := coarsen.New()
	current := fine
	for l := d.mapping.Levels; l >= 0; l-- {
		var records []grammar.Record
		var err error
		if d.cacheDir != "" {
			records, err = coarsener.ProjectCached(current, d.mapping, d.cacheDir, d.grammarPath, l)
		} else {
			records, err = coarsener.Project(current, d.mapping, l)
		}
		if err != nil {
			return fmt.Errorf("coarsening level %d: %w", l, err)
		}
		startName := d.mapping.Project(l, current.Name(current.Start()))
		next, err := grammar.Build(records, startName)
		if err != nil {
			return fmt.Errorf("building level %d grammar: %w", l, err)
		}
		levels[l] = next
		current = next
	}
	d.levels = levels
	return nil
}

// Parse tokenizes sentence and runs it through the full coarse-to-fine
// chain.
func (d *Driver) Parse(sentence string) (*Result, error) {
	tokens, err := d.tokenizer.Tokenize(sentence)
	if err != nil {
		return nil, fmt.Errorf("tokenizing: %w", err)
	}
	return d.ParseTokens(tokens)
}

// ParseTokens runs already-tokenized input through the chain (§4.5
// Per-sentence run): level 0 parses with admit always-true; every
// subsequent level's admission predicate is built from the previous
// level's inside/outside marginals and the pruning threshold. A no-parse
// at any level aborts the remaining levels immediately.
func (d *Driver) ParseTokens(tokens []ctfparse.Token) (*Result, error) {
	var levelStats []cky.Stats
	var prevGrammar *grammar.Grammar
	var prevCalc *insideoutside.Calculator
	var sentenceProb float64
	var finalChart *cky.Chart

	for level, g := range d.levels {
		var admit cky.AdmitFunc
		if level > 0 {
			admit = d.admitFor(g, prevGrammar, prevCalc, sentenceProb, level-1)
		}

		parser := cky.New(g, cky.WithAdmit(admit))
		chart, stats, err := parser.Parse(tokens)
		levelStats = append(levelStats, stats)
		if err != nil {
			tracer().Debugf("no parse at level %d", level)
			return &Result{LevelStats: levelStats}, ctfparse.ErrNoParse
		}

		if level < len(d.levels)-1 {
			calc := insideoutside.New(chart, g)
			z := calc.Inside(g.Start(), 0, len(tokens)-1)
			if z == 0 {
				return &Result{LevelStats: levelStats}, ctfparse.ErrNoParse
			}
			prevGrammar, prevCalc, sentenceProb = g, calc, z
		} else {
			finalChart = chart
		}
	}

	tree, err := cky.Backtrace(finalChart, d.levels[len(d.levels)-1])
	if err != nil {
		return &Result{LevelStats: levelStats}, err
	}
	return &Result{Tree: tree, LevelStats: levelStats}, nil
}

// admitFor builds the admission predicate for parsing fineGrammar, given
// the previous (coarser) level's grammar, inside/outside calculator and
// total sentence probability Z. mapLevel is the mapping level projecting
// fineGrammar's symbols down to coarseGrammar's.
func (d *Driver) admitFor(fineGrammar, coarseGrammar *grammar.Grammar, calc *insideoutside.Calculator, z float64, mapLevel int) cky.AdmitFunc {
	cache := make(map[grammar.Symbol]grammar.Symbol)
	return func(symbol grammar.Symbol, i, j int) bool {
		coarse, ok := cache[symbol]
		if !ok {
			coarseName := d.mapping.Project(mapLevel, fineGrammar.Name(symbol))
			var found bool
			coarse, found = coarseGrammar.Symbol(coarseName)
			if !found {
				coarse = grammar.NoSymbol
			}
			cache[symbol] = coarse
		}
		if coarse == grammar.NoSymbol {
			// No coarse counterpart to compare against: admit rather than
			// silently lose a symbol the coarser level never named.
			return true
		}
		inside := calc.Inside(coarse, i, j)
		outside := calc.Outside(coarse, i, j)
		return inside*outside/z > d.threshold
	}
}
