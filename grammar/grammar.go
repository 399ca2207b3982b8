package grammar

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/iteratable"
	"github.com/npillmayer/ctfparse/matrix"
)

// symbolComparator orders Symbols numerically, for use with gods' treeset.
func symbolComparator(a, b interface{}) int {
	x, y := a.(Symbol), b.(Symbol)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Grammar is a finite set of binary and terminal rewrite rules in
// log-probability form, plus a vocabulary and a distinguished start
// symbol. It is built once by Build and is read-only thereafter; every
// index below is safe to share across concurrently-running parses.
type Grammar struct {
	symtab *symbolTable
	start  Symbol

	binaryRules   []BinaryRule
	terminalRules []TerminalRule

	vocabulary *treeset.Set // of string, known surface words
	rareWord   Symbol

	// binaryIndex maps (rhs1,rhs2) -> rule-group id (0 = none). Dimensions
	// cover the dense range of non-terminal ids that appear as rhs1/rhs2.
	binaryIndex   *matrix.IntMatrix
	groupToBinary map[int32][]BinaryRule
	nextGroup     int32

	terminalIndex   map[Symbol]int32 // terminal symbol -> rule-group id
	groupToTerminal map[int32][]TerminalRule
	nextTermGroup   int32

	firstToSeconds map[Symbol]*iteratable.Set // rhs1 -> set of rhs2
	firstSymbols   *treeset.Set               // ordered set of all rhs1

	lhsToRules  map[Symbol][]BinaryRule
	rhs1ToRules map[Symbol][]BinaryRule
	rhs2ToRules map[Symbol][]BinaryRule
}

// Build constructs a Grammar from an ordered list of records and a
// start-symbol name, following the interning discipline of §4.1: the
// start symbol is interned first, then every symbol mentioned by a Q2
// record (so the rhs1/rhs2 range is dense and low), then terminals and
// the _RARE_ sentinel.
func Build(records []Record, startSymbol string) (*Grammar, error) {
	g := &Grammar{
		symtab:          newSymbolTable(),
		vocabulary:      treeset.NewWithStringComparator(),
		binaryIndex:     nil,
		groupToBinary:   make(map[int32][]BinaryRule),
		terminalIndex:   make(map[Symbol]int32),
		groupToTerminal: make(map[int32][]TerminalRule),
		firstToSeconds:  make(map[Symbol]*iteratable.Set),
		firstSymbols:    treeset.NewWith(symbolComparator),
		lhsToRules:      make(map[Symbol][]BinaryRule),
		rhs1ToRules:     make(map[Symbol][]BinaryRule),
		rhs2ToRules:     make(map[Symbol][]BinaryRule),
	}
	g.start = g.symtab.intern(startSymbol)
	tracer().Debugf("building grammar with start symbol %q from %d records", startSymbol, len(records))

	var wordsRecord *Record
	var q1Records []Record

	// Pass 1: binary rules only, so every rhs1/rhs2 symbol is interned
	// before any purely-terminal symbol.
	for i := range records {
		rec := &records[i]
		switch rec.Kind {
		case KindQ2:
			lhs := g.symtab.intern(rec.LHS)
			rhs1 := g.symtab.intern(rec.RHS1)
			rhs2 := g.symtab.intern(rec.RHS2)
			g.binaryRules = append(g.binaryRules, BinaryRule{
				LHS: lhs, RHS1: rhs1, RHS2: rhs2, LogP: math.Log(rec.Prob),
			})
		case KindQ1:
			q1Records = append(q1Records, *rec)
		case KindWords:
			wr := *rec
			wordsRecord = &wr
		default:
			return nil, &ctfparse.MalformedGrammarError{Reason: fmt.Sprintf("unknown record kind %q", rec.Kind)}
		}
	}

	if wordsRecord != nil {
		for _, w := range wordsRecord.Words {
			g.vocabulary.Add(w)
		}
	}

	// Pass 2: terminal rules and the vocabulary, then the _RARE_ sentinel.
	for _, rec := range q1Records {
		lhs := g.symtab.intern(rec.LHS)
		term := g.symtab.intern(rec.RHS1)
		g.terminalRules = append(g.terminalRules, TerminalRule{
			LHS: lhs, Terminal: term, LogP: math.Log(rec.Prob),
		})
	}
	g.rareWord = g.symtab.intern(RareWord)

	if err := g.buildIndexes(); err != nil {
		return nil, err
	}
	if err := g.checkStochastic(); err != nil {
		return nil, err
	}
	tracer().Debugf("grammar built: %d binary rules, %d terminal rules, %d vocabulary entries",
		len(g.binaryRules), len(g.terminalRules), g.vocabulary.Size())
	return g, nil
}

func (g *Grammar) buildIndexes() error {
	maxNT := 0
	for _, r := range g.binaryRules {
		if int(r.RHS1) > maxNT {
			maxNT = int(r.RHS1)
		}
		if int(r.RHS2) > maxNT {
			maxNT = int(r.RHS2)
		}
	}
	g.binaryIndex = matrix.NewIntMatrix(maxNT+1, maxNT+1, matrix.DefaultNullValue)

	// Bucket binary rules by (rhs1,rhs2) pair, assigning a rule-group id
	// to each distinct pair.
	groupOf := make(map[[2]Symbol]int32)
	for _, r := range g.binaryRules {
		key := [2]Symbol{r.RHS1, r.RHS2}
		gid, ok := groupOf[key]
		if !ok {
			g.nextGroup++
			gid = g.nextGroup
			groupOf[key] = gid
			g.binaryIndex.Set(int(r.RHS1), int(r.RHS2), gid)

			if _, ok := g.firstToSeconds[r.RHS1]; !ok {
				g.firstToSeconds[r.RHS1] = iteratable.NewSet()
			}
			g.firstToSeconds[r.RHS1].Add(r.RHS2)
			g.firstSymbols.Add(r.RHS1)
		}
		g.groupToBinary[gid] = append(g.groupToBinary[gid], r)

		g.lhsToRules[r.LHS] = append(g.lhsToRules[r.LHS], r)
		g.rhs1ToRules[r.RHS1] = append(g.rhs1ToRules[r.RHS1], r)
		g.rhs2ToRules[r.RHS2] = append(g.rhs2ToRules[r.RHS2], r)
	}

	termGroupOf := make(map[Symbol]int32)
	for _, r := range g.terminalRules {
		gid, ok := termGroupOf[r.Terminal]
		if !ok {
			g.nextTermGroup++
			gid = g.nextTermGroup
			termGroupOf[r.Terminal] = gid
			g.terminalIndex[r.Terminal] = gid
		}
		g.groupToTerminal[gid] = append(g.groupToTerminal[gid], r)
	}
	return nil
}

// checkStochastic verifies invariant 1 of §8: for every LHS, the
// probabilities of all rules rewriting it sum to 1 within ε.
func (g *Grammar) checkStochastic() error {
	const eps = 1e-6
	mass := make(map[Symbol]float64)
	for _, r := range g.binaryRules {
		mass[r.LHS] += math.Exp(r.LogP)
	}
	for _, r := range g.terminalRules {
		mass[r.LHS] += math.Exp(r.LogP)
	}
	for lhs, m := range mass {
		if math.Abs(m-1.0) > eps {
			return &ctfparse.MalformedGrammarError{
				Reason: fmt.Sprintf("LHS %q is not stochastic: rules sum to %v", g.symtab.name(lhs), m),
			}
		}
	}
	return nil
}

// Start returns the grammar's distinguished start symbol.
func (g *Grammar) Start() Symbol { return g.start }

// Symbol looks up a symbol by name without failing; it is a
// thin wrapper clients use to translate surface names to Symbol ids for
// chart lookups. It does not mutate the grammar: an unknown name returns
// (NoSymbol, false).
func (g *Grammar) Symbol(name string) (Symbol, bool) {
	return g.symtab.lookup(name)
}

// Name returns the interned name for a Symbol.
func (g *Grammar) Name(s Symbol) string {
	return g.symtab.name(s)
}

// Norm returns the vocabulary-normalised form of a surface word: the word
// itself if known, else the _RARE_ sentinel symbol.
func (g *Grammar) Norm(word string) Symbol {
	if g.vocabulary.Contains(word) {
		if s, ok := g.symtab.lookup(word); ok {
			return s
		}
	}
	return g.rareWord
}

// RareSymbol returns the interned _RARE_ sentinel symbol.
func (g *Grammar) RareSymbol() Symbol { return g.rareWord }

// TerminalRulesFor returns every terminal rule rewriting to symbol term.
func (g *Grammar) TerminalRulesFor(term Symbol) []TerminalRule {
	gid, ok := g.terminalIndex[term]
	if !ok {
		return nil
	}
	return g.groupToTerminal[gid]
}

// BinaryRulesFor returns every binary rule with the given (rhs1,rhs2)
// pair.
func (g *Grammar) BinaryRulesFor(rhs1, rhs2 Symbol) []BinaryRule {
	gid := g.binaryIndex.Value(int(rhs1), int(rhs2))
	if gid == g.binaryIndex.NullValue() {
		return nil
	}
	return g.groupToBinary[gid]
}

// FirstSymbols returns the ordered set of all rhs1 symbols appearing in
// binary rules.
func (g *Grammar) FirstSymbols() *treeset.Set { return g.firstSymbols }

// SecondsFor returns the set of rhs2 symbols co-occurring with rhs1 in
// binary rules, or nil if rhs1 never appears as rhs1.
func (g *Grammar) SecondsFor(rhs1 Symbol) *iteratable.Set {
	return g.firstToSeconds[rhs1]
}

// RulesByLHS returns every binary rule headed by lhs, for the inside/
// outside induction step.
func (g *Grammar) RulesByLHS(lhs Symbol) []BinaryRule { return g.lhsToRules[lhs] }

// RulesByRHS1 returns every binary rule in which symbol appears as rhs1,
// for the outside "right contribution".
func (g *Grammar) RulesByRHS1(symbol Symbol) []BinaryRule { return g.rhs1ToRules[symbol] }

// RulesByRHS2 returns every binary rule in which symbol appears as rhs2,
// for the outside "left contribution".
func (g *Grammar) RulesByRHS2(symbol Symbol) []BinaryRule { return g.rhs2ToRules[symbol] }

// AllBinaryRules returns every binary rule of the grammar, for transforms
// (e.g. the Coarsener) that must project the whole rule set.
func (g *Grammar) AllBinaryRules() []BinaryRule { return g.binaryRules }

// AllTerminalRules returns every terminal rule of the grammar.
func (g *Grammar) AllTerminalRules() []TerminalRule { return g.terminalRules }
