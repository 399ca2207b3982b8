package cky

import (
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/grammar"
)

const toyGrammarJSONL = `
["Q1", "NP", "Peter", 0.5]
["Q1", "V", "sees", 1.0]
["Q1", "Det", "a", 1.0]
["Q1", "N", "squirrel", 1.0]
["Q2", "S", "NP", "VP", 1.0]
["Q2", "VP", "V", "NP", 1.0]
["Q2", "NP", "Det", "N", 0.5]
["WORDS", ["Peter", "a", "sees", "squirrel"]]
`

func mustBuildToyGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	records, err := grammar.ReadRecords(strings.NewReader(toyGrammarJSONL))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	g, err := grammar.Build(records, "S")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func tokensOf(words ...string) []ctfparse.Token {
	toks := make([]ctfparse.Token, len(words))
	for i, w := range words {
		toks[i] = ctfparse.Token(w)
	}
	return toks
}

// TestParseScenarioA is spec scenario A: the toy grammar parses "Peter
// sees a squirrel" to a specific, fully-determined tree.
func TestParseScenarioA(t *testing.T) {
	g := mustBuildToyGrammar(t)
	p := New(g)

	chart, stats, err := p.Parse(tokensOf("Peter", "sees", "a", "squirrel"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if stats.Length != 4 {
		t.Fatalf("expected length 4, got %d", stats.Length)
	}

	tree, err := Backtrace(chart, g)
	if err != nil {
		t.Fatalf("Backtrace: %v", err)
	}

	want := []interface{}{
		"S",
		[]interface{}{"NP", "Peter"},
		[]interface{}{
			"VP",
			[]interface{}{"V", "sees"},
			[]interface{}{
				"NP",
				[]interface{}{"Det", "a"},
				[]interface{}{"N", "squirrel"},
			},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Fatalf("tree mismatch:\n got  %#v\n want %#v", tree, want)
	}
}

// TestParseScenarioD is spec scenario D: a rare-word fallback via _RARE_.
func TestParseScenarioD(t *testing.T) {
	const in = `
["Q1", "NP", "Peter", 0.5]
["Q1", "V", "sees", 1.0]
["Q1", "Det", "a", 1.0]
["Q1", "N", "squirrel", 0.99]
["Q1", "N", "_RARE_", 0.01]
["Q2", "S", "NP", "VP", 1.0]
["Q2", "VP", "V", "NP", 1.0]
["Q2", "NP", "Det", "N", 0.5]
["WORDS", ["Peter", "a", "sees", "squirrel"]]
`
	records, err := grammar.ReadRecords(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	g, err := grammar.Build(records, "S")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	p := New(g)
	chart, _, err := p.Parse(tokensOf("Peter", "sees", "a", "dodecahedron"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree, err := Backtrace(chart, g)
	if err != nil {
		t.Fatalf("Backtrace: %v", err)
	}
	vp := tree[2].([]interface{})
	np := vp[2].([]interface{})
	leaf := np[2].([]interface{})
	if leaf[0] != "N" || leaf[1] != "dodecahedron" {
		t.Fatalf("expected rare-word fallback leaf [N dodecahedron], got %v", leaf)
	}
}

// TestParseScenarioE is spec scenario E: a sentence with no derivation
// reports ErrNoParse.
func TestParseScenarioE(t *testing.T) {
	g := mustBuildToyGrammar(t)
	p := New(g)

	_, _, err := p.Parse(tokensOf("the", "the", "the", "the"))
	if err != ctfparse.ErrNoParse {
		t.Fatalf("expected ErrNoParse, got %v", err)
	}
}

// TestParseEmptyInputIsNoParse covers the empty-token-sequence edge case.
func TestParseEmptyInputIsNoParse(t *testing.T) {
	g := mustBuildToyGrammar(t)
	p := New(g)
	_, _, err := p.Parse(nil)
	if err != ctfparse.ErrNoParse {
		t.Fatalf("expected ErrNoParse for empty input, got %v", err)
	}
}

// TestAdmitPrunesBinaryItemsOnly verifies the admission predicate is
// consulted for binary combination but never for diagonal seeding.
func TestAdmitPrunesBinaryItemsOnly(t *testing.T) {
	g := mustBuildToyGrammar(t)
	var sawSeedSpan bool
	p := New(g, WithAdmit(func(symbol grammar.Symbol, i, j int) bool {
		if i == j {
			sawSeedSpan = true
		}
		return false // prune every binary candidate
	}))

	_, stats, err := p.Parse(tokensOf("Peter", "sees", "a", "squirrel"))
	if err != ctfparse.ErrNoParse {
		t.Fatalf("expected ErrNoParse when every binary item is pruned, got %v", err)
	}
	if sawSeedSpan {
		t.Fatalf("admit predicate must not be consulted for diagonal seeds")
	}
	if stats.ItemsEntered != 0 {
		t.Fatalf("expected zero entered items, got %d", stats.ItemsEntered)
	}
	if stats.ItemsPruned == 0 {
		t.Fatalf("expected some pruned items")
	}
}
