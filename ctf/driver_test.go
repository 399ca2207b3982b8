package ctf

import (
	"strings"
	"testing"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/cky"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/grammar/mapping"
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

const toyMappingJSON = `
{
  "P": {
    "HP": {
      "S_": ["S", "VP"]
    },
    "MP": {
      "N_": ["NP"]
    }
  }
}
`

// whitespaceTokenizer is a stand-in for the external Tokenizer collaborator
// (§6): it splits on spaces, which is all the toy fixtures need.
type whitespaceTokenizer struct{}

func (whitespaceTokenizer) Tokenize(sentence string) ([]ctfparse.Token, error) {
	fields := strings.Fields(sentence)
	toks := make([]ctfparse.Token, len(fields))
	for i, f := range fields {
		toks[i] = ctfparse.Token(f)
	}
	return toks, nil
}

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

func mustLoadToyMapping(t *testing.T) *mapping.Mapping {
	t.Helper()
	m, err := mapping.Load(strings.NewReader(toyMappingJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

var scenarioATree = []interface{}{
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

func treesEqual(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		switch av := a[i].(type) {
		case string:
			bv, ok := b[i].(string)
			if !ok || av != bv {
				return false
			}
		case []interface{}:
			bv, ok := b[i].([]interface{})
			if !ok || !treesEqual(av, bv) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// TestScenarioFTinyThresholdPreservesViterbi is spec scenario F: with a
// vanishingly small pruning threshold, the CTF driver must return the same
// tree as a plain CKY parse of the finest grammar.
func TestScenarioFTinyThresholdPreservesViterbi(t *testing.T) {
	g := mustBuildToyGrammar(t)
	m := mustLoadToyMapping(t)

	driver, err := NewDriver(g, m, whitespaceTokenizer{}, WithThreshold(1e-9))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	result, err := driver.Parse("Peter sees a squirrel")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !treesEqual(result.Tree, scenarioATree) {
		t.Fatalf("tree mismatch:\n got  %#v\n want %#v", result.Tree, scenarioATree)
	}
}

// TestScenarioFCoarseThresholdFallsBackToNoParse is the other half of
// scenario F: a threshold so high it prunes everything but unit
// probability causes the chain to lose the parse at an intermediate
// level.
func TestScenarioFCoarseThresholdFallsBackToNoParse(t *testing.T) {
	g := mustBuildToyGrammar(t)
	m := mustLoadToyMapping(t)

	driver, err := NewDriver(g, m, whitespaceTokenizer{}, WithThreshold(1.0))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	_, err = driver.Parse("Peter sees a squirrel")
	if err != ctfparse.ErrNoParse {
		t.Fatalf("expected ErrNoParse at an aggressive threshold, got %v", err)
	}
}

// TestCTFEquivalenceUnderZeroThreshold is testable property 7: with
// threshold <= 0, pruning never discards a candidate, so the driver's
// final tree matches a direct CKY parse of the finest grammar alone.
func TestCTFEquivalenceUnderZeroThreshold(t *testing.T) {
	g := mustBuildToyGrammar(t)
	m := mustLoadToyMapping(t)

	driver, err := NewDriver(g, m, whitespaceTokenizer{}, WithThreshold(0))
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	result, err := driver.Parse("Peter sees a squirrel")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	plain := cky.New(g)
	chart, _, err := plain.Parse(tokensOf("Peter", "sees", "a", "squirrel"))
	if err != nil {
		t.Fatalf("plain Parse: %v", err)
	}
	want, err := cky.Backtrace(chart, g)
	if err != nil {
		t.Fatalf("Backtrace: %v", err)
	}
	if !treesEqual(result.Tree, want) {
		t.Fatalf("CTF at theta=0 diverged from plain CKY:\n got  %#v\n want %#v", result.Tree, want)
	}
}

// TestCTFMonotoneWork is testable property 8: raising the threshold never
// increases items_entered at any level beyond the coarsest.
func TestCTFMonotoneWork(t *testing.T) {
	g := mustBuildToyGrammar(t)
	m := mustLoadToyMapping(t)

	loose, err := NewDriver(g, m, whitespaceTokenizer{}, WithThreshold(1e-9))
	if err != nil {
		t.Fatalf("NewDriver(loose): %v", err)
	}
	looseResult, err := loose.Parse("Peter sees a squirrel")
	if err != nil {
		t.Fatalf("loose Parse: %v", err)
	}

	tight, err := NewDriver(g, m, whitespaceTokenizer{}, WithThreshold(0.3))
	if err != nil {
		t.Fatalf("NewDriver(tight): %v", err)
	}
	tightResult, _ := tight.Parse("Peter sees a squirrel")

	for level := 1; level < len(looseResult.LevelStats) && level < len(tightResult.LevelStats); level++ {
		if tightResult.LevelStats[level].ItemsEntered > looseResult.LevelStats[level].ItemsEntered {
			t.Fatalf("level %d: tighter threshold entered more items (%d) than looser threshold (%d)",
				level, tightResult.LevelStats[level].ItemsEntered, looseResult.LevelStats[level].ItemsEntered)
		}
	}
}

func tokensOf(words ...string) []ctfparse.Token {
	toks := make([]ctfparse.Token, len(words))
	for i, w := range words {
		toks[i] = ctfparse.Token(w)
	}
	return toks
}
