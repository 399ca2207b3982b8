package coarsen

import (
	"math"
	"strings"
	"testing"

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

// TestProjectScenarioC is spec scenario C: projecting the toy grammar at
// level 2 merges S and VP's LHSs into S_ and NP's LHS into N_, leaving V,
// Det and N untouched, and the result is stochastic per projected LHS.
func TestProjectScenarioC(t *testing.T) {
	g := mustBuildToyGrammar(t)
	m := mustLoadToyMapping(t)

	records, err := New().Project(g, m, 2)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	lhsSet := make(map[string]bool)
	mass := make(map[string]float64)
	var words []string
	for _, r := range records {
		switch r.Kind {
		case grammar.KindQ2, grammar.KindQ1:
			lhsSet[r.LHS] = true
			mass[r.LHS] += r.Prob
		case grammar.KindWords:
			words = r.Words
		}
	}

	for _, forbidden := range []string{"S", "VP", "NP"} {
		if lhsSet[forbidden] {
			t.Fatalf("expected %q to be projected away, but it remains an LHS", forbidden)
		}
	}
	for _, want := range []string{"S_", "N_", "V", "Det", "N"} {
		if !lhsSet[want] {
			t.Fatalf("expected LHS %q in projected grammar, got set %v", want, lhsSet)
		}
	}

	const eps = 1e-9
	for lhs, m := range mass {
		if math.Abs(m-1.0) > eps {
			t.Fatalf("LHS %q not stochastic after projection: mass=%v", lhs, m)
		}
	}

	if len(words) == 0 {
		t.Fatalf("expected a non-empty WORDS record")
	}
}

// TestProjectSumsCollidingRules checks the corrected dedup semantics: two
// fine rules that project to the same (lhs, rhs) must have their
// probabilities summed, not overwritten, before renormalisation.
func TestProjectSumsCollidingRules(t *testing.T) {
	in := `
["Q2", "A", "X", "Y", 0.9]
["Q1", "A", "a", 0.1]
["Q2", "B", "X", "Y", 0.1]
["Q1", "B", "b", 0.9]
`
	records, err := grammar.ReadRecords(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	g, err := grammar.Build(records, "A")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// A and B both collapse to AB; a/b stay distinct terminals.
	m, err := mapping.Load(strings.NewReader(`{"AB": ["A", "B"]}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := New().Project(g, m, 0)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	var q2 *grammar.Record
	for i := range out {
		if out[i].Kind == grammar.KindQ2 && out[i].LHS == "AB" && out[i].RHS1 == "X" && out[i].RHS2 == "Y" {
			q2 = &out[i]
		}
	}
	if q2 == nil {
		t.Fatalf("expected a single collapsed Q2 rule AB -> X Y, got %+v", out)
	}

	var mass float64
	for _, r := range out {
		if r.Kind == grammar.KindQ1 || r.Kind == grammar.KindQ2 {
			if r.LHS == "AB" {
				mass += r.Prob
			}
		}
	}
	if math.Abs(mass-1.0) > 1e-9 {
		t.Fatalf("expected AB's rules to renormalise to 1, got %v", mass)
	}

	// Sum-then-renormalize: 0.9+0.1=1.0 for the collapsed Q2 rule against a
	// total mass of 0.1(A->a) + 0.9(B->b) + 1.0(summed X Y) = 2.0, so the
	// Q2 rule's share is 0.5 — distinct from what overwrite would give.
	if math.Abs(q2.Prob-0.5) > 1e-9 {
		t.Fatalf("expected summed probability share 0.5, got %v", q2.Prob)
	}
}

// TestHistoricalOverwriteReproducesOriginalBug exercises
// WithHistoricalOverwrite: colliding rules replace rather than accumulate,
// matching the original tool's behavior for fixture parity.
func TestHistoricalOverwriteReproducesOriginalBug(t *testing.T) {
	in := `
["Q2", "A", "X", "Y", 0.9]
["Q1", "A", "a", 0.1]
["Q2", "B", "X", "Y", 0.1]
["Q1", "B", "b", 0.9]
`
	records, err := grammar.ReadRecords(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	g, err := grammar.Build(records, "A")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	m, err := mapping.Load(strings.NewReader(`{"AB": ["A", "B"]}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := New(WithHistoricalOverwrite()).Project(g, m, 0)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	var q2 *grammar.Record
	for i := range out {
		if out[i].Kind == grammar.KindQ2 && out[i].LHS == "AB" {
			q2 = &out[i]
		}
	}
	if q2 == nil {
		t.Fatalf("expected a collapsed Q2 rule, got %+v", out)
	}
	// With overwrite, B's 0.1 for X Y replaces A's 0.9 rather than summing
	// with it; surviving mass for AB is 0.1(XY)+0.1(a)+0.9(b)=1.1, so the
	// Q2 rule's share is 0.1/1.1, distinct from the summed 0.5 above.
	if math.Abs(q2.Prob-0.1/1.1) > 1e-9 {
		t.Fatalf("expected historical-overwrite share %v, got %v", 0.1/1.1, q2.Prob)
	}
}
