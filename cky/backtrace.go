package cky

import (
	"strings"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/grammar"
)

// Backtrace resolves the Viterbi-best derivation rooted at
// chart[0][n-1][g.Start()] into a nested-list tree (§6): each interior
// node is []interface{}{name, left, right}, each leaf is
// []interface{}{name, token}. Symbol names are truncated at the first
// '|' to strip parent annotation a caller's binarisation may have
// introduced; the truncation is purely cosmetic and only applied to the
// returned tree, never to chart lookups.
func Backtrace(chart *Chart, g *grammar.Grammar) ([]interface{}, error) {
	item, ok := chart.Item(0, chart.N()-1, g.Start())
	if !ok {
		return nil, ctfparse.ErrNoParse
	}
	return backtrace(chart, g, item), nil
}

func backtrace(chart *Chart, g *grammar.Grammar, item *ChartItem) []interface{} {
	name := stripParentAnnotation(g.Name(item.Symbol))
	if item.Terminal {
		return []interface{}{name, item.Token}
	}
	left, _ := chart.Item(item.Left.I, item.Left.J, item.Left.Symbol)
	right, _ := chart.Item(item.Right.I, item.Right.J, item.Right.Symbol)
	return []interface{}{name, backtrace(chart, g, left), backtrace(chart, g, right)}
}

func stripParentAnnotation(name string) string {
	if idx := strings.IndexByte(name, '|'); idx >= 0 {
		return name[:idx]
	}
	return name
}
