/*
Package insideoutside implements the inside/outside algorithm of Manning
& Schütze, Foundations of Statistical Natural Language Processing,
§11.3, over a frozen cky.Chart and its Grammar. Both recursions are pure,
memoized functions of the chart; Calculator owns only its two memo
tables, never the chart or grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package insideoutside

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.insideoutside'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.insideoutside")
}
