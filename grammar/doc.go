/*
Package grammar implements the binary-normalised weighted grammar
representation at the core of probabilistic CKY parsing, along with the
indexes CKY and the inside/outside calculator need for fast lookup.

Building a Grammar

A Grammar is built once, from an ordered list of Records (§4.1 of the
parsing specification this module implements) plus a start-symbol name:

	recs, _ := grammar.ReadRecords(r)
	g, err := grammar.Build(recs, "S")

Symbol interning follows a fixed discipline so that every symbol appearing
as rhs1 or rhs2 of a binary rule ends up in a dense, low range suitable for
indexing a 2-D matrix: the start symbol is interned first, then every
symbol mentioned by a Q2 record, and only then terminals and the _RARE_
sentinel.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.grammar")
}
