/*
Package ctfparse implements multilevel coarse-to-fine parsing of natural
language sentences under a weighted context-free grammar.

A sentence is parsed repeatedly against a chain of grammars of increasing
granularity: the coarsest grammar is parsed unconstrained, and its inside/
outside marginals are used to prune the chart of the next, finer grammar.
The base algorithm at every level is probabilistic CKY over a grammar in
binary normal form.

Sub-packages

	grammar          binary-normalised weighted grammar and its CKY indexes
	grammar/coarsen   projects a fine grammar onto a coarser symbol alphabet
	grammar/mapping   the per-level fine↔coarse symbol projection
	cky              probabilistic CKY chart parser
	insideoutside     inside/outside marginals over a filled chart
	ctf              the coarse-to-fine driver chaining the above
	scanner          tokenizer collaborators (text/scanner, lexmachine)

This package holds only the small cross-cutting types every other package
shares: Token, the Tokenizer collaborator interface, and the error kinds of
§7 of the parsing specification this module implements.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ctfparse
