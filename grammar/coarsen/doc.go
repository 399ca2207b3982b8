/*
Package coarsen projects a fine grammar onto a coarser symbol alphabet
(§4.2): every rule's LHS, RHS1 and RHS2 (or terminal) are rewritten through
a mapping.Mapping, probabilities are summed across rules that collide
after projection, and the result is renormalised per projected LHS so the
output is itself a well-formed stochastic grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package coarsen

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.coarsen'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.coarsen")
}
