/*
Package cky implements probabilistic CKY parsing over a Grammar in
Chomsky Normal Form: a bottom-up chart fill by increasing span width,
Viterbi best-item tracking per cell, and an optional per-item admission
predicate used by the coarse-to-fine driver to prune a finer grammar's
chart against a coarser level's marginals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cky

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.cky'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.cky")
}
