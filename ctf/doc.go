/*
Package ctf implements the multilevel coarse-to-fine parsing driver
(§4.5): given a finest grammar and a coarse-to-fine mapping, it
materializes the full grammar chain G₀ ≺ G₁ ≺ … ≺ G_L (coarsest to
finest, optionally disk-cached) and runs one CKY pass per level per
sentence, pruning each finer level's chart against the previous level's
inside/outside marginals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ctf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.ctf'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.ctf")
}
