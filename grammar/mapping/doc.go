/*
Package mapping holds the coarse-to-fine symbol projection: for every
level ℓ = 0…L of a grammar chain, a fine→coarse and a coarse→fine partial
function between the symbol names of level ℓ+1 and those of level ℓ.
Level 0 is the coarsest, root partition; the finest alphabet, level L+1,
is the original grammar's own and has no projection entry of its own.

The mapping is read from a nested JSON object (§6): each key is a coarse
symbol name, and its value is either a list of fine symbol names (a leaf
partition) or a further nested mapping refining those fine symbols again.
The outermost object is level 0.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package mapping

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.mapping'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.mapping")
}
