package ctfparse

import "fmt"

// ErrNoParse is returned when a chart's (0, n-1, start) cell is empty, or
// when an intermediate coarse-to-fine level yields a sentence probability
// of zero. It is recoverable: callers should report it (e.g. as an empty
// tree) and move on to the next sentence.
var ErrNoParse = fmt.Errorf("no parse found")

// MalformedGrammarError reports a structural violation encountered while
// constructing a Grammar: a bad record tag, a non-positive probability, or
// an arity outside {1,2}. It is fatal for the grammar load that produced
// it.
type MalformedGrammarError struct {
	Line   int    // 1-based line number of the offending record, 0 if n/a
	Reason string
}

func (e *MalformedGrammarError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed grammar at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed grammar: %s", e.Reason)
}

// MalformedMappingError reports a coarse-to-fine mapping that is not
// nested as specified (§6): every value must be either a list of fine
// symbols or a further nested mapping.
type MalformedMappingError struct {
	Reason string
}

func (e *MalformedMappingError) Error() string {
	return fmt.Sprintf("malformed ctf mapping: %s", e.Reason)
}

// CacheUnusableError wraps the underlying cause of a coarsened-grammar
// cache file being missing or corrupt. Callers recover locally by
// recomputing and rewriting the cache; this type exists mainly so the
// cause can be logged.
type CacheUnusableError struct {
	Path string
	Err  error
}

func (e *CacheUnusableError) Error() string {
	return fmt.Sprintf("cache unusable at %s: %v", e.Path, e.Err)
}

func (e *CacheUnusableError) Unwrap() error {
	return e.Err
}
