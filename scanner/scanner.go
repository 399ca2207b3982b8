/*
Package scanner implements the external Tokenizer collaborator (§6): it
turns a sentence into the ordered surface-token sequence a Grammar's
terminal rules are matched against. Two implementations are provided:
GoTokenizer, a thin wrapper over text/scanner, and a lexmachine-backed
tokenizer in sub-package lexmach for callers whose input needs lexical
rules a plain split can't express.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"strings"
	"text/scanner"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ctfparse.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.scanner")
}

// GoTokenizer tokenizes a sentence with text/scanner: every scanned
// identifier, number, string or punctuation rune becomes one surface
// token, in scan order. It implements ctfparse.Tokenizer.
type GoTokenizer struct {
	skipComments bool
}

var _ ctfparse.Tokenizer = GoTokenizer{}

// Option configures a GoTokenizer.
type Option func(*GoTokenizer)

// SkipComments drops Go-style // and /* */ runs instead of returning
// them as tokens.
func SkipComments(b bool) Option {
	return func(t *GoTokenizer) { t.skipComments = b }
}

// NewGoTokenizer creates a GoTokenizer with the given options applied.
func NewGoTokenizer(opts ...Option) GoTokenizer {
	t := GoTokenizer{}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Tokenize implements ctfparse.Tokenizer.
func (t GoTokenizer) Tokenize(sentence string) ([]ctfparse.Token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(sentence))
	s.Filename = "sentence"
	s.Mode = scanner.GoTokens
	if !t.skipComments {
		s.Mode &^= scanner.SkipComments
	}
	var tokens []ctfparse.Token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		tokens = append(tokens, ctfparse.Token(s.TokenText()))
	}
	tracer().Debugf("tokenized %q into %d tokens", sentence, len(tokens))
	return tokens, nil
}
