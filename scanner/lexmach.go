/*
Package lexmach adapts timtadh/lexmachine into the ctfparse.Tokenizer
collaborator (§6), for callers whose input needs lexical rules a plain
text/scanner split can't express: contractions, multi-word proper nouns,
domain-specific punctuation classes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach

import (
	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'ctfparse.scanner.lexmach'.
func tracer() tracing.Trace {
	return tracing.Select("ctfparse.scanner.lexmach")
}

// Tokenizer wraps a compiled lexmachine DFA as a ctfparse.Tokenizer: each
// match's lexeme becomes one surface token, in scan order. Unconsumed
// input (no pattern matches at the current position) is skipped one
// byte at a time rather than failing the whole sentence, since a single
// stray character should not sink an otherwise tokenizable sentence.
type Tokenizer struct {
	lexer *lexmachine.Lexer
}

var _ ctfparse.Tokenizer = (*Tokenizer)(nil)

// keepLexeme is the action attached to every kept pattern: it records the
// matched bytes as the token's surface form. ctf grammars key terminal
// rules off the surface word, not a lexmachine token type.
func keepLexeme(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return string(m.Bytes), nil
}

// skip is the action attached to every skipPattern: returning a nil
// token tells lexmachine to drop the match and resume scanning, so
// whitespace and other separators never surface as tokens.
func skip(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return nil, nil
}

// New compiles a Tokenizer from a list of lexmachine regular expressions
// matching surface tokens (words, contractions, numerals, punctuation...)
// and a list matching runs to discard (whitespace, typically). Patterns
// are tried in the order given; lexmachine resolves overlaps by longest
// match, then by pattern order.
func New(patterns, skipPatterns []string) (*Tokenizer, error) {
	lexer := lexmachine.NewLexer()
	for _, p := range patterns {
		lexer.Add([]byte(p), keepLexeme)
	}
	for _, p := range skipPatterns {
		lexer.Add([]byte(p), skip)
	}
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("compiling DFA: %v", err)
		return nil, err
	}
	return &Tokenizer{lexer: lexer}, nil
}

// Tokenize implements ctfparse.Tokenizer.
func (t *Tokenizer) Tokenize(sentence string) ([]ctfparse.Token, error) {
	s, err := t.lexer.Scanner([]byte(sentence))
	if err != nil {
		return nil, err
	}
	var tokens []ctfparse.Token
	for {
		tok, err, eof := s.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				s.TC = ui.FailTC
				continue
			}
			return nil, err
		}
		tokens = append(tokens, ctfparse.Token(tok.(string)))
	}
	tracer().Debugf("tokenized %q into %d tokens", sentence, len(tokens))
	return tokens, nil
}
