/*
Command ckyparser runs plain probabilistic CKY (single grammar, no
coarse-to-fine pruning) over sentences read from standard input, one per
line, writing one parse tree (or `[]` on no-parse) per line to standard
output.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/pterm/pterm"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/cky"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/scanner"
)

func main() {
	grammarPath := flag.String("grammar", "", "path to the grammar's JSON-lines records")
	enableLogs := flag.Bool("enable_logs", false, "enable trace logging")
	flag.Parse()

	if *enableLogs {
		gtrace.CoreTracer = gologadapter.New()
		tracing.Select("ctfparse.cmd.ckyparser").SetTraceLevel(tracing.LevelDebug)
		tracing.Select("ctfparse.cky").SetTraceLevel(tracing.LevelDebug)
		tracing.Select("ctfparse.scanner").SetTraceLevel(tracing.LevelDebug)
	}

	if *grammarPath == "" {
		pterm.Error.Println("--grammar is required")
		os.Exit(2)
	}

	f, err := os.Open(*grammarPath)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("opening grammar file: %v", err))
		os.Exit(1)
	}
	records, err := grammar.ReadRecords(f)
	f.Close()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("reading grammar records: %v", err))
		os.Exit(1)
	}
	g, err := grammar.Build(records, "S")
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("building grammar: %v", err))
		os.Exit(1)
	}

	parser := cky.New(g)
	tokenizer := scanner.NewGoTokenizer()

	scan := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scan.Scan() {
		tree, err := parseLine(scan.Text(), g, parser, tokenizer)
		if err != nil {
			if err != ctfparse.ErrNoParse {
				pterm.Error.Println(err.Error())
			}
			tree = []interface{}{}
		}
		enc, err := json.Marshal(tree)
		if err != nil {
			pterm.Error.Println(fmt.Sprintf("encoding tree: %v", err))
			continue
		}
		fmt.Fprintln(out, string(enc))
	}
	if err := scan.Err(); err != nil {
		pterm.Error.Println(fmt.Sprintf("reading stdin: %v", err))
		os.Exit(1)
	}
}

func parseLine(sentence string, g *grammar.Grammar, parser *cky.Parser, tokenizer scanner.GoTokenizer) ([]interface{}, error) {
	tokens, err := tokenizer.Tokenize(sentence)
	if err != nil {
		return nil, fmt.Errorf("tokenizing: %w", err)
	}
	chart, _, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return cky.Backtrace(chart, g)
}
