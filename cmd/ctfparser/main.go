/*
Command ctfparser runs the multilevel coarse-to-fine parser over sentences
read from standard input, one per line, writing one parse tree (or `[]`
on no-parse) per line to standard output.

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
	"path/filepath"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/pterm/pterm"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/ctf"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/grammar/mapping"
	"github.com/npillmayer/ctfparse/scanner"
)

func main() {
	grammarPath := flag.String("grammar", "", "path to the finest grammar's JSON-lines records")
	ctfmappingPath := flag.String("ctfmapping", "", "path to the coarse-to-fine mapping")
	threshold := flag.Float64("threshold", 0.0001, "pruning threshold for inside/outside marginals")
	cacheDir := flag.String("cache_dir", "", "directory to cache coarsened grammar levels in (default: alongside --grammar)")
	noCache := flag.Bool("no_cache", false, "disable coarsened-grammar caching")
	enableLogs := flag.Bool("enable_logs", false, "enable trace logging")
	flag.Parse()

	if *enableLogs {
		gtrace.CoreTracer = gologadapter.New()
		enableTracing()
	}

	if *grammarPath == "" || *ctfmappingPath == "" {
		pterm.Error.Println("both --grammar and --ctfmapping are required")
		os.Exit(2)
	}

	g, err := loadGrammar(*grammarPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	m, err := loadMapping(*ctfmappingPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	opts := []ctf.Option{ctf.WithThreshold(*threshold)}
	if !*noCache {
		dir := *cacheDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(*grammarPath), ".ctfcache")
		}
		opts = append(opts, ctf.WithCache(dir, *grammarPath))
	}

	driver, err := ctf.NewDriver(g, m, scanner.NewGoTokenizer(), opts...)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("building coarse-to-fine driver: %v", err))
		os.Exit(1)
	}

	runLoop(func(sentence string) ([]interface{}, error) {
		result, err := driver.Parse(sentence)
		if err != nil {
			return nil, err
		}
		return result.Tree, nil
	})
}

func loadGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grammar file: %w", err)
	}
	defer f.Close()
	records, err := grammar.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading grammar records: %w", err)
	}
	g, err := grammar.Build(records, "S")
	if err != nil {
		return nil, fmt.Errorf("building grammar: %w", err)
	}
	return g, nil
}

func loadMapping(path string) (*mapping.Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ctf mapping file: %w", err)
	}
	defer f.Close()
	m, err := mapping.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading ctf mapping: %w", err)
	}
	return m, nil
}

// runLoop reads sentences one per line from stdin and writes one JSON
// tree (or an empty array on ctfparse.ErrNoParse) per line to stdout.
func runLoop(parse func(string) ([]interface{}, error)) {
	scan := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scan.Scan() {
		line := scan.Text()
		tree, err := parse(line)
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

func tracer() tracing.Trace {
	return tracing.Select("ctfparse.cmd.ctfparser")
}

// enableTracing raises the trace level of every package this command runs
// to Debug, for --enable_logs.
func enableTracing() {
	for _, key := range []string{
		"ctfparse.cmd.ctfparser",
		"ctfparse.ctf",
		"ctfparse.grammar",
		"ctfparse.cky",
		"ctfparse.coarsen",
		"ctfparse.insideoutside",
		"ctfparse.mapping",
		"ctfparse.scanner",
	} {
		tracing.Select(key).SetTraceLevel(tracing.LevelDebug)
	}
}
