package grammar

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/npillmayer/ctfparse"
)

// RecordKind tags the three record shapes of the grammar file format (§6).
type RecordKind string

// The three record kinds a grammar file is built from.
const (
	KindQ2    RecordKind = "Q2"
	KindQ1    RecordKind = "Q1"
	KindWords RecordKind = "WORDS"
)

// kindOrder gives the canonical sort order implementations should tolerate
// and the Coarsener always produces: Q1 before Q2 before WORDS.
var kindOrder = map[RecordKind]int{KindQ1: 0, KindQ2: 1, KindWords: 2}

// Record is one line of a grammar file: either a binary rule, a terminal
// rule, or the vocabulary list.
type Record struct {
	Kind  RecordKind
	LHS   string
	RHS1  string
	RHS2  string // unused for Q1
	Prob  float64
	Words []string // only populated for KindWords
}

// ReadRecords reads JSON-lines grammar records from r, one record per
// line. Blank lines are skipped. Records may appear in any order.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(bytesTrimSpace(line)) == 0 {
			continue
		}
		rec, err := parseRecordLine(line)
		if err != nil {
			return nil, &ctfparse.MalformedGrammarError{Line: lineNo, Reason: err.Error()}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grammar records: %w", err)
	}
	return records, nil
}

func bytesTrimSpace(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isSpaceByte(b[i]) {
		i++
	}
	for j > i && isSpaceByte(b[j-1]) {
		j--
	}
	return b[i:j]
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func parseRecordLine(line []byte) (Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, fmt.Errorf("not a JSON array: %w", err)
	}
	if len(raw) == 0 {
		return Record{}, fmt.Errorf("empty record")
	}
	var tag string
	if err := json.Unmarshal(raw[0], &tag); err != nil {
		return Record{}, fmt.Errorf("record tag is not a string: %w", err)
	}
	switch RecordKind(tag) {
	case KindQ2:
		if len(raw) != 5 {
			return Record{}, fmt.Errorf("Q2 record needs 5 fields, got %d", len(raw))
		}
		rec := Record{Kind: KindQ2}
		if err := decodeStrings(raw[1:4], &rec.LHS, &rec.RHS1, &rec.RHS2); err != nil {
			return Record{}, err
		}
		if err := json.Unmarshal(raw[4], &rec.Prob); err != nil {
			return Record{}, fmt.Errorf("Q2 probability: %w", err)
		}
		if rec.Prob <= 0 || rec.Prob > 1 {
			return Record{}, fmt.Errorf("Q2 probability %v out of (0,1]", rec.Prob)
		}
		return rec, nil
	case KindQ1:
		if len(raw) != 4 {
			return Record{}, fmt.Errorf("Q1 record needs 4 fields, got %d", len(raw))
		}
		rec := Record{Kind: KindQ1}
		if err := decodeStrings(raw[1:3], &rec.LHS, &rec.RHS1); err != nil {
			return Record{}, err
		}
		if err := json.Unmarshal(raw[3], &rec.Prob); err != nil {
			return Record{}, fmt.Errorf("Q1 probability: %w", err)
		}
		if rec.Prob <= 0 || rec.Prob > 1 {
			return Record{}, fmt.Errorf("Q1 probability %v out of (0,1]", rec.Prob)
		}
		return rec, nil
	case KindWords:
		if len(raw) != 2 {
			return Record{}, fmt.Errorf("WORDS record needs 2 fields, got %d", len(raw))
		}
		var words []string
		if err := json.Unmarshal(raw[1], &words); err != nil {
			return Record{}, fmt.Errorf("WORDS list: %w", err)
		}
		return Record{Kind: KindWords, Words: words}, nil
	default:
		return Record{}, fmt.Errorf("unknown record tag %q", tag)
	}
}

func decodeStrings(raw []json.RawMessage, dst ...*string) error {
	if len(raw) != len(dst) {
		return fmt.Errorf("field count mismatch")
	}
	for i, r := range raw {
		if err := json.Unmarshal(r, dst[i]); err != nil {
			return fmt.Errorf("expected a string field: %w", err)
		}
	}
	return nil
}

// WriteRecords writes records as JSON-lines, sorted stably by kind so that
// Q1 precedes Q2 precedes WORDS, matching the canonical order §6 asks
// implementations to tolerate.
func WriteRecords(w io.Writer, records []Record) error {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return kindOrder[sorted[i].Kind] < kindOrder[sorted[j].Kind]
	})
	enc := json.NewEncoder(w)
	for _, rec := range sorted {
		var line []interface{}
		switch rec.Kind {
		case KindQ2:
			line = []interface{}{rec.Kind, rec.LHS, rec.RHS1, rec.RHS2, rec.Prob}
		case KindQ1:
			line = []interface{}{rec.Kind, rec.LHS, rec.RHS1, rec.Prob}
		case KindWords:
			line = []interface{}{rec.Kind, rec.Words}
		default:
			return fmt.Errorf("unknown record kind %q", rec.Kind)
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	return nil
}
