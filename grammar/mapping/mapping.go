package mapping

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ctfparse"
)

// Separators baked into composite symbol names by grammar normal-form
// transforms: UnaryChainSep marks a collapsed unary chain, NarySep marks
// n-ary binarisation. Package mapping is the only place that interprets
// them (§9); everywhere else they are opaque bytes of a symbol name.
const (
	UnaryChainSep = "‡" // ‡
	NarySep       = "†" // †
)

// Mapping holds the fine↔coarse symbol projection for every level of a
// coarsening chain. Level 0 is coarsest; Levels is the highest level
// index present (the finest alphabet is level Levels+1, i.e. the
// original, unprojected grammar).
type Mapping struct {
	fineToCoarse []map[string]string   // fineToCoarse[level][fine] = coarse
	coarseToFine []map[string][]string // coarseToFine[level][coarse] = [fine,...]
	Levels       int
}

// Load reads a Mapping from its nested-JSON wire format (§6).
func Load(r io.Reader) (*Mapping, error) {
	var root map[string]interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, &ctfparse.MalformedMappingError{Reason: fmt.Sprintf("not a JSON object: %v", err)}
	}
	m := &Mapping{}
	if err := m.addLevel(root, 0); err != nil {
		return nil, err
	}
	tracer().Debugf("loaded mapping with %d levels", m.Levels)
	return m, nil
}

func (m *Mapping) ensureLevel(level int) {
	for len(m.fineToCoarse) <= level {
		m.fineToCoarse = append(m.fineToCoarse, make(map[string]string))
		m.coarseToFine = append(m.coarseToFine, make(map[string][]string))
	}
	if level > m.Levels {
		m.Levels = level
	}
}

// addLevel recurses through the nested mapping object, recording at
// `level` the projection from every child key (or leaf symbol) down to
// its parent key, then descending into nested objects at level+1.
func (m *Mapping) addLevel(node map[string]interface{}, level int) error {
	m.ensureLevel(level)
	tracer().Debugf("adding level %d with %d coarse keys", level, len(node))
	for coarse, value := range node {
		switch v := value.(type) {
		case []interface{}:
			for _, item := range v {
				fine, ok := item.(string)
				if !ok {
					return &ctfparse.MalformedMappingError{Reason: fmt.Sprintf("leaf partition of %q contains a non-string", coarse)}
				}
				m.fineToCoarse[level][fine] = coarse
				m.coarseToFine[level][coarse] = append(m.coarseToFine[level][coarse], fine)
			}
		case map[string]interface{}:
			for child := range v {
				m.fineToCoarse[level][child] = coarse
				m.coarseToFine[level][coarse] = append(m.coarseToFine[level][coarse], child)
			}
			if err := m.addLevel(v, level+1); err != nil {
				return err
			}
		default:
			return &ctfparse.MalformedMappingError{Reason: fmt.Sprintf("value of %q is neither a list nor an object", coarse)}
		}
	}
	return nil
}

// FineToCoarse returns the coarse name for a fine symbol at the given
// level, and whether any such projection exists. A symbol unmentioned at
// a level projects to itself (§3), so callers typically treat !ok as
// "use fine unchanged" rather than an error.
func (m *Mapping) FineToCoarse(level int, fine string) (string, bool) {
	if level < 0 || level >= len(m.fineToCoarse) {
		return fine, false
	}
	coarse, ok := m.fineToCoarse[level][fine]
	if !ok {
		return fine, false
	}
	return coarse, true
}

// CoarseToFine returns the fine symbols a coarse symbol at the given
// level was partitioned from.
func (m *Mapping) CoarseToFine(level int, coarse string) []string {
	if level < 0 || level >= len(m.coarseToFine) {
		return nil
	}
	return m.coarseToFine[level][coarse]
}

// Project maps a (possibly composite) fine symbol name to its coarse
// counterpart at the given level, per §4.2: the name is split on
// UnaryChainSep into parts, each part split on NarySep into atoms, each
// atom projected independently (identity if unmapped), and the results
// rejoined with the same separators. Returns the original name unchanged
// if no atom projects to anything different.
func (m *Mapping) Project(level int, name string) string {
	parts := strings.Split(name, UnaryChainSep)
	for pi, part := range parts {
		atoms := strings.Split(part, NarySep)
		for ai, atom := range atoms {
			if coarse, ok := m.FineToCoarse(level, atom); ok {
				atoms[ai] = coarse
			}
		}
		parts[pi] = strings.Join(atoms, NarySep)
	}
	projected := strings.Join(parts, UnaryChainSep)
	tracer().Debugf("projected %q -> %q at level %d", name, projected, level)
	return projected
}
