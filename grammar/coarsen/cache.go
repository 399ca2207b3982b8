package coarsen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cnf/structhash"

	"github.com/npillmayer/ctfparse"
	"github.com/npillmayer/ctfparse/grammar"
	"github.com/npillmayer/ctfparse/grammar/mapping"
)

// CachePath returns the deterministic on-disk path for a coarsened
// grammar at the given level (§6): `<dir>/<digest>_<level>.pcfg`, where
// digest is a short hash of grammarPath so caches for distinct source
// grammars never collide, mirroring the digesting idiom
// lr/earley's hash helper uses for item identity.
func CachePath(dir, grammarPath string, level int) (string, error) {
	digest, err := structhash.Hash(struct {
		Path string
	}{Path: grammarPath}, 1)
	if err != nil {
		return "", fmt.Errorf("digesting cache key: %w", err)
	}
	name := fmt.Sprintf("%s_%d.pcfg", digest, level)
	return filepath.Join(dir, name), nil
}

// LoadCached reads a previously coarsened grammar's records from path. A
// missing or corrupt file is reported uniformly as *ctfparse.CacheUnusableError,
// so callers can recover by recomputing (§5, §7) instead of branching on
// the precise cause.
func LoadCached(path string) ([]grammar.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ctfparse.CacheUnusableError{Path: path, Err: err}
	}
	defer f.Close()
	records, err := grammar.ReadRecords(f)
	if err != nil {
		return nil, &ctfparse.CacheUnusableError{Path: path, Err: err}
	}
	return records, nil
}

// StoreCached writes records to path, creating parent directories as
// needed. A partial write on crash is tolerated: the read path treats any
// resulting malformed file the same as a missing one.
func StoreCached(path string, records []grammar.Record) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer f.Close()
	if err := grammar.WriteRecords(f, records); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// ProjectCached behaves like (*Coarsener).Project but first consults the
// on-disk cache at dir for (grammarPath, level); on a cache hit it parses
// the cached records directly instead of recomputing the projection, and
// on a miss (including a corrupt cache) it recomputes and repopulates the
// cache.
func (c *Coarsener) ProjectCached(g *grammar.Grammar, m *mapping.Mapping, dir, grammarPath string, level int) ([]grammar.Record, error) {
	path, err := CachePath(dir, grammarPath, level)
	if err != nil {
		return nil, err
	}
	if records, err := LoadCached(path); err == nil {
		tracer().Debugf("cache hit for level %d at %s", level, path)
		return records, nil
	}
	tracer().Debugf("cache miss for level %d at %s, recomputing", level, path)
	records, err := c.Project(g, m, level)
	if err != nil {
		return nil, err
	}
	if err := StoreCached(path, records); err != nil {
		tracer().Debugf("failed to write cache at %s: %v", path, err)
	}
	return records, nil
}
