package em

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// artifact is the on-disk form of one injection's light curve, plus the hash
// of the configuration that generated it. A hash mismatch (changed time
// grid, model, filters, ...) invalidates the artifact instead of silently
// returning series from a stale run.
type artifact struct {
	ConfigHash string     `json:"config_hash"`
	Filters    LightCurve `json:"filters"`
}

// InjectionCache persists one artifact per injection index under Dir,
// named "<index>.dat". Each index's file is independent and written
// atomically (temp file + rename), so a batch may be split across worker
// processes over disjoint index sets with no locking.
type InjectionCache struct {
	Dir        string
	ConfigHash string
}

// NewInjectionCache creates a cache rooted at dir for a run whose generating
// configuration hashes to configHash.
func NewInjectionCache(dir, configHash string) *InjectionCache {
	return &InjectionCache{Dir: dir, ConfigHash: configHash}
}

// HashConfig fingerprints a generating configuration as hex-encoded
// SHA-256 of its canonical JSON encoding.
func HashConfig(cfg any) (string, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("hashing config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ArtifactPath returns the artifact filename for an injection index.
func (c *InjectionCache) ArtifactPath(index int) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%d.dat", index))
}

// GetOrCompute returns the cached light curve for index if a valid artifact
// exists, otherwise invokes synthesize exactly once, persists the result,
// and returns it. Unparsable artifacts and config-hash mismatches are cache
// misses: they are recomputed and overwritten, never propagated as errors.
func (c *InjectionCache) GetOrCompute(index int, synthesize func() (LightCurve, error)) (LightCurve, error) {
	if curve, ok := c.load(index); ok {
		logrus.Debugf("injection %d: cache hit", index)
		return curve, nil
	}

	curve, err := synthesize()
	if err != nil {
		return nil, err
	}
	if err := c.store(index, curve); err != nil {
		return nil, err
	}
	logrus.Debugf("injection %d: generated", index)
	return curve, nil
}

// LoadCachedResults reads every artifact under dir into a ResultCollection,
// keyed by the decimal index in the filename. Unparsable artifacts are
// skipped with a warning. Used by the aggregate command, which summarizes a
// finished run without regenerating anything.
func LoadCachedResults(dir string) (ResultCollection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cacheIOError("reading cache directory", err)
	}
	results := make(ResultCollection)
	for _, entry := range entries {
		name := entry.Name()
		var index int
		if n, err := fmt.Sscanf(name, "%d.dat", &index); n != 1 || err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, cacheIOError("reading artifact "+name, err)
		}
		var art artifact
		if err := json.Unmarshal(data, &art); err != nil || len(art.Filters) == 0 {
			logrus.Warnf("skipping unparsable artifact %s", name)
			continue
		}
		results[index] = art.Filters
	}
	return results, nil
}

func (c *InjectionCache) load(index int) (LightCurve, bool) {
	path := c.ArtifactPath(index)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil || len(art.Filters) == 0 {
		logrus.Warnf("injection %d: unparsable artifact %s, recomputing", index, path)
		return nil, false
	}
	if art.ConfigHash != c.ConfigHash {
		logrus.Warnf("injection %d: artifact %s was generated under a different configuration, recomputing", index, path)
		return nil, false
	}
	return art.Filters, true
}

// store persists the artifact with write-then-rename so a crash mid-write
// never leaves a partial file under the artifact name.
func (c *InjectionCache) store(index int, curve LightCurve) error {
	data, err := json.Marshal(artifact{ConfigHash: c.ConfigHash, Filters: curve})
	if err != nil {
		return cacheIOError("encoding artifact", err)
	}

	tmp, err := os.CreateTemp(c.Dir, fmt.Sprintf(".%d-*.dat.tmp", index))
	if err != nil {
		return cacheIOError("creating temp artifact", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return cacheIOError("writing artifact", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return cacheIOError("closing artifact", err)
	}
	if err := os.Rename(tmpName, c.ArtifactPath(index)); err != nil {
		os.Remove(tmpName)
		return cacheIOError("publishing artifact", err)
	}
	return nil
}
