package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/sourcegraph/conc/pool"
	"gopkg.in/yaml.v3"
)

// LoadSnapshot reads a squad file. Files ending in .json are decoded as JSON,
// everything else as YAML. Both use the submission field names: formation,
// players and substitutes.
func LoadSnapshot(path string) (roster.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return roster.Snapshot{}, crerr.Wrapf(err, "read %s", path)
	}
	return DecodeSnapshot(path, data)
}

func DecodeSnapshot(path string, data []byte) (roster.Snapshot, error) {
	var snapshot roster.Snapshot
	if isJSONFile(path) {
		decoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&snapshot); err != nil {
			return roster.Snapshot{}, crerr.Wrapf(err, "decode json %s", path)
		}
		return snapshot, nil
	}

	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return roster.Snapshot{}, crerr.Wrapf(err, "decode yaml %s", path)
	}
	return snapshot, nil
}

// SavePayload writes a finalized squad as YAML, or JSON for .json paths.
func SavePayload(path string, payload roster.Payload) error {
	var (
		data []byte
		err  error
	)
	if isJSONFile(path) {
		data, err = jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(payload, "", "  ")
	} else {
		data, err = yaml.Marshal(payload)
	}
	if err != nil {
		return crerr.Wrap(err, "encode roster")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return crerr.Wrapf(err, "write %s", path)
	}
	return nil
}

func isJSONFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// FileResult is the outcome of validating one squad file.
type FileResult struct {
	Index     int
	Path      string
	State     roster.AssignmentState
	Finalized roster.Finalized
	Err       error
}

// ValidateFile loads a squad file, seeds an engine and finalizes it. State is
// filled whenever the file could be seeded, even if finalization fails.
func ValidateFile(path string) FileResult {
	result := FileResult{Path: path}

	snapshot, err := LoadSnapshot(path)
	if err != nil {
		result.Err = err
		return result
	}
	engine, err := roster.NewEngine(snapshot)
	if err != nil {
		result.Err = crerr.Wrapf(err, "seed %s", path)
		return result
	}
	result.State = engine.State()

	finalized, err := engine.Finalize()
	if err != nil {
		result.Err = err
		return result
	}
	result.Finalized = finalized
	return result
}

// ValidateFiles validates paths concurrently with at most workers goroutines.
// Results come back in argument order.
func ValidateFiles(paths []string, workers int) []FileResult {
	if workers <= 0 {
		workers = 4
	}

	p := pool.NewWithResults[FileResult]().WithMaxGoroutines(workers)
	for i, path := range paths {
		p.Go(func() FileResult {
			result := ValidateFile(path)
			result.Index = i
			return result
		})
	}

	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}
