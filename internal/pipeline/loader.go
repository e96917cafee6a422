package pipeline

import (
	"path/filepath"
	"sync"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
)

// LoadResult holds the output of the dataset loading pipeline.
type LoadResult struct {
	Dataset  model.Dataset
	Path     string
	Channels int
}

// Load reads and parses the dataset at path. It does not consult any cache.
func Load(path string) (*LoadResult, error) {
	records, err := source.ReadDataset(path)
	if err != nil {
		return nil, err
	}
	ds := model.NewDataset(records)
	return &LoadResult{
		Dataset:  ds,
		Path:     path,
		Channels: len(ds.Channels()),
	}, nil
}

// Loader produces a dataset for a path.
type Loader func(path string) (model.Dataset, error)

type sharedEntry struct {
	once sync.Once
	ds   model.Dataset
	err  error
}

// shared is the process-wide dataset memo. Entries are created on first
// access, never modified after a successful load and live until exit.
var shared = struct {
	mu      sync.Mutex
	entries map[string]*sharedEntry
}{entries: make(map[string]*sharedEntry)}

// Shared returns the process-wide dataset for path, running load exactly
// once per absolute path. Concurrent first callers wait for the same load.
// A failed load is not remembered, so a later call tries again.
func Shared(path string, load Loader) (model.Dataset, error) {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}

	shared.mu.Lock()
	e, ok := shared.entries[key]
	if !ok {
		e = &sharedEntry{}
		shared.entries[key] = e
	}
	shared.mu.Unlock()

	e.once.Do(func() {
		e.ds, e.err = load(path)
	})

	if e.err != nil {
		shared.mu.Lock()
		if shared.entries[key] == e {
			delete(shared.entries, key)
		}
		shared.mu.Unlock()
		return model.Dataset{}, e.err
	}
	return e.ds, nil
}

// LoadDataset returns the dataset at path, parsing the file only on the
// first call in this process. Errors are *source.DataUnreadableError.
func LoadDataset(path string) (model.Dataset, error) {
	return Shared(path, func(p string) (model.Dataset, error) {
		res, err := Load(p)
		if err != nil {
			return model.Dataset{}, err
		}
		return res.Dataset, nil
	})
}
