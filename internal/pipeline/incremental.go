package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
	"github.com/theirongolddev/churnboard/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHit bool
}

// LoadWithCache returns the dataset at path, reusing the SQLite snapshot
// when the file's mtime and size match what was cached. On a miss the file
// is parsed and the snapshot replaced.
func LoadWithCache(path string, cache *store.Cache) (*CachedLoadResult, error) {
	df, err := source.Stat(path)
	if err != nil {
		return nil, err
	}

	tracked, ok, err := cache.GetTrackedFile(df.Path)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if ok && tracked.MtimeNs == df.MtimeNs && tracked.SizeBytes == df.SizeBytes {
		records, err := cache.LoadCustomers(df.Path)
		if err != nil {
			return nil, fmt.Errorf("loading cached customers: %w", err)
		}
		ds := model.NewDataset(records)
		return &CachedLoadResult{
			LoadResult: LoadResult{
				Dataset:  ds,
				Path:     path,
				Channels: len(ds.Channels()),
			},
			CacheHit: true,
		}, nil
	}

	res, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed save only costs a reparse next run.
	_ = cache.SaveDataset(df.Path, df.MtimeNs, df.SizeBytes, res.Dataset.Records())

	return &CachedLoadResult{LoadResult: *res}, nil
}

// LoadDatasetCached is LoadDataset backed by the SQLite snapshot. The
// process-wide memo still applies, so the cache is consulted at most once
// per path.
func LoadDatasetCached(path string, cache *store.Cache) (model.Dataset, bool, error) {
	hit := false
	ds, err := Shared(path, func(p string) (model.Dataset, error) {
		cr, err := LoadWithCache(p, cache)
		if err != nil {
			return model.Dataset{}, err
		}
		hit = cr.CacheHit
		return cr.Dataset, nil
	})
	return ds, hit, err
}

// ForgetSnapshot drops the cached snapshot of the dataset at path, so the
// next load reparses the file. A path with no snapshot is not an error.
func ForgetSnapshot(path string, cache *store.Cache) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := cache.DeleteDataset(abs); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "churnboard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "churnboard")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "datasets.db")
}
