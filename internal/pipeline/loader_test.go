package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
	"github.com/theirongolddev/churnboard/internal/store"
)

const csvHeader = "id,has_gas,churn,nb_prod_act,origin_up,cons_12m,margin_net_pow_ele,pow_max,date_activ,date_end,date_modif_prod,date_renewal"

func writeCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	body := csvHeader + "\n" + strings.Join(rows, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
		"r2,f,0,3,B,200,20,14,2016-06-01,2017-06-01,2016-06-01,2016-12-01",
	)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Dataset.Len() != 2 {
		t.Errorf("Len = %d, want 2", res.Dataset.Len())
	}
	if res.Channels != 2 {
		t.Errorf("Channels = %d, want 2", res.Channels)
	}
}

func TestLoadDataset_Memoized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
	)

	first, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}

	// Later edits to the file are not observed within the process.
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
		"r2,f,0,3,B,200,20,14,2016-06-01,2017-06-01,2016-06-01,2016-12-01",
	)
	second, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if first.Len() != 1 || second.Len() != 1 {
		t.Errorf("lens = %d, %d; want 1, 1", first.Len(), second.Len())
	}
}

func TestLoadDataset_Unreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := LoadDataset(path)
	var due *source.DataUnreadableError
	if !errors.As(err, &due) {
		t.Fatalf("error = %v, want *source.DataUnreadableError", err)
	}
}

func TestShared_FailureNotMemoized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flaky.csv")
	calls := 0
	load := func(string) (model.Dataset, error) {
		calls++
		if calls == 1 {
			return model.Dataset{}, errors.New("boom")
		}
		return model.NewDataset([]model.CustomerRecord{{ID: "x", HasGas: model.GasYes}}), nil
	}

	if _, err := Shared(path, load); err == nil {
		t.Fatal("expected first load to fail")
	}
	ds, err := Shared(path, load)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if ds.Len() != 1 || calls != 2 {
		t.Errorf("len=%d calls=%d, want 1 and 2", ds.Len(), calls)
	}
}

func TestShared_ConcurrentFirstAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busy.csv")
	var calls atomic.Int32
	load := func(string) (model.Dataset, error) {
		calls.Add(1)
		return model.NewDataset([]model.CustomerRecord{{ID: "x", HasGas: model.GasNo}}), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Shared(path, load); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("load ran %d times, want 1", n)
	}
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
		"r2,f,0,3,B,200,20,14,2016-06-01,2017-06-01,2016-06-01,2016-12-01",
	)

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.CacheHit {
		t.Error("first load should miss the cache")
	}

	second, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !second.CacheHit {
		t.Error("second load should hit the cache")
	}
	if second.Dataset.Len() != 2 || second.Dataset.At(0).ID != "r1" {
		t.Errorf("cached dataset = %d rows, first %q", second.Dataset.Len(), second.Dataset.At(0).ID)
	}
	if second.Dataset.At(0).Label() != model.LabelChurned {
		t.Error("cached row lost its churn flag")
	}

	// A size change invalidates the snapshot.
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
	)
	third, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("third load: %v", err)
	}
	if third.CacheHit || third.Dataset.Len() != 1 {
		t.Errorf("after edit: hit=%v len=%d, want miss and 1", third.CacheHit, third.Dataset.Len())
	}
}

func TestForgetSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	writeCSV(t, path,
		"r1,t,1,2,A,100,10,12,2015-01-01,2016-01-01,2015-01-01,2015-06-01",
	)

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer func() { _ = cache.Close() }()

	if _, err := LoadWithCache(path, cache); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if n, _ := cache.DatasetCount(); n != 1 {
		t.Fatalf("DatasetCount = %d, want 1", n)
	}

	if err := ForgetSnapshot(path, cache); err != nil {
		t.Fatalf("ForgetSnapshot: %v", err)
	}
	if n, _ := cache.DatasetCount(); n != 0 {
		t.Errorf("DatasetCount after forget = %d, want 0", n)
	}

	again, err := LoadWithCache(path, cache)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.CacheHit {
		t.Error("reload after forget should miss the cache")
	}

	if err := ForgetSnapshot(filepath.Join(dir, "never-loaded.csv"), cache); err != nil {
		t.Errorf("forgetting an unknown path: %v", err)
	}
}
