package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/churnboard/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSaveAndLoadCustomers(t *testing.T) {
	c := openTestCache(t)
	day := func(y, m, d int) time.Time { return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC) }

	recs := []model.CustomerRecord{
		{ID: "b", HasGas: model.GasNo, Churn: false, NbProdAct: 3, OriginUp: "B", Cons12m: 10, MarginNetPowEle: -1.5, PowMax: 12,
			DateActiv: day(2016, 6, 1), DateEnd: day(2017, 6, 1), DateModifProd: day(2016, 6, 1), DateRenewal: day(2016, 12, 1)},
		{ID: "a", HasGas: model.GasYes, Churn: true, NbProdAct: 2, OriginUp: "A", Cons12m: 5400, MarginNetPowEle: 25.4, PowMax: 13.8,
			DateActiv: day(2015, 1, 1), DateEnd: day(2016, 1, 1), DateModifProd: day(2015, 1, 1), DateRenewal: day(2015, 6, 1)},
	}

	if err := c.SaveDataset("/data/x.csv", 42, 1024, recs); err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	fi, ok, err := c.GetTrackedFile("/data/x.csv")
	if err != nil || !ok {
		t.Fatalf("GetTrackedFile ok=%v err=%v", ok, err)
	}
	if fi.MtimeNs != 42 || fi.SizeBytes != 1024 || fi.RowCount != 2 {
		t.Errorf("FileInfo = %+v", fi)
	}

	got, err := c.LoadCustomers("/data/x.csv")
	if err != nil {
		t.Fatalf("LoadCustomers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order = %s,%s, want b,a", got[0].ID, got[1].ID)
	}
	r := got[1]
	if r.HasGas != model.GasYes || !r.Churn || r.NbProdAct != 2 || r.OriginUp != "A" {
		t.Errorf("row 2 = %+v", r)
	}
	if r.MarginNetPowEle != 25.4 || r.Cons12m != 5400 || r.PowMax != 13.8 {
		t.Errorf("row 2 numerics = %v %v %v", r.MarginNetPowEle, r.Cons12m, r.PowMax)
	}
	if !r.DateActiv.Equal(recs[1].DateActiv) || !r.DateRenewal.Equal(recs[1].DateRenewal) {
		t.Errorf("row 2 dates = %v %v", r.DateActiv, r.DateRenewal)
	}
}

func TestSaveDatasetReplaces(t *testing.T) {
	c := openTestCache(t)
	one := []model.CustomerRecord{{HasGas: model.GasYes, OriginUp: "A"}}
	if err := c.SaveDataset("/f.csv", 1, 1, append(one, one...)); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("/f.csv", 2, 2, one); err != nil {
		t.Fatal(err)
	}
	got, err := c.LoadCustomers("/f.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 after replace", len(got))
	}
	n, err := c.DatasetCount()
	if err != nil || n != 1 {
		t.Errorf("DatasetCount = %d, %v; want 1", n, err)
	}
}

func TestGetTrackedFileMissing(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.GetTrackedFile("/nowhere.csv")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected untracked file")
	}
}

func TestDeleteDataset(t *testing.T) {
	c := openTestCache(t)
	one := []model.CustomerRecord{{HasGas: model.GasYes, OriginUp: "A"}}
	if err := c.SaveDataset("/a.csv", 1, 1, one); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveDataset("/b.csv", 1, 1, one); err != nil {
		t.Fatal(err)
	}

	if err := c.DeleteDataset("/a.csv"); err != nil {
		t.Fatalf("DeleteDataset: %v", err)
	}
	if _, ok, _ := c.GetTrackedFile("/a.csv"); ok {
		t.Error("/a.csv still tracked after delete")
	}
	got, err := c.LoadCustomers("/a.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("customers left behind: %d", len(got))
	}
	if n, err := c.DatasetCount(); err != nil || n != 1 {
		t.Errorf("DatasetCount = %d, %v; want 1", n, err)
	}
}
