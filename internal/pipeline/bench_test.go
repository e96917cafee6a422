package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
)

// benchDataset builds n synthetic customers spread over 8 channels and
// 10 activation years, roughly the shape of the cleaned PowerCo file.
func benchDataset(n int) model.Dataset {
	recs := make([]model.CustomerRecord, n)
	for i := range recs {
		gas := model.GasNo
		if i%5 == 0 {
			gas = model.GasYes
		}
		recs[i] = customer(
			fmt.Sprintf("c%05d", i),
			gas,
			i%10 == 0,
			1+i%4,
			fmt.Sprintf("chan%d", i%8),
			day(2005+i%10, 1+i%12, 1),
			float64(i%300),
		)
	}
	return model.NewDataset(recs)
}

func BenchmarkFilter(b *testing.B) {
	ds := benchDataset(15_000)
	c := DefaultCriteria(ds)
	c.Gas = []model.GasFlag{model.GasYes}
	c.MaxProducts = 2

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Filter(ds, c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAggregate(b *testing.B) {
	ds := benchDataset(15_000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Summarize(ds)
		_ = AggregateChannels(ds)
		_ = FillCohorts(AggregateCohorts(ds))
	}
}

// BenchmarkReadDataset parses the real dataset when it is present in the
// working tree, and is skipped otherwise.
func BenchmarkReadDataset(b *testing.B) {
	wd, _ := os.Getwd()
	path := source.Locate("", wd)
	if path == "" {
		b.Skip("no data/" + source.DefaultFileName + " found")
	}
	if info, err := os.Stat(path); err == nil {
		b.Logf("Benchmarking %s (%.1f KB)", filepath.Base(path), float64(info.Size())/1024)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := source.ReadDataset(path); err != nil {
			b.Fatal(err)
		}
	}
}
