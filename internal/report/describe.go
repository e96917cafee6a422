package report

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/theirongolddev/churnboard/internal/model"
)

// NumericColumns are the columns summarized by Describe.
var NumericColumns = []string{"cons_12m", "margin_net_pow_ele", "pow_max", "nb_prod_act", "churn"}

// Frame converts the numeric columns of ds into a gota DataFrame.
func Frame(ds model.Dataset) dataframe.DataFrame {
	cons := make([]float64, ds.Len())
	margin := make([]float64, ds.Len())
	pow := make([]float64, ds.Len())
	prods := make([]int, ds.Len())
	churn := make([]int, ds.Len())

	ds.Each(func(i int, r model.CustomerRecord) {
		cons[i] = r.Cons12m
		margin[i] = r.MarginNetPowEle
		pow[i] = r.PowMax
		prods[i] = r.NbProdAct
		churn[i] = int(r.ChurnValue())
	})

	return dataframe.New(
		series.New(cons, series.Float, NumericColumns[0]),
		series.New(margin, series.Float, NumericColumns[1]),
		series.New(pow, series.Float, NumericColumns[2]),
		series.New(prods, series.Int, NumericColumns[3]),
		series.New(churn, series.Int, NumericColumns[4]),
	)
}

// Describe returns gota's descriptive statistics for the numeric columns
// as string records, header first. It returns nil for an empty dataset.
func Describe(ds model.Dataset) [][]string {
	if ds.IsEmpty() {
		return nil
	}
	return Frame(ds).Describe().Records()
}
