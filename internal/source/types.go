package source

import "time"

// Column names expected in the cleaned churn dataset.
const (
	ColID              = "id"
	ColHasGas          = "has_gas"
	ColChurn           = "churn"
	ColNbProdAct       = "nb_prod_act"
	ColOriginUp        = "origin_up"
	ColCons12m         = "cons_12m"
	ColMarginNetPowEle = "margin_net_pow_ele"
	ColPowMax          = "pow_max"
	ColDateActiv       = "date_activ"
	ColDateEnd         = "date_end"
	ColDateModifProd   = "date_modif_prod"
	ColDateRenewal     = "date_renewal"
)

// RequiredColumns lists the columns a dataset file must carry.
var RequiredColumns = []string{
	ColHasGas,
	ColChurn,
	ColNbProdAct,
	ColOriginUp,
	ColCons12m,
	ColMarginNetPowEle,
	ColPowMax,
	ColDateActiv,
	ColDateEnd,
	ColDateModifProd,
	ColDateRenewal,
}

// DateColumns are parsed as calendar dates on load.
var DateColumns = []string{ColDateActiv, ColDateEnd, ColDateModifProd, ColDateRenewal}

// dateLayouts are tried in order when parsing a date cell.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// DiscoveredFile describes a dataset file found on disk.
type DiscoveredFile struct {
	Path      string
	MtimeNs   int64
	SizeBytes int64
}
