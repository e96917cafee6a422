package server

import (
	"time"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/model"
)

// HealthResponse is served at /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	UptimeSec int64     `json:"uptime_sec"`
	DataFile  string    `json:"data_file,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// OptionsResponse lists the filter choices the dataset offers.
type OptionsResponse struct {
	Customers   int             `json:"customers"`
	Gas         []model.GasFlag `json:"gas"`
	Channels    []string        `json:"channels"`
	MinProducts int             `json:"min_products"`
	MaxProducts int             `json:"max_products"`
	SortColumns []string        `json:"sort_columns"`
	Charts      []string        `json:"charts"`
}

// CriteriaJSON echoes the criteria a response was computed with.
type CriteriaJSON struct {
	Gas         []model.GasFlag `json:"gas"`
	Channels    []string        `json:"channels"`
	MinProducts int             `json:"min_products"`
	MaxProducts int             `json:"max_products"`
}

func criteriaJSON(c model.Criteria) CriteriaJSON {
	out := CriteriaJSON{
		Gas:         c.Gas,
		Channels:    c.Channels,
		MinProducts: c.MinProducts,
		MaxProducts: c.MaxProducts,
	}
	if out.Gas == nil {
		out.Gas = []model.GasFlag{}
	}
	if out.Channels == nil {
		out.Channels = []string{}
	}
	return out
}

// envelope is embedded in every filtered response.
type envelope struct {
	Criteria CriteriaJSON `json:"criteria"`
	Matched  int          `json:"matched"`
	Empty    bool         `json:"empty"`
	Message  string       `json:"message,omitempty"`
}

// SummaryJSON holds the headline metrics.
type SummaryJSON struct {
	Customers int     `json:"customers"`
	ChurnRate float64 `json:"churn_rate"`
	AvgMargin float64 `json:"avg_margin"`
}

// SummaryResponse is served at /v1/summary. Summary is omitted when the
// selection is empty.
type SummaryResponse struct {
	envelope
	Total   int          `json:"total"`
	Summary *SummaryJSON `json:"summary,omitempty"`
}

// ChannelJSON is one bar of the channel churn chart.
type ChannelJSON struct {
	Channel   string  `json:"channel"`
	ChurnRate float64 `json:"churn_rate"`
	Customers int     `json:"customers"`
}

// ChannelsResponse is served at /v1/channels.
type ChannelsResponse struct {
	envelope
	Channels []ChannelJSON `json:"channels"`
}

// CohortJSON is one (year, label) count.
type CohortJSON struct {
	Year      int    `json:"year"`
	Label     string `json:"label"`
	Customers int    `json:"customers"`
}

// CohortYearJSON is one zero-filled stacked bar.
type CohortYearJSON struct {
	Year    int `json:"year"`
	Churned int `json:"churned"`
	Active  int `json:"active"`
}

// CohortsResponse is served at /v1/cohorts.
type CohortsResponse struct {
	envelope
	Cohorts []CohortJSON     `json:"cohorts"`
	Years   []CohortYearJSON `json:"years"`
}

// CustomerJSON is one data table row.
type CustomerJSON struct {
	ID              string  `json:"id,omitempty"`
	HasGas          string  `json:"has_gas"`
	Churn           string  `json:"churn"`
	NbProdAct       int     `json:"nb_prod_act"`
	OriginUp        string  `json:"origin_up"`
	Cons12m         float64 `json:"cons_12m"`
	MarginNetPowEle float64 `json:"margin_net_pow_ele"`
	PowMax          float64 `json:"pow_max"`
	DateActiv       string  `json:"date_activ"`
	DateEnd         string  `json:"date_end"`
	DateModifProd   string  `json:"date_modif_prod"`
	DateRenewal     string  `json:"date_renewal"`
}

func customerJSON(r model.CustomerRecord) CustomerJSON {
	return CustomerJSON{
		ID:              r.ID,
		HasGas:          string(r.HasGas),
		Churn:           string(r.Label()),
		NbProdAct:       r.NbProdAct,
		OriginUp:        r.OriginUp,
		Cons12m:         r.Cons12m,
		MarginNetPowEle: r.MarginNetPowEle,
		PowMax:          r.PowMax,
		DateActiv:       cli.FormatDate(r.DateActiv),
		DateEnd:         cli.FormatDate(r.DateEnd),
		DateModifProd:   cli.FormatDate(r.DateModifProd),
		DateRenewal:     cli.FormatDate(r.DateRenewal),
	}
}

// CustomersResponse is served at /v1/customers.
type CustomersResponse struct {
	envelope
	Total     int            `json:"total"`
	Sort      string         `json:"sort"`
	Desc      bool           `json:"desc"`
	Customers []CustomerJSON `json:"customers"`
}
