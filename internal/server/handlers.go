package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/report"
	"github.com/theirongolddev/churnboard/internal/source"
)

const defaultCustomerLimit = 100

// selection is the filtered dataset for one request.
type selection struct {
	full     model.Dataset
	filtered model.Dataset
	criteria model.Criteria
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		StartedAt: s.startedAt,
		UptimeSec: int64(time.Since(s.startedAt).Seconds()),
		DataFile:  s.cfg.DataFile,
	})
}

func (s *Service) handleOptions(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lo, hi := ds.ProductBounds()
	render.JSON(w, r, OptionsResponse{
		Customers:   ds.Len(),
		Gas:         ds.GasOptions(),
		Channels:    ds.Channels(),
		MinProducts: lo,
		MaxProducts: hi,
		SortColumns: pipeline.SortColumns,
		Charts:      report.ChartNames,
	})
}

func (s *Service) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectCustomers(w, r)
	if !ok {
		return
	}
	resp := SummaryResponse{
		envelope: newEnvelope(sel),
		Total:    sel.full.Len(),
	}
	if !sel.filtered.IsEmpty() {
		sum := pipeline.Summarize(sel.filtered)
		resp.Summary = &SummaryJSON{
			Customers: sum.Count,
			ChurnRate: sum.ChurnRate,
			AvgMargin: sum.AvgMargin,
		}
	}
	render.JSON(w, r, resp)
}

func (s *Service) handleChannels(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectCustomers(w, r)
	if !ok {
		return
	}
	resp := ChannelsResponse{envelope: newEnvelope(sel), Channels: []ChannelJSON{}}
	for _, c := range pipeline.AggregateChannels(sel.filtered) {
		resp.Channels = append(resp.Channels, ChannelJSON{Channel: c.Channel, ChurnRate: c.Rate, Customers: c.Customers})
	}
	render.JSON(w, r, resp)
}

func (s *Service) handleCohorts(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectCustomers(w, r)
	if !ok {
		return
	}
	counts := pipeline.AggregateCohorts(sel.filtered)
	resp := CohortsResponse{envelope: newEnvelope(sel), Cohorts: []CohortJSON{}, Years: []CohortYearJSON{}}
	for _, c := range counts {
		resp.Cohorts = append(resp.Cohorts, CohortJSON{Year: c.Year, Label: string(c.Label), Customers: c.Customers})
	}
	for _, y := range pipeline.FillCohorts(counts) {
		resp.Years = append(resp.Years, CohortYearJSON{Year: y.Year, Churned: y.Churned, Active: y.Active})
	}
	render.JSON(w, r, resp)
}

func (s *Service) handleCustomers(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selectCustomers(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	column := q.Get("sort")
	if column == "" {
		column = pipeline.SortMargin
	}
	desc := q.Get("order") != "asc"
	limit, err := queryInt(q, "limit", defaultCustomerLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	offset, err := queryInt(q, "offset", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	recs := pipeline.SortRecords(sel.filtered, column, desc)
	resp := CustomersResponse{
		envelope:  newEnvelope(sel),
		Total:     len(recs),
		Sort:      column,
		Desc:      desc,
		Customers: []CustomerJSON{},
	}
	if offset > len(recs) {
		offset = len(recs)
	}
	end := len(recs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	for _, rec := range recs[offset:end] {
		resp.Customers = append(resp.Customers, customerJSON(rec))
	}
	render.JSON(w, r, resp)
}

func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chart")
	if !knownChart(name) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "unknown chart " + name})
		return
	}

	sel, ok := s.selectCustomers(w, r)
	if !ok {
		return
	}
	if sel.filtered.IsEmpty() {
		render.JSON(w, r, newEnvelope(sel))
		return
	}

	p, err := report.Chart(name, sel.filtered)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePNG(&buf, p); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// selectCustomers loads the dataset and applies the criteria from the
// query string. It writes the error response itself and reports false
// when the request cannot continue.
func (s *Service) selectCustomers(w http.ResponseWriter, r *http.Request) (selection, bool) {
	ds, err := s.dataset()
	if err != nil {
		s.fail(w, r, err)
		return selection{}, false
	}

	c, err := CriteriaFromQuery(ds, r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return selection{}, false
	}

	filtered, err := pipeline.Filter(ds, c)
	if err != nil {
		s.fail(w, r, err)
		return selection{}, false
	}
	s.metrics.observeSelection(filtered.Len())

	return selection{full: ds, filtered: filtered, criteria: c}, true
}

// CriteriaFromQuery builds filter criteria from query parameters. Omitted
// parameters default to everything in ds. A present but empty gas or
// channel parameter selects nothing.
func CriteriaFromQuery(ds model.Dataset, q url.Values) (model.Criteria, error) {
	c := pipeline.DefaultCriteria(ds)

	if vals, ok := q["gas"]; ok {
		gas, err := pipeline.ParseGasLabels(pipeline.SplitList(vals))
		if err != nil {
			return c, err
		}
		c.Gas = gas
	}
	if vals, ok := q["channel"]; ok {
		c.Channels = pipeline.SplitList(vals)
	}
	if raw := q.Get("min_products"); raw != "" {
		n, err := pipeline.ParseProductBound("min_products", raw)
		if err != nil {
			return c, err
		}
		c.MinProducts = n
	}
	if raw := q.Get("max_products"); raw != "" {
		n, err := pipeline.ParseProductBound("max_products", raw)
		if err != nil {
			return c, err
		}
		c.MaxProducts = n
	}
	return c, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := source.ParseCount(raw)
	if err != nil || n < 0 {
		return 0, &pipeline.InvalidCriteriaError{Field: key, Value: raw, Reason: "want a non-negative integer"}
	}
	return n, nil
}

func knownChart(name string) bool {
	for _, c := range report.ChartNames {
		if c == name {
			return true
		}
	}
	return false
}

// fail maps err to a status code and writes a JSON error body.
func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ice *pipeline.InvalidCriteriaError
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}
	if errors.As(err, &ice) {
		status = http.StatusBadRequest
		resp.Field = ice.Field
	} else {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func newEnvelope(sel selection) envelope {
	e := envelope{Criteria: criteriaJSON(sel.criteria), Matched: sel.filtered.Len()}
	if sel.filtered.IsEmpty() {
		e.Empty = true
		e.Message = cli.EmptyMessage
	}
	return e
}
