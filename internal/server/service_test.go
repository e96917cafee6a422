package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/source"
)

func day(y, m int) time.Time { return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC) }

func testDataset() model.Dataset {
	return model.NewDataset([]model.CustomerRecord{
		{ID: "r1", HasGas: model.GasYes, Churn: true, NbProdAct: 2, OriginUp: "A", Cons12m: 100, MarginNetPowEle: 10, PowMax: 12, DateActiv: day(2015, 1)},
		{ID: "r2", HasGas: model.GasNo, Churn: false, NbProdAct: 3, OriginUp: "B", Cons12m: 200, MarginNetPowEle: 20, PowMax: 14, DateActiv: day(2016, 6)},
		{ID: "r3", HasGas: model.GasYes, Churn: false, NbProdAct: 1, OriginUp: "A", Cons12m: 300, MarginNetPowEle: 30, PowMax: 11, DateActiv: day(2015, 3)},
		{ID: "r4", HasGas: model.GasYes, Churn: true, NbProdAct: 5, OriginUp: "C", Cons12m: 400, MarginNetPowEle: 50, PowMax: 40, DateActiv: day(2017, 1)},
	})
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	ds := testDataset()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{DataFile: "test.csv", Logger: logger}, func() (model.Dataset, error) { return ds, nil })
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

const scenarioQuery = "?gas=Yes&min_products=1&max_products=5&channel=A&channel=C"

func TestHealth(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	decode(t, w, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test.csv", resp.DataFile)
}

func TestOptions(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/options")
	require.Equal(t, http.StatusOK, w.Code)

	var resp OptionsResponse
	decode(t, w, &resp)
	assert.Equal(t, 4, resp.Customers)
	assert.Equal(t, []string{"A", "B", "C"}, resp.Channels)
	assert.Equal(t, []model.GasFlag{model.GasNo, model.GasYes}, resp.Gas)
	assert.Equal(t, 1, resp.MinProducts)
	assert.Equal(t, 5, resp.MaxProducts)
}

func TestSummaryScenario(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/summary"+scenarioQuery)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var resp SummaryResponse
	decode(t, w, &resp)
	assert.False(t, resp.Empty)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 3, resp.Matched)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 3, resp.Summary.Customers)
	assert.InDelta(t, 2.0/3.0, resp.Summary.ChurnRate, 1e-9)
	assert.InDelta(t, 30.0, resp.Summary.AvgMargin, 1e-9)
}

func TestSummaryDefaultsToEverything(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	decode(t, w, &resp)
	assert.Equal(t, 4, resp.Matched)
	assert.Equal(t, []string{"A", "B", "C"}, resp.Criteria.Channels)
}

func TestChannelsScenario(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/channels"+scenarioQuery)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChannelsResponse
	decode(t, w, &resp)
	require.Len(t, resp.Channels, 2)
	assert.Equal(t, "C", resp.Channels[0].Channel)
	assert.InDelta(t, 1.0, resp.Channels[0].ChurnRate, 1e-9)
	assert.Equal(t, "A", resp.Channels[1].Channel)
	assert.InDelta(t, 0.5, resp.Channels[1].ChurnRate, 1e-9)
}

func TestCohortsScenario(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/cohorts"+scenarioQuery)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CohortsResponse
	decode(t, w, &resp)
	assert.Equal(t, []CohortJSON{
		{Year: 2015, Label: "Churned", Customers: 1},
		{Year: 2015, Label: "Active", Customers: 1},
		{Year: 2017, Label: "Churned", Customers: 1},
	}, resp.Cohorts)
	assert.Equal(t, []CohortYearJSON{
		{Year: 2015, Churned: 1, Active: 1},
		{Year: 2017, Churned: 1, Active: 0},
	}, resp.Years)
}

func TestCustomersSortAndPage(t *testing.T) {
	h := newTestService(t).Handler()

	w := get(t, h, "/v1/customers?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var resp CustomersResponse
	decode(t, w, &resp)
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.Customers, 2)
	assert.Equal(t, "r4", resp.Customers[0].ID)
	assert.Equal(t, "Churned", resp.Customers[0].Churn)

	w = get(t, h, "/v1/customers?sort=cons&order=asc&offset=3")
	require.Equal(t, http.StatusOK, w.Code)
	resp = CustomersResponse{}
	decode(t, w, &resp)
	require.Len(t, resp.Customers, 1)
	assert.Equal(t, "r4", resp.Customers[0].ID)

	w = get(t, h, "/v1/customers?limit=010&offset=03")
	require.Equal(t, http.StatusOK, w.Code)
	resp = CustomersResponse{}
	decode(t, w, &resp)
	assert.Len(t, resp.Customers, 1)

	w = get(t, h, "/v1/customers?limit=0x2")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmptySelection(t *testing.T) {
	h := newTestService(t).Handler()
	for _, path := range []string{"/v1/summary", "/v1/channels", "/v1/cohorts", "/v1/customers", "/v1/charts/cohorts.png"} {
		t.Run(path, func(t *testing.T) {
			w := get(t, h, path+"?channel=")
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]any
			decode(t, w, &body)
			assert.Equal(t, true, body["empty"])
			assert.Equal(t, "No customers match the current filter selection.", body["message"])
			assert.NotContains(t, body, "summary")
		})
	}
}

func TestInvalidCriteria(t *testing.T) {
	h := newTestService(t).Handler()
	tests := []struct {
		query string
		field string
	}{
		{"min_products=4&max_products=2", "products"},
		{"gas=Maybe", "gas"},
		{"channel=Z", "channel"},
		{"min_products=many", "min_products"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := get(t, h, "/v1/summary?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.field, resp.Field)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestChartPNG(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/charts/channels.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestChartUnknown(t *testing.T) {
	w := get(t, newTestService(t).Handler(), "/v1/charts/pie.png")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(Config{Logger: logger}, func() (model.Dataset, error) {
		return model.Dataset{}, &source.DataUnreadableError{Path: "x.csv", Err: errors.New("gone")}
	})
	w := get(t, s.Handler(), "/v1/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	decode(t, w, &resp)
	assert.Contains(t, resp.Error, "x.csv")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestService(t).Handler()
	get(t, h, "/v1/summary?channel=")

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "churnboard_http_requests_total")
	assert.Contains(t, body, "churnboard_empty_selections_total 1")
}

func TestCriteriaFromQuery(t *testing.T) {
	ds := testDataset()

	c, err := CriteriaFromQuery(ds, url.Values{"gas": {"yes,no"}, "channel": {"A,B"}, "max_products": {"3"}})
	require.NoError(t, err)
	assert.Equal(t, []model.GasFlag{model.GasYes, model.GasNo}, c.Gas)
	assert.Equal(t, []string{"A", "B"}, c.Channels)
	assert.Equal(t, 1, c.MinProducts)
	assert.Equal(t, 3, c.MaxProducts)

	c, err = CriteriaFromQuery(ds, url.Values{"gas": {""}})
	require.NoError(t, err)
	assert.Empty(t, c.Gas)
}
