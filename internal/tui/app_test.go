package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testDataset() model.Dataset {
	rec := func(id string, gas model.GasFlag, churn bool, products int, channel string, year int, margin float64) model.CustomerRecord {
		return model.CustomerRecord{
			ID: id, HasGas: gas, Churn: churn, NbProdAct: products, OriginUp: channel,
			Cons12m: 1000 * margin, MarginNetPowEle: margin, PowMax: 10 + margin,
			DateActiv: day(year, 1, 1), DateRenewal: day(2016, 1, 1),
		}
	}
	return model.NewDataset([]model.CustomerRecord{
		rec("r1", model.GasYes, false, 2, "A", 2010, 10),
		rec("r2", model.GasYes, true, 2, "A", 2010, 20),
		rec("r3", model.GasNo, true, 1, "B", 2011, 30),
		rec("r4", model.GasYes, true, 3, "C", 2011, 40),
	})
}

// loadedApp returns an app that has received a window size and a dataset.
func loadedApp(t *testing.T, opts Options) App {
	t.Helper()
	if opts.DataFile == "" {
		opts.DataFile = "clean_data.csv"
	}
	var m tea.Model = NewApp(opts)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m, _ = m.Update(DataLoadedMsg{Dataset: testDataset(), LoadTime: time.Millisecond})
	a, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	if !a.loaded {
		t.Fatal("app not loaded after DataLoadedMsg")
	}
	return a
}

func press(a App, key string) App {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := len(components.Tabs[i].Name) + 2 // one column of padding each side
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func TestLoadDefaultsToAllCustomers(t *testing.T) {
	a := loadedApp(t, Options{})

	if a.filtered.Len() != 4 {
		t.Fatalf("filtered = %d, want 4", a.filtered.Len())
	}
	if a.summary.ChurnRate != 0.75 {
		t.Errorf("ChurnRate = %v, want 0.75", a.summary.ChurnRate)
	}
	if len(a.channels) != 3 || len(a.cohorts) != 2 || len(a.points) != 4 {
		t.Errorf("channels=%d cohorts=%d points=%d", len(a.channels), len(a.cohorts), len(a.points))
	}
	if a.data.rows != 4 {
		t.Errorf("table rows = %d, want 4", a.data.rows)
	}
}

func TestLoadUsesResolvedCriteria(t *testing.T) {
	a := loadedApp(t, Options{
		Criteria: func(ds model.Dataset) (model.Criteria, error) {
			c := pipeline.DefaultCriteria(ds)
			c.Gas = []model.GasFlag{model.GasYes}
			c.Channels = []string{"A", "C"}
			return c, nil
		},
	})

	if a.filtered.Len() != 3 {
		t.Fatalf("filtered = %d, want 3", a.filtered.Len())
	}
	if got := a.summary.AvgMargin; got < 23.33 || got > 23.34 {
		t.Errorf("AvgMargin = %v, want ~23.33", got)
	}
	if a.channels[0].Channel != "C" || a.channels[0].Rate != 1 {
		t.Errorf("first channel = %+v, want C at 1.0", a.channels[0])
	}
}

func TestLoadFallsBackOnInvalidCriteria(t *testing.T) {
	a := loadedApp(t, Options{
		Criteria: func(ds model.Dataset) (model.Criteria, error) {
			c := pipeline.DefaultCriteria(ds)
			c.Channels = []string{"nowhere"}
			return c, nil
		},
	})

	if a.filtered.Len() != 4 {
		t.Errorf("filtered = %d, want all 4 after fallback", a.filtered.Len())
	}
	if !strings.Contains(a.notice, "nowhere") {
		t.Errorf("notice = %q, want mention of the rejected channel", a.notice)
	}
}

func TestEmptySelectionShowsWarningOnEveryTab(t *testing.T) {
	a := loadedApp(t, Options{})
	c := a.criteria
	c.Channels = nil
	if err := a.applyCriteria(c); err != nil {
		t.Fatal(err)
	}

	if !a.summary.IsEmpty() || a.channels != nil || a.cohorts != nil || a.points != nil {
		t.Fatal("aggregates computed for an empty selection")
	}
	for _, tab := range []int{tabOverview, tabCohorts, tabProfit, tabData} {
		a.activeTab = tab
		if view := a.View(); !strings.Contains(view, cli.EmptyMessage) {
			t.Errorf("tab %d does not show the empty message", tab)
		}
	}
}

func TestApplyCriteriaRejectsInvalid(t *testing.T) {
	a := loadedApp(t, Options{})
	before := a.filtered.Len()

	c := a.criteria
	c.MinProducts, c.MaxProducts = 3, 1
	err := a.applyCriteria(c)

	var ice *pipeline.InvalidCriteriaError
	if !errors.As(err, &ice) {
		t.Fatalf("err = %v, want InvalidCriteriaError", err)
	}
	if a.filtered.Len() != before {
		t.Error("invalid criteria changed the selection")
	}
}

func TestFilterValuesRoundTrip(t *testing.T) {
	c := model.Criteria{
		Gas:         []model.GasFlag{model.GasYes},
		MinProducts: 1,
		MaxProducts: 5,
		Channels:    []string{"A", "C"},
	}
	got, err := valuesFromCriteria(c).criteria()
	if err != nil {
		t.Fatal(err)
	}
	if got.String() != c.String() {
		t.Errorf("criteria = %s, want %s", got, c)
	}

	bad := filterValues{Gas: []string{"Yes"}, Min: "one", Max: "2"}
	if _, err := bad.criteria(); err == nil {
		t.Error("expected error for non-numeric minimum")
	}
}

func TestKeyNavigation(t *testing.T) {
	a := loadedApp(t, Options{})

	a = press(a, "c")
	if a.activeTab != tabCohorts {
		t.Errorf("c -> tab %d", a.activeTab)
	}
	a = press(a, "right")
	if a.activeTab != tabProfit {
		t.Errorf("right -> tab %d", a.activeTab)
	}
	a = press(a, "left")
	a = press(a, "left")
	a = press(a, "left")
	if a.activeTab != tabFilters {
		t.Errorf("left wraps to tab %d, want filters", a.activeTab)
	}
	a = press(a, "esc")
	if a.activeTab != tabOverview {
		t.Errorf("esc from filters -> tab %d", a.activeTab)
	}
}

func TestDataTabSortKeys(t *testing.T) {
	a := loadedApp(t, Options{})
	a = press(a, "d")

	if got := a.data.table.Rows()[0][0]; got != "r4" {
		t.Errorf("first row = %s, want r4 (highest margin)", got)
	}

	a = press(a, "S")
	if a.data.desc {
		t.Fatal("S did not flip the order")
	}
	if got := a.data.table.Rows()[0][0]; got != "r1" {
		t.Errorf("first row ascending = %s, want r1", got)
	}

	a = press(a, "s")
	if a.data.sortColumn() != pipeline.SortColumns[1] {
		t.Errorf("sort column = %s, want %s", a.data.sortColumn(), pipeline.SortColumns[1])
	}
}

func TestResetKey(t *testing.T) {
	a := loadedApp(t, Options{})
	c := a.criteria
	c.Gas = nil
	if err := a.applyCriteria(c); err != nil {
		t.Fatal(err)
	}

	a = press(a, "r")
	if a.filtered.Len() != 4 {
		t.Errorf("after reset filtered = %d, want 4", a.filtered.Len())
	}
}

func TestLoadError(t *testing.T) {
	var m tea.Model = NewApp(Options{DataFile: "missing.csv"})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(DataLoadedMsg{Err: errors.New("open missing.csv: no such file")})

	a := m.(App)
	if a.loaded {
		t.Fatal("app marked loaded after a failed load")
	}
	if view := a.View(); !strings.Contains(view, "Could not load dataset") {
		t.Error("load error not shown")
	}
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q should quit after a load error")
	}
}

func TestScatterPointsOrderChurnedLast(t *testing.T) {
	pts := scatterPoints(pipeline.ProfitPoints(testDataset()))
	if len(pts) != 4 {
		t.Fatalf("points = %d", len(pts))
	}
	if pts[0].Series != seriesActive || pts[3].Series != seriesChurned {
		t.Errorf("series order = %d..%d", pts[0].Series, pts[3].Series)
	}
	if pts[3].Size != 1 {
		t.Errorf("largest pow_max size = %v, want 1", pts[3].Size)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("wrap = %q", got)
	}
}
