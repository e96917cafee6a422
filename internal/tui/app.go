// Package tui provides the interactive Bubble Tea dashboard for churnboard.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/store"
	"github.com/theirongolddev/churnboard/internal/tui/components"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the dataset finishes loading.
type DataLoadedMsg struct {
	Dataset   model.Dataset
	FromCache bool
	LoadTime  time.Duration
	Err       error
}

// LoadStageMsg reports which loading step is running.
type LoadStageMsg struct {
	Stage string
}

// Options configures a dashboard session.
type Options struct {
	DataFile string
	NoCache  bool
	FirstRun bool // show the setup form once the data is loaded

	// Criteria resolves the starting filters once the dataset is known.
	// nil selects every customer.
	Criteria func(ds model.Dataset) (model.Criteria, error)
}

// Tab indices, matching components.Tabs.
const (
	tabOverview = iota
	tabCohorts
	tabProfit
	tabData
	tabFilters
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	full      model.Dataset
	loaded    bool
	loadErr   error
	loadTime  time.Duration
	fromCache bool
	stage     string

	// Pre-computed for current criteria
	criteria model.Criteria
	filtered model.Dataset
	baseline model.Summary // whole dataset, for deltas
	summary  model.Summary
	channels []model.ChannelChurn
	cohorts  []model.CohortRow
	points   []model.ProfitPoint

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	notice    string

	// Per-tab state
	data    dataState
	filters filterState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	// Loading: channel-based stage subscription
	spinner spinner.Model
	loadSub chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	chromeHeight     = 3 // tab bar + filter pill + status bar
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		needSetup: opts.FirstRun,
		data:      newDataState(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.DataFile, a.opts.NoCache, a.loadSub),
		a.spinner.Tick,
	)
}

// setDataset installs a freshly loaded dataset and the starting filters.
func (a *App) setDataset(ds model.Dataset) {
	a.full = ds
	a.baseline = pipeline.Summarize(ds)

	c := pipeline.DefaultCriteria(ds)
	if a.opts.Criteria != nil {
		resolved, err := a.opts.Criteria(ds)
		if err != nil {
			a.notice = err.Error()
		} else {
			c = resolved
		}
	}
	if err := a.applyCriteria(c); err != nil {
		a.notice = err.Error()
		_ = a.applyCriteria(pipeline.DefaultCriteria(ds))
	}
}

// applyCriteria filters the full dataset with c. Invalid criteria leave the
// current selection untouched.
func (a *App) applyCriteria(c model.Criteria) error {
	filtered, err := pipeline.Filter(a.full, c)
	if err != nil {
		return err
	}
	a.criteria = c
	a.filtered = filtered
	a.recompute()
	return nil
}

func (a *App) recompute() {
	a.summary = pipeline.Summarize(a.filtered)

	if a.filtered.IsEmpty() {
		a.channels = nil
		a.cohorts = nil
		a.points = nil
		a.data.setRecords(nil)
		return
	}

	a.channels = pipeline.AggregateChannels(a.filtered)
	a.cohorts = pipeline.FillCohorts(pipeline.AggregateCohorts(a.filtered))
	a.points = pipeline.ProfitPoints(a.filtered)
	a.data.setRecords(pipeline.SortRecords(a.filtered, a.data.sortColumn(), a.data.desc))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.data.resize(a.contentWidth(), a.height-chromeHeight)
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.filters.form != nil {
			a.filters.form = a.filters.form.WithWidth(components.CardInnerWidth(a.contentWidth()))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabData {
				a.data.table.MoveUp(1)
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			if a.activeTab == tabData {
				a.data.table.MoveDown(1)
			}
			return a, nil

		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			if key == "q" && a.loadErr != nil {
				return a, tea.Quit
			}
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// The filter form owns the keyboard while it is shown
		if a.activeTab == tabFilters && a.filters.form != nil {
			if key == "esc" {
				a.resetFilters()
				a.activeTab = tabOverview
				return a, nil
			}
			return a.updateFilterForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if a.activeTab == tabData {
			if handled, cmd := a.updateDataKeys(msg); handled {
				return a, cmd
			}
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "r":
			a.notice = ""
			_ = a.applyCriteria(pipeline.DefaultCriteria(a.full))
			a.resetFilters()
			return a, nil
		case "left":
			return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		case "right", "tab":
			return a.switchTab((a.activeTab + 1) % len(components.Tabs))
		}

		if len(msg.Runes) == 1 {
			if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
				return a.switchTab(tab)
			}
		}
		return a, nil

	case LoadStageMsg:
		a.stage = msg.Stage
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.loaded = true
		a.fromCache = msg.FromCache
		a.setDataset(msg.Dataset)
		a.resetFilters()

		if a.needSetup {
			a.setupVals = &setupValues{Theme: theme.Active.Name, Remember: true}
			a.setupForm = newSetupForm(a.full.Len(), a.opts.DataFile, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded && a.loadErr == nil {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to an active form
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabFilters && a.filters.form != nil {
		return a.updateFilterForm(msg)
	}

	return a, nil
}

func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	if tab == tabFilters {
		if a.filters.form == nil {
			a.resetFilters()
		}
		return a, a.filters.form.Init()
	}
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  churnboard needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	border := t.Focus
	if a.loadErr != nil {
		border = t.Error
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	errStyle := lipgloss.NewStyle().
		Foreground(t.Error).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ churnboard"))
	b.WriteString(subtitleStyle.Render(" · PowerCo customer churn"))
	b.WriteString("\n\n")

	if a.loadErr != nil {
		b.WriteString(errStyle.Render("Could not load dataset"))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render(wrap(a.loadErr.Error(), 60)))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("Press q to quit"))
	} else {
		stage := a.stage
		if stage == "" {
			stage = "Loading " + filepath.Base(a.opts.DataFile)
		}
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" " + stage + "..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c p d f", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move in the data table"},
			{"g G", "First / last row"},
		}},
		{"Data table", []struct{ key, desc string }{
			{"s", "Cycle sort column"},
			{"S", "Flip sort order"},
		}},
		{"Filters", []struct{ key, desc string }{
			{"Enter", "Next field / apply"},
			{"Space x", "Toggle option"},
			{"Esc", "Discard changes"},
			{"r", "Reset to all customers"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + filter pill
	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterPill(w)

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		File:      filepath.Base(a.opts.DataFile),
		Matched:   a.filtered.Len(),
		Total:     a.full.Len(),
		LoadTime:  fmt.Sprintf("%.1fs", a.loadTime.Seconds()),
		FromCache: a.fromCache,
		Notice:    a.notice,
	})

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabCohorts:
		content = a.renderCohortsTab(cw)
	case tabProfit:
		content = a.renderProfitTab(cw, contentH)
	case tabData:
		content = a.renderDataTab(cw)
	case tabFilters:
		content = a.renderFiltersTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderFilterPill(w int) string {
	t := theme.Active

	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sep := dim.Render(" │ ")

	gas := make([]string, len(a.criteria.Gas))
	for i, g := range a.criteria.Gas {
		gas[i] = string(g)
	}
	gasStr := strings.Join(gas, ",")
	if gasStr == "" {
		gasStr = "none"
	}

	pill := dim.Render(" gas ") + accent.Render(gasStr) + sep +
		dim.Render("products ") + accent.Render(fmt.Sprintf("%d..%d", a.criteria.MinProducts, a.criteria.MaxProducts)) + sep +
		dim.Render("channels ") + accent.Render(fmt.Sprintf("%d/%d", len(a.criteria.Channels), len(a.full.Channels()))) +
		dim.Render(" ")

	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)
}

// renderEmpty is shown by every tab when the filters match nothing.
func (a App) renderEmpty(cw int) string {
	t := theme.Active
	hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background).
		Render("  Press f to change filters or r to reset them.")
	return components.WarningCard(cli.EmptyMessage, cw) + "\n" + hint
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd starts loading the dataset in a background goroutine.
// It streams LoadStageMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, noCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking: a skipped stage update is harmless.
			stage := func(s string) {
				select {
				case sub <- LoadStageMsg{Stage: s}:
				default:
				}
			}

			if !noCache {
				stage("Checking snapshot")
				cache, err := store.Open(pipeline.CachePath())
				if err == nil {
					ds, hit, loadErr := pipeline.LoadDatasetCached(path, cache)
					_ = cache.Close()
					sub <- DataLoadedMsg{
						Dataset:   ds,
						FromCache: hit,
						LoadTime:  time.Since(start),
						Err:       loadErr,
					}
					return
				}
			}

			stage("Parsing " + filepath.Base(path))
			ds, err := pipeline.LoadDataset(path)
			sub <- DataLoadedMsg{
				Dataset:  ds,
				LoadTime: time.Since(start),
				Err:      err,
			}
		}()

		// Block until the first message (either LoadStageMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// wrap breaks s on spaces so no line exceeds width.
func wrap(s string, width int) string {
	words := strings.Fields(s)
	var b strings.Builder
	line := 0
	for _, word := range words {
		if line > 0 && line+1+len(word) > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
