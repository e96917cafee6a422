package tui

import (
	"fmt"

	"github.com/theirongolddev/churnboard/internal/cli"
	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/tui/components"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dataState is the Data tab: a scrollable customer table with a
// selectable sort column.
type dataState struct {
	table   table.Model
	sortIdx int // index into pipeline.SortColumns
	desc    bool
	rows    int
}

var dataColumns = []table.Column{
	{Title: "ID", Width: 10},
	{Title: "Gas", Width: 4},
	{Title: "Prod", Width: 4},
	{Title: "Channel", Width: 12},
	{Title: "Cons 12m", Width: 9},
	{Title: "Margin", Width: 8},
	{Title: "Pow max", Width: 9},
	{Title: "Activated", Width: 10},
	{Title: "Renewal", Width: 10},
	{Title: "Status", Width: 8},
}

func newDataState() dataState {
	t := theme.Active

	tbl := table.New(
		table.WithColumns(dataColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.TextMuted).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(t.TextPrimary)
	styles.Selected = styles.Selected.
		Foreground(t.AccentBright).
		Background(t.Selected).
		Bold(true)
	tbl.SetStyles(styles)

	// Margin descending, as the table opens.
	return dataState{table: tbl, desc: true}
}

func (d *dataState) sortColumn() string {
	return pipeline.SortColumns[d.sortIdx]
}

func (d *dataState) setRecords(recs []model.CustomerRecord) {
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		rows[i] = table.Row{
			shortID(r.ID),
			string(r.HasGas),
			fmt.Sprintf("%d", r.NbProdAct),
			truncStr(r.OriginUp, 12),
			cli.FormatCompact(r.Cons12m),
			cli.FormatMargin(r.MarginNetPowEle),
			cli.FormatPower(r.PowMax),
			cli.FormatDate(r.DateActiv),
			cli.FormatDate(r.DateRenewal),
			string(r.Label()),
		}
	}
	d.rows = len(rows)
	d.table.SetRows(rows)
	d.table.GotoTop()
}

// resize fits the table into a content area of w x h cells.
func (d *dataState) resize(w, h int) {
	// sort hint + card chrome + table header
	th := h - 6
	if th < 3 {
		th = 3
	}
	d.table.SetHeight(th)
	d.table.SetWidth(components.CardInnerWidth(w))
}

// updateDataKeys handles the Data tab's own keys. It reports false for
// keys that should fall through to global handling.
func (a *App) updateDataKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "s":
		a.data.sortIdx = (a.data.sortIdx + 1) % len(pipeline.SortColumns)
		a.resort()
		return true, nil
	case "S":
		a.data.desc = !a.data.desc
		a.resort()
		return true, nil
	case "up", "down", "j", "k", "pgup", "pgdown", "home", "end", "g", "G":
		var cmd tea.Cmd
		a.data.table, cmd = a.data.table.Update(msg)
		return true, cmd
	}
	return false, nil
}

func (a *App) resort() {
	if a.filtered.IsEmpty() {
		return
	}
	a.data.setRecords(pipeline.SortRecords(a.filtered, a.data.sortColumn(), a.data.desc))
}

func (a App) renderDataTab(cw int) string {
	if a.filtered.IsEmpty() {
		return a.renderEmpty(cw)
	}
	t := theme.Active

	dir := "↑ asc"
	if a.data.desc {
		dir = "↓ desc"
	}
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	hint := dim.Render("sorted by ") + accent.Render(a.data.sortColumn()+" "+dir) +
		dim.Render(fmt.Sprintf("  ·  row %d of %d  ·  s: column  S: order", a.data.table.Cursor()+1, a.data.rows))

	title := fmt.Sprintf("Customers (%s)", cli.FormatNumber(int64(a.filtered.Len())))
	return components.ContentCard(title, hint+"\n"+a.data.table.View(), cw)
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	return truncStr(id, 10)
}
