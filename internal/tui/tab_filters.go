package tui

import (
	"slices"
	"strconv"

	"github.com/theirongolddev/churnboard/internal/model"
	"github.com/theirongolddev/churnboard/internal/pipeline"
	"github.com/theirongolddev/churnboard/internal/tui/components"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// filterValues backs the filter form fields.
type filterValues struct {
	Gas      []string
	Channels []string
	Min      string
	Max      string
}

// filterState is the Filters tab. vals is a pointer because huh binds
// field values by address and App is copied on every update.
type filterState struct {
	form *huh.Form
	vals *filterValues
}

func valuesFromCriteria(c model.Criteria) *filterValues {
	gas := make([]string, len(c.Gas))
	for i, g := range c.Gas {
		gas[i] = string(g)
	}
	return &filterValues{
		Gas:      gas,
		Channels: slices.Clone(c.Channels),
		Min:      strconv.Itoa(c.MinProducts),
		Max:      strconv.Itoa(c.MaxProducts),
	}
}

// criteria converts the submitted form values back into filter criteria.
func (v filterValues) criteria() (model.Criteria, error) {
	gas, err := pipeline.ParseGasLabels(v.Gas)
	if err != nil {
		return model.Criteria{}, err
	}
	lo, err := pipeline.ParseProductBound("min_products", v.Min)
	if err != nil {
		return model.Criteria{}, err
	}
	hi, err := pipeline.ParseProductBound("max_products", v.Max)
	if err != nil {
		return model.Criteria{}, err
	}
	return model.Criteria{
		Gas:         gas,
		MinProducts: lo,
		MaxProducts: hi,
		Channels:    slices.Clone(v.Channels),
	}, nil
}

// resetFilters rebuilds the filter form around the criteria currently
// applied, discarding unsubmitted edits.
func (a *App) resetFilters() {
	a.filters.vals = valuesFromCriteria(a.criteria)
	a.filters.form = newFilterForm(a.full, a.filters.vals)
	if a.width > 0 {
		a.filters.form = a.filters.form.WithWidth(components.CardInnerWidth(a.contentWidth()))
	}
}

func newFilterForm(ds model.Dataset, vals *filterValues) *huh.Form {
	gasOpts := make([]huh.Option[string], 0, 2)
	for _, g := range ds.GasOptions() {
		gasOpts = append(gasOpts, huh.NewOption(string(g), string(g)).
			Selected(slices.Contains(vals.Gas, string(g))))
	}

	channelOpts := make([]huh.Option[string], 0, len(ds.Channels()))
	for _, ch := range ds.Channels() {
		channelOpts = append(channelOpts, huh.NewOption(ch, ch).
			Selected(slices.Contains(vals.Channels, ch)))
	}

	lo, hi := ds.ProductBounds()
	productHint := "between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
	validBound := func(field string) func(string) error {
		return func(s string) error {
			_, err := pipeline.ParseProductBound(field, s)
			return err
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Gas subscription").
				Description("Customers with or without a gas contract").
				Options(gasOpts...).
				Value(&vals.Gas),
			huh.NewMultiSelect[string]().
				Title("Acquisition channels").
				Description("Leave all unselected to see the empty selection").
				Options(channelOpts...).
				Height(10).
				Value(&vals.Channels),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Minimum active products").
				Description(productHint).
				Value(&vals.Min).
				Validate(validBound("min_products")),
			huh.NewInput().
				Title("Maximum active products").
				Description(productHint).
				Value(&vals.Max).
				Validate(validBound("max_products")),
		),
	).WithTheme(formTheme()).WithShowHelp(true)
}

// formTheme picks the huh theme closest to the active dashboard theme.
func formTheme() *huh.Theme {
	switch theme.Active.Name {
	case "catppuccin-mocha":
		return huh.ThemeCatppuccin()
	case "terminal":
		return huh.ThemeBase16()
	default:
		return huh.ThemeCharm()
	}
}

func (a App) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.filters.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.filters.form = f
	}

	switch a.filters.form.State {
	case huh.StateCompleted:
		c, err := a.filters.vals.criteria()
		if err == nil {
			err = a.applyCriteria(c)
		}
		a.resetFilters()
		if err != nil {
			a.notice = err.Error()
			return a, a.filters.form.Init()
		}
		a.notice = ""
		a.activeTab = tabOverview
		return a, nil

	case huh.StateAborted:
		a.resetFilters()
		a.activeTab = tabOverview
		return a, nil
	}

	return a, cmd
}

func (a App) renderFiltersTab(cw int) string {
	t := theme.Active
	if a.filters.form == nil {
		return ""
	}

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render("Enter: next / apply  ·  Space: toggle  ·  Esc: discard")
	return components.ContentCard("Filters", hint+"\n\n"+a.filters.form.View(), cw)
}
