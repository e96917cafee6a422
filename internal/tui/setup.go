package tui

import (
	"fmt"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run setup form.
type setupValues struct {
	Theme    string
	Remember bool
}

func newSetupForm(customers int, dataFile string, vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to churnboard").
				Description(fmt.Sprintf("Loaded %d customers from %s.", customers, dataFile)),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Remember this dataset?").
				Description("Saves the path so churnboard opens it by default.").
				Value(&vals.Remember),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		if err := a.saveSetupConfig(); err != nil {
			a.notice = "could not save config: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		a.resetFilters()
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()

	if a.setupVals.Theme != "" {
		cfg.Appearance.Theme = a.setupVals.Theme
		theme.SetActive(cfg.Appearance.Theme)
		a.data = newDataState()
		a.data.resize(a.contentWidth(), a.height-chromeHeight)
		a.recompute()
	}
	if a.setupVals.Remember {
		cfg.General.DataFile = a.opts.DataFile
	}

	return config.Save(cfg)
}
