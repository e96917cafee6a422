package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/churnboard/internal/config"
	"github.com/theirongolddev/churnboard/internal/source"
	"github.com/theirongolddev/churnboard/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	dataFile := flagData
	if dataFile == "" {
		dataFile = config.GetDataFile(cfg)
	}
	if dataFile == "" {
		wd, _ := os.Getwd()
		dataFile = source.Locate("", wd)
	}
	themeName := cfg.Appearance.Theme
	exportDir := cfg.Export.Dir

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cleaned dataset").
				Description("CSV or TSV file with one row per customer").
				Value(&dataFile).
				Validate(validateDataFile),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewInput().
				Title("Export directory").
				Description("Where `churnboard export` writes charts and the workbook").
				Value(&exportDir),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if abs, err := filepath.Abs(dataFile); err == nil {
		dataFile = abs
	}
	cfg.General.DataFile = dataFile
	cfg.Appearance.Theme = themeName
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `churnboard setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func validateDataFile(path string) error {
	if path == "" {
		return errors.New("a dataset path is required")
	}
	if _, err := source.Stat(path); err != nil {
		return err
	}
	return nil
}
