package main

import (
	"errors"
	"fmt"
	"os"

	"Wellbore/internal/calc/report"
	"Wellbore/internal/config"
	"Wellbore/internal/format"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	project     string
	casingTable string
	drillTable  string
	envFile     string
	format      string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "wellcalc",
		Short:         "Casing, bit-size and drill-string sizing",
		Long:          "wellcalc selects casing and bit sizes for a three-section well,\nevaluates the critical depth of the production string and sizes the drill string.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.ParseLevel(flags.logLevel), "text", cmd.ErrOrStderr())
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&flags.project, "project", "p", "", "YAML project file (required)")
	f.StringVar(&flags.casingTable, "casing-table", "", "Casing workbook (default $CASING_TABLE)")
	f.StringVar(&flags.drillTable, "drill-table", "", "Drill-collar workbook (default $DRILL_TABLE)")
	f.StringVar(&flags.envFile, "env", ".env", "Environment file")
	f.StringVar(&flags.format, "format", "ascii", "Table format: ascii or markdown")
	f.StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	_ = root.MarkPersistentFlagRequired("project")

	root.AddCommand(newCasingCmd(flags))
	root.AddCommand(newDrillCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newAutodesignCmd(flags))
	return root
}

func (f *rootFlags) mode() format.Mode { return format.ParseMode(f.format) }

// loadProject reads the project file. Its layout matches a saved project form.
func loadProject(path string) (report.Input, error) {
	var in report.Input
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read project: %w", err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse project %s: %w", path, err)
	}
	return in, nil
}

// tables loads the workbooks named by flags, falling back to the environment.
// The drill table is optional; a missing casing table is reported by the
// calculation that needs it.
func (f *rootFlags) tables() (*reftable.Store, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return nil, err
	}
	if f.casingTable == "" {
		f.casingTable = cfg.CasingTable
	}
	if f.drillTable == "" {
		f.drillTable = cfg.DrillTable
	}

	store := reftable.NewStore(nil, nil)
	if f.casingTable != "" {
		t, err := reftable.LoadCasingFile(f.casingTable)
		if err != nil {
			return nil, fmt.Errorf("casing table: %w", err)
		}
		store.SetCasing(t)
	}
	if f.drillTable != "" {
		t, err := reftable.LoadDrillFile(f.drillTable)
		if err != nil {
			return nil, fmt.Errorf("drill table: %w", err)
		}
		store.SetDrill(t)
	}
	return store, nil
}

// load reads both the project and the tables.
func (f *rootFlags) load() (report.Input, *reftable.Store, error) {
	in, err := loadProject(f.project)
	if err != nil {
		return in, nil, err
	}
	store, err := f.tables()
	return in, store, err
}

func explain(err error) error {
	if errors.Is(err, reftable.ErrNotLoaded) {
		return fmt.Errorf("%w (pass --casing-table or set CASING_TABLE)", err)
	}
	return err
}
