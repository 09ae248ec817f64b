package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/commands/options"
	"tableflip.dev/firemap/pkg/runner/selection"
	sel "tableflip.dev/firemap/pkg/selection"
)

var dimensionArgs = []string{"year", "month", "island"}

func addShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "show the current selection and session",
		Example: `
firemap show
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			s := selection.Show{Controller: e.controller, JSON: oo.JSON}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addSelect(topLevel *cobra.Command) {
	var dim sel.Dimension
	cmd := &cobra.Command{
		Use:   "select <year|month|island> <value>...",
		Short: "toggle values in or out of the selection",
		Long: options.Wrap80("Each value is added to the selection when absent and removed when present. " +
			"The selection is saved immediately and picked up by a running dashboard."),
		Example: `
firemap select year 2019 2020
firemap select island Guam
`,
		ValidArgs: dimensionArgs,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("want a dimension and at least one value")
			}
			var err error
			dim, err = sel.ParseDimension(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			t := selection.Toggle{Controller: e.controller, Dimension: dim, Values: args[1:], JSON: oo.JSON}
			return oo.HandleError(t.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addClear(topLevel *cobra.Command) {
	var dim sel.Dimension
	cmd := &cobra.Command{
		Use:       "clear <year|month>",
		Short:     "empty the year or month selection",
		ValidArgs: []string{"year", "month"},
		Example: `
firemap clear year
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("want exactly one dimension")
			}
			var err error
			dim, err = sel.ParseDimension(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			c := selection.Clear{Controller: e.controller, Dimension: dim, JSON: oo.JSON}
			return oo.HandleError(c.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addDataSet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dataset <name>",
		Short: "switch data set and refresh the catalog",
		Example: `
firemap dataset default
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			d := selection.DataSet{Controller: e.controller, Name: args[0], JSON: oo.JSON}
			return oo.HandleError(d.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
