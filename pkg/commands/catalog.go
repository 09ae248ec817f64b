package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/commands/options"
	"tableflip.dev/firemap/pkg/runner/catalog"
)

func addCatalog(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "list the years, months, islands and data sets you can filter by",
		Example: `
firemap catalog
firemap catalog --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			c := catalog.Catalog{Controller: e.controller, JSON: oo.JSON}
			return oo.HandleError(c.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
