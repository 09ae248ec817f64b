package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/commands/options"
	"tableflip.dev/firemap/pkg/runner/download"
	"tableflip.dev/firemap/pkg/runner/generate"
)

func addGenerate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a map for the current selection",
		Example: `
firemap select year 2019
firemap generate
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			g := generate.Generate{Controller: e.controller, JSON: oo.JSON}
			return oo.HandleError(g.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addDownload(topLevel *cobra.Command) {
	do := &options.DownloadOptions{}
	cmd := &cobra.Command{
		Use:       "download <html|shapes>",
		Short:     "save the generated map as HTML or its shapefile archive",
		ValidArgs: []string{string(download.HTML), string(download.Shapes)},
		Example: `
firemap download html
firemap download shapes --dir ~/Downloads
`,
		Args: cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			d := download.Download{
				Controller: e.controller,
				Dir:        e.downloadDir(do.Dir),
				What:       download.What(args[0]),
			}
			return oo.HandleError(d.Do(context.Background()))
		},
	}

	options.AddDownloadArgs(cmd, do)
	topLevel.AddCommand(cmd)
}
