package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/firemap/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
	vp = viper.New()
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "firemap",
		Short: options.Wrap80("Explore historical wildfire occurrence across the Pacific islands: filter by year, month and island, generate maps and manage the data files behind them."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("log-level", "", "Log level (debug, info, warn, error).")
	pf.String("data-url", "", "Data service base URL.")
	pf.String("files-url", "", "File service base URL.")
	_ = vp.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = vp.BindPFlag("data_url", pf.Lookup("data-url"))
	_ = vp.BindPFlag("files_url", pf.Lookup("files-url"))

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addCatalog(topLevel)
	addShow(topLevel)
	addSelect(topLevel)
	addClear(topLevel)
	addDataSet(topLevel)
	addGenerate(topLevel)
	addDownload(topLevel)
	addFiles(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addWhoami(topLevel)
	addVersion(topLevel)
}
