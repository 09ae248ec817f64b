package options

import "github.com/spf13/cobra"

// DownloadOptions
type DownloadOptions struct {
	Dir string
}

func AddDownloadArgs(cmd *cobra.Command, o *DownloadOptions) {
	cmd.Flags().StringVarP(&o.Dir, "dir", "d", "",
		"Directory to save into. Defaults to download_dir from the config.")
}
