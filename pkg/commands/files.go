package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/commands/options"
	dl "tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/runner/files"
)

func addFiles(topLevel *cobra.Command) {
	do := &options.DownloadOptions{}
	cmd := &cobra.Command{
		Use:   "files [tree|delete|upload|download|preview] [args...]",
		Short: "browse and manage the files on the file service",
		Long: options.Wrap80("Requires a login. delete, download and preview take file ids as shown by " +
			"`firemap files tree`; upload takes a local .zip path. After a change the tree is listed again."),
		ValidArgs: []string{"tree", "delete", "upload", "download", "preview"},
		Example: `
firemap files
firemap files delete /data/old.zip
firemap files upload ./fires_2023.zip
firemap files preview /data/readme.txt
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.Close()
			op := files.OpTree
			if len(args) > 0 {
				op, args = files.Op(args[0]), args[1:]
			}
			dir := e.downloadDir(do.Dir)
			f := files.Files{
				Auth: e.session,
				Tree: e.files,
				Dispatcher: &filemanager.Dispatcher{
					Files:  e.files,
					Sink:   dl.DirSink{Dir: dir},
					Viewer: filemanager.TerminalViewer{Out: os.Stdout, Dir: dir},
					Log:    e.log.WithField("component", "files"),
				},
				Op:   op,
				Args: args,
				JSON: oo.JSON,
			}
			return oo.HandleError(f.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)
	options.AddDownloadArgs(cmd, do)
	topLevel.AddCommand(cmd)
}
