package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/download"
	"tableflip.dev/firemap/pkg/filemanager"
	"tableflip.dev/firemap/pkg/runner/ui"
	"tableflip.dev/firemap/pkg/tui/dashboard"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based dashboard",
		Example: `
firemap ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()
			sink := download.DirSink{Dir: e.settings.DownloadDir}
			i := ui.UI{
				StatusDisplay: e.settings.StatusDisplay,
				Options: dashboard.Options{
					Controller: e.controller,
					Watcher:    e.storage,
					Auth:       e.session,
					Files:      e.files,
					Sink:       sink,
					PDFViewer:  filemanager.TerminalViewer{Dir: e.settings.DownloadDir},
					Dispatcher: &filemanager.Dispatcher{
						Files: e.files,
						Sink:  sink,
						Log:   e.log.WithField("component", "files"),
					},
				},
			}
			return i.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
