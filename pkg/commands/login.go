package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/firemap/pkg/runner/login"
)

func addLogin(topLevel *cobra.Command) {
	var user, pass string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in to the file service",
		Example: `
firemap login -u ranger
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			l := login.Login{Session: e.session, Username: user, Password: pass, In: os.Stdin}
			return l.Do(context.Background())
		},
	}

	cmd.Flags().StringVarP(&user, "username", "u", "", "Username. Prompted when empty.")
	cmd.Flags().StringVarP(&pass, "password", "p", "", "Password. Prompted when empty.")
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			l := login.Logout{Session: e.session}
			return l.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "show the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			defer e.Close()
			w := login.Whoami{Session: e.session}
			return w.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
