package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"oauth-relay/internal/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a session token is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if c.Authenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "authenticated")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "not authenticated")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		return c.Logout()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}
