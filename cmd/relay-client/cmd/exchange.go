package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exchangeState string

var exchangeCmd = &cobra.Command{
	Use:   "exchange <code>",
	Short: "Send a grant code to the relay and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if _, err := c.SendCode(cmd.Context(), args[0], exchangeState); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Session token stored.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exchangeCmd)
	exchangeCmd.Flags().StringVar(&exchangeState, "state", "", "State returned alongside the code")
}
