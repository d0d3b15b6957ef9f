package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"oauth-relay/internal/client"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Fetch the repositories visible to the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		repos, err := c.FetchRepos(cmd.Context())
		if errors.Is(err, client.ErrNotAuthenticated) {
			return fmt.Errorf("%w (run relay-client login)", err)
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(repos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
}
