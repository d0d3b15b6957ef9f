package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"oauth-relay/internal/client"
)

var loginTimeout time.Duration

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with the provider and exchange the code through the relay",
	Long: `Prints the consent URL, waits on the redirect target for the provider to send
the browser back with a grant code and then exchanges that code through the relay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, loginTimeout)
		defer cancel()

		req := consentRequest()
		fmt.Fprintf(cmd.OutOrStdout(), "Open this URL in your browser to continue:\n\n  %s\n\n", client.ConsentURL(req))

		grant, err := client.ReceiveGrant(ctx, req.RedirectURI)
		if err != nil {
			return fmt.Errorf("did not receive a grant code: %w", err)
		}
		if grant.State != req.State {
			return fmt.Errorf("state returned by the provider does not match the one sent")
		}

		if _, err := c.SendCode(ctx, grant.Code, grant.State); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	addConsentFlags(loginCmd)
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "How long to wait for the provider redirect")
}
