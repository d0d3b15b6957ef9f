package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"oauth-relay/internal/client"
	"oauth-relay/internal/provider"
)

var (
	clientID     string
	redirectURI  string
	authorizeURL string
	scopes       []string
	state        string
)

var consentURLCmd = &cobra.Command{
	Use:   "consent-url",
	Short: "Print the provider consent URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), client.ConsentURL(consentRequest()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consentURLCmd)
	addConsentFlags(consentURLCmd)
}

func addConsentFlags(c *cobra.Command) {
	c.Flags().StringVar(&clientID, "client-id", "fce8534e0d92f4d6e47b", "OAuth client identifier registered with the provider")
	c.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost:1234", "Redirect target registered with the provider")
	c.Flags().StringVar(&authorizeURL, "authorize-url", "", "Provider authorization endpoint (default: GitHub)")
	c.Flags().StringSliceVar(&scopes, "scope", []string{"user", "public_repo"}, "Scopes to request")
	c.Flags().StringVar(&state, "state", "", "Anti-forgery state (default: random)")
}

func consentRequest() client.ConsentRequest {
	s := state
	if s == "" {
		s = provider.GenerateState()
	}
	return client.ConsentRequest{
		AuthorizationEndpoint: authorizeURL,
		ClientID:              clientID,
		RedirectURI:           redirectURI,
		Scopes:                scopes,
		State:                 s,
	}
}
