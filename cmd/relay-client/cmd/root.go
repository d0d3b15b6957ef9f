package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"oauth-relay/internal/client"
)

var (
	serverURL string
	tokenFile string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "relay-client",
	Short: "relay-client talks to an oauth-relay backend",
	Long: `A command line client for the oauth-relay backend. It opens the provider consent
page, hands the returned grant code to the relay and keeps the session token it
gets back for later resource requests.`,
	SilenceUsage: true,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:1235", "Base URL of the relay backend")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Where the session token is kept (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newClient() (*client.Client, error) {
	path := tokenFile
	if path == "" {
		var err error
		path, err = client.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
	}
	return client.New(serverURL, client.NewFileTokenStore(path), newLogger()), nil
}
