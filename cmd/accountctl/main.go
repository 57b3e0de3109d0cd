package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morshidulrahman/testomg-babe/internal/pkg/apiclient"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/env"
)

const appName = "accountctl"

var Version = "dev"

func main() {
	env.SetupEnvFile()

	var apiURL string
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect your subscription from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", env.GetEnv("API_URL", "http://localhost:4000"), "Base URL of the API")

	newClient := func() (*apiclient.Client, error) {
		tokens, err := tokenSource()
		if err != nil {
			return nil, err
		}
		return apiclient.New(apiURL, tokens,
			apiclient.WithNotifier(func(message string) {
				fmt.Fprintln(os.Stderr, message)
			}),
			apiclient.WithOnUnauthorized(func(int) {
				signOut(tokens, apiURL)
			}),
		), nil
	}

	rootCmd.AddCommand(accountCmd(newClient))
	rootCmd.AddCommand(transactionsCmd(newClient))
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tokenSource() (apiclient.FileTokenSource, error) {
	path, err := apiclient.DefaultTokenPath(appName)
	if err != nil {
		return apiclient.FileTokenSource{}, err
	}
	return apiclient.FileTokenSource{Path: path}, nil
}

func signOut(tokens apiclient.FileTokenSource, apiURL string) {
	if err := tokens.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to remove stored token: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Signed out. Sign in again at %s/\n", apiURL)
}
