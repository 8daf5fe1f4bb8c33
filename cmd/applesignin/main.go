package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/applesignin/version"
)

const appName = "applesignin"

type flags struct {
	configFile  string
	envFile     string
	clientID    string
	redirectURI string
	port        int
	noBrowser   bool
	nonce       string
	locale      string
	timeout     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Sign in with Apple from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.configFile, "config", "", "config file (default: search ./cmd/applesignin, ./config, .)")
	root.PersistentFlags().StringVar(&f.envFile, "env-file", "", ".env file")
	root.PersistentFlags().StringVar(&f.clientID, "client-id", "", "Services ID (env APPLE_CLIENT_ID)")
	root.PersistentFlags().StringVar(&f.redirectURI, "redirect-uri", "", "registered redirect URI (env APPLE_REDIRECT_URI)")

	signinCmd := &cobra.Command{
		Use:   "signin",
		Short: "Run a sign-in through the loopback relay and print the credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSignIn(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
	signinCmd.Flags().IntVar(&f.port, "port", 0, "relay listen port (env RELAY_PORT)")
	signinCmd.Flags().BoolVar(&f.noBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")
	signinCmd.Flags().StringVar(&f.nonce, "nonce", "", "nonce to send instead of a generated one")
	signinCmd.Flags().StringVar(&f.locale, "locale", "", "locale of the Apple sign-in page, e.g. en_US")
	signinCmd.Flags().StringVar(&f.timeout, "timeout", "5m", "give up after this long")

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print an authorization URL with a fresh nonce and state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runURL(f, cmd.OutOrStdout())
		},
	}
	urlCmd.Flags().StringVar(&f.nonce, "nonce", "", "nonce to send instead of a generated one")

	decodeCmd := &cobra.Command{
		Use:   "decode <identity-token>",
		Short: "Print the UNVERIFIED claims of an identity token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0], cmd.OutOrStdout())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Short())
		},
	}

	root.AddCommand(signinCmd, urlCmd, decodeCmd, versionCmd)
	return root
}
