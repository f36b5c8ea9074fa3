package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/pkg/auth"
)

// token:inspect shows who a token belongs to and when it expires, using
// the configured JWT_SECRET.
var tokenInspectCmd = &cobra.Command{
	Use:   "token:inspect <token>",
	Short: "Print the subject and expiry of a bearer token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		tokens, err := auth.NewTokenServiceFromConfig()
		if err != nil {
			return err
		}

		expiry, err := tokens.ExtractExpiry(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("expires: %s\n", expiry.UTC().Format(time.RFC3339))

		subject, err := tokens.Verify(args[0])
		if err != nil {
			fmt.Printf("valid:   false (%v)\n", err)
			return nil
		}
		fmt.Printf("subject: %s\nvalid:   true\n", subject)
		return nil
	},
}
