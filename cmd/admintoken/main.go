// Command admintoken signs an admin console token with the configured
// JWT secret, for bootstrapping operators before any other admin exists.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"aircare/config"
	"aircare/utils"

	"github.com/spf13/cobra"
)

func newRootCmd(loadConfig func()) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "admintoken",
		Short: "Sign an admin console token",
		Long:  `Signs a bearer token accepted by the /api/admin routes. JWT_SECRET must be set in config.yaml or the environment.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return errors.New("--subject is required")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}
			loadConfig()
			token, err := utils.GenerateAdminToken(subject, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "admin identity recorded in the token's sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "how long the token stays valid")
	return cmd
}

func main() {
	if err := newRootCmd(config.LoadConfig).Execute(); err != nil {
		os.Exit(1)
	}
}
