package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nattapongw/fieldservice/internal/auth"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token [subject]",
	Short: "Generate a development bearer token",
	Long:  `Sign a bearer token for the given auth subject with the configured JWT secret. Production tokens come from the identity provider; this exists for local development and smoke tests.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		verifier := auth.NewJWTTokenVerifier(cfg.Security.JWTSecret)
		token, err := verifier.GenerateToken(args[0], tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
