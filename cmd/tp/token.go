package main

import (
	"fmt"
	"time"

	"github.com/amonks/taskpad/api"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the /robot endpoint",
	Long: `Issue a bearer token for the /robot endpoint, signed with
server.jwt-secret from taskpad.toml.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "robot", "Token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", api.DefaultTokenTTL, "Token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt-secret is not set")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("--ttl must be positive, got %s", tokenTTL)
	}

	signed, err := api.IssueToken([]byte(cfg.Server.JWTSecret), tokenSubject, tokenTTL, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}
