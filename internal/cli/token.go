package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Research-Backend/internal/config"
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print a time token for the ingestion API, signed with the configured API key",
		Long: `Print a time token for the X-Time-Token header.

The token is valid for five minutes and only together with the same key in X-API-Key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			key := cfg.Auth.InternalAPIKey
			if key == "" {
				return fmt.Errorf("INTERNAL_API_KEY is not set")
			}
			tok := middleware.GenerateTimeToken(key)
			if tok == "" {
				return fmt.Errorf("failed to generate time token")
			}
			printf(cmd, "%s\n", tok)
			return nil
		},
	}
}
