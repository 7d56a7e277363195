package cli

import (
	"github.com/spf13/cobra"

	"github.com/ndewijer/Investment-Research-Backend/internal/database"
)

func newMigrateCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			// openApp already migrated; report where the schema stands.
			current, latest, err := database.SchemaVersion(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			printf(cmd, "schema version %d of %d\n", current, latest)
			return nil
		}),
	}
}
