package commands

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/fadhlanhapp/congno-backend/config"
	"github.com/fadhlanhapp/congno-backend/repository"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the ledger tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			if err := repository.InitDB(cfg.DatabaseDSN()); err != nil {
				return err
			}
			defer repository.CloseDB()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := repository.ApplySchema(ctx, repository.GetDB()); err != nil {
				return err
			}

			log.Println("level=info component=migrate msg=\"schema applied\"")
			return nil
		},
	}
}
