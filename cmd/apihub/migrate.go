package cmd

import (
	"fmt"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/config"
	"github.com/denmats/apihub/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, err := db.NewConnection(cmd.Context(), config.GetConfig())
		if err != nil {
			return err
		}
		defer driver.GetDB().Close()

		if err := app.InitTables(cmd.Context(), driver.GetDB()); err != nil {
			return err
		}

		fmt.Println("Schema is up to date")
		return nil
	},
}
