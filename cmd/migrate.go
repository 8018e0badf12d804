package cmd

import (
	"fmt"

	"scriptgo/infrastructure/logger"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const vendorFlag = "vendor"

var migrateFlags = map[string]cobraflags.Flag{
	vendorFlag: &cobraflags.StringFlag{
		Name:  vendorFlag,
		Value: "",
		Usage: "Database vendor (postgres, mssql, mysql). Defaults to database.vendor from the config",
	},
}

func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the scripts table",
		Long: `Bootstrap the scripts schema for the configured database vendor.

Safe to run repeatedly: existing tables are kept and missing columns are added.`,
		RunE: migrateCommand,
	}
	cobraflags.RegisterMap(migrateCmd, migrateFlags)
	return migrateCmd
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	vendor := configuredVendor(migrateFlags[vendorFlag].GetString())
	store, err := openScriptStore(vendor, true)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.GetLogger().WithField("vendor", store.vendor).Info("Scripts schema is up to date")
	fmt.Fprintf(cmd.OutOrStdout(), "scripts schema ready (%s)\n", store.vendor)
	return nil
}
