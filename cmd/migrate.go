package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/vault"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move flat-named daily documents into monthly subfolders",
	Long: `Scans the archive root for documents named "Daily News - YYYY-MM-DD.md"
and relocates them into the YYYY-MM subfolder layout. Documents already in
place, or whose target already exists, are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		report, err := vault.Migrate(openVault(), cfg.ArchiveFolder)
		if err != nil {
			return err
		}

		fmt.Printf("Moved: %d  Skipped: %d  Errored: %d\n", report.Moved, report.Skipped, report.Errored)
		for _, e := range report.Errors {
			warnColor.Printf("  [warn] %s\n", e)
		}
		return nil
	},
}
