package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/generate"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := openCache()
	defer store.Close()

	report, err := generate.Run(context.Background(), generate.Deps{
		Config: cfg,
		Cache:  store,
		Vault:  openVault(),
		Out:    os.Stdout,
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *generate.Report) {
	switch report.State {
	case generate.Published:
		okColor.Printf("Published %s\n", report.Path)
	case generate.PublishedWithErrors:
		warnColor.Printf("Published %s with errors\n", report.Path)
		if report.Analysis.ErrorSummary != "" {
			fmt.Printf("  %s\n", report.Analysis.ErrorSummary)
		}
	case generate.SkippedAlreadyExists:
		fmt.Printf("Today's document already exists: %s\n", report.Path)
	case generate.AbortedConfig:
		failColor.Printf("Aborted: %s\n", report.Reason)
	case generate.AbortedNoFolder:
		failColor.Printf("Aborted: could not create archive folder: %s\n", report.Reason)
	}

	for _, s := range report.Statuses {
		switch {
		case s.Error != "":
			failColor.Printf("  ✗ %s: %s\n", s.Topic, s.Error)
		case s.NewsCount == 0:
			fmt.Printf("  - %s: no news\n", s.Topic)
		default:
			okColor.Printf("  ✓ %s (%d items)\n", s.Topic, s.NewsCount)
		}
	}
}
