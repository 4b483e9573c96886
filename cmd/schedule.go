package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/config"
	"github.com/ChenziqiAdam/Daily-News-Briefing/internal/generate"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run in the foreground and generate at the configured time",
	Long: `Polls the wall clock once a minute and triggers generation when it
matches the configured schedule_time (HH:MM). Generation is idempotent per
day, so a trigger on a day that already has a document is a no-op.`,
	RunE: runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ScheduleTime == "" {
		return fmt.Errorf("schedule_time is not configured")
	}
	if err := config.ValidateScheduleTime(cfg.ScheduleTime); err != nil {
		return err
	}

	store := openCache()
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Waiting for %s (poll every minute, Ctrl-C to stop)\n", cfg.ScheduleTime)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if now.Format("15:04") != cfg.ScheduleTime {
				continue
			}
			report, err := generate.Run(ctx, generate.Deps{
				Config: cfg,
				Cache:  store,
				Vault:  openVault(),
				Out:    os.Stdout,
			})
			if err != nil {
				warnColor.Printf("[warn] generation failed: %v\n", err)
				continue
			}
			printReport(report)
		}
	}
}
