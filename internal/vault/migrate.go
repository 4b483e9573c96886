package vault

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

// MigrateReport counts the outcomes of one archive reorganization pass.
type MigrateReport struct {
	Moved   int
	Skipped int
	Errored int
	Errors  []string
}

var flatDocRe = regexp.MustCompile(`^Daily News - (\d{4}-\d{2}-\d{2})\.md$`)

// Migrate relocates flat-named daily documents sitting directly under the
// archive root into the monthly-subfolder layout. Documents already placed
// or whose target already exists are skipped. A one-time migration helper,
// not part of the generation path.
func Migrate(store Store, archive string) (MigrateReport, error) {
	var report MigrateReport

	names, err := store.List(archive)
	if err != nil {
		return report, fmt.Errorf("scanning archive: %w", err)
	}

	for _, name := range names {
		m := flatDocRe.FindStringSubmatch(name)
		if m == nil {
			report.Skipped++
			continue
		}

		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			report.Skipped++
			continue
		}

		oldPath := path.Join(archive, name)
		newPath := DocumentPath(archive, date)
		if store.Exists(newPath) {
			report.Skipped++
			continue
		}

		if err := store.CreateFolder(MonthFolder(archive, date)); err != nil {
			report.Errored++
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if err := store.Rename(oldPath, newPath); err != nil {
			report.Errored++
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.Moved++
	}

	return report, nil
}
