package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/becominglabs/becoming/internal/backup"
	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/migration"
	"github.com/becominglabs/becoming/internal/storage/sqlite"
	"github.com/becominglabs/becoming/internal/utils"
	"github.com/becominglabs/becoming/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	if dbReachable {
		if err := checkHabitIntegrity(ctx); err != nil {
			fmt.Printf("❌ Habit integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit integrity: SKIPPED (database not reachable)\n")
	}

	if dbReachable {
		if err := checkCheckInDuplicates(ctx); err != nil {
			fmt.Printf("❌ Check-in duplicates: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Check-in duplicates: OK\n")
		}
	} else {
		fmt.Printf("⊘ Check-in duplicates: SKIPPED (database not reachable)\n")
	}

	if dbReachable {
		if err := checkQualityBounds(ctx); err != nil {
			fmt.Printf("❌ Quality bounds: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Quality bounds: OK\n")
		}
	} else {
		fmt.Printf("⊘ Quality bounds: SKIPPED (database not reachable)\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// Postgres validates its schema version on Load
		return nil
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	migrationFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	runner := migration.NewRunner(db, migrationFS)
	currentVersion, err := runner.CurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	latestVersion, err := runner.LatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'becoming migrate')", currentVersion, latestVersion)
	}

	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'becoming backup create'")
	}

	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !utils.ValidateTimeFormat(settings.MorningTime) {
		return fmt.Errorf("morning_time %q is not a valid HH:MM time", settings.MorningTime)
	}
	if !utils.ValidateTimeFormat(settings.EveningTime) {
		return fmt.Errorf("evening_time %q is not a valid HH:MM time", settings.EveningTime)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA timezone", settings.Timezone)
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkHabitIntegrity verifies counter invariants on every habit.
func checkHabitIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.UserID, "")
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	for _, h := range habits {
		if h.CurrentStreak > h.LongestStreak {
			return fmt.Errorf("habit %q: current streak %d exceeds longest streak %d", h.Title, h.CurrentStreak, h.LongestStreak)
		}
		if h.TotalCompletions > h.CurrentDay && h.CurrentDay > 0 {
			return fmt.Errorf("habit %q: %d completions but only %d tracked days", h.Title, h.TotalCompletions, h.CurrentDay)
		}
		if h.Graduated() && h.GraduationDate == nil {
			return fmt.Errorf("habit %q: in i_am lane without a graduation date", h.Title)
		}
		if h.RequiredDays <= 0 {
			return fmt.Errorf("habit %q: required_days is %d", h.Title, h.RequiredDays)
		}
	}

	return nil
}

func checkCheckInDuplicates(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(ctx.UserID, "")
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	for _, h := range habits {
		checkIns, err := ctx.Store.GetCheckInsForHabit(h.ID)
		if err != nil {
			return fmt.Errorf("failed to get check-ins for %q: %w", h.Title, err)
		}
		seen := make(map[string]bool, len(checkIns))
		for _, ci := range checkIns {
			if !utils.ValidateDateFormat(ci.CheckInDate) {
				return fmt.Errorf("habit %q: check-in %s has invalid date %q", h.Title, ci.ID, ci.CheckInDate)
			}
			if seen[ci.CheckInDate] {
				return fmt.Errorf("habit %q: duplicate check-in for %s", h.Title, ci.CheckInDate)
			}
			seen[ci.CheckInDate] = true
		}
	}

	return nil
}

func checkQualityBounds(ctx *cli.Context) error {
	qualities, err := ctx.Store.GetAllQualities(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get qualities: %w", err)
	}

	for _, q := range qualities {
		if q.Strength < 0 || q.Strength > 100 {
			return fmt.Errorf("quality %q: strength %.2f outside [0, 100]", q.QualityName, q.Strength)
		}
		if q.EvidenceCount < 0 {
			return fmt.Errorf("quality %q: negative evidence count %d", q.QualityName, q.EvidenceCount)
		}
	}

	return nil
}
