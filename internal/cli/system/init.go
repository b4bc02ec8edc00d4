package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/storage/postgres"
	"github.com/becominglabs/becoming/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force is only supported for sqlite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			// Don't delete the file we're about to migrate from
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized becoming storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	var sourceStore storage.Provider
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") ||
		strings.Contains(sourcePath, "host=") {
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables, .pgpass, or the OS keyring instead")
			}
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else {
		sourceStore = sqlite.NewStore(sourcePath)
	}

	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating habits...")
	habits, err := sourceStore.GetAllHabits(ctx.UserID, "")
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	fmt.Printf("    Migrated %d habits\n", len(habits))

	fmt.Println("  Migrating check-ins...")
	checkInCount := 0
	for _, h := range habits {
		checkIns, err := sourceStore.GetCheckInsForHabit(h.ID)
		if err != nil {
			return fmt.Errorf("failed to get check-ins for habit %s: %w", h.ID, err)
		}
		for _, ci := range checkIns {
			if err := ctx.Store.AddCheckIn(ci); err != nil {
				return fmt.Errorf("failed to add check-in %s: %w", ci.ID, err)
			}
			checkInCount++
		}
	}
	fmt.Printf("    Migrated %d check-ins\n", checkInCount)

	fmt.Println("  Migrating qualities...")
	qualities, err := sourceStore.GetAllQualities(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get qualities from source: %w", err)
	}
	for _, q := range qualities {
		if err := ctx.Store.AddQuality(q); err != nil {
			return fmt.Errorf("failed to add quality %s: %w", q.ID, err)
		}
	}
	fmt.Printf("    Migrated %d qualities\n", len(qualities))

	fmt.Println("  Migrating identity statements...")
	statements, err := sourceStore.GetAllStatements(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get statements from source: %w", err)
	}
	for _, st := range statements {
		if err := ctx.Store.AddStatement(st); err != nil {
			return fmt.Errorf("failed to add statement %s: %w", st.ID, err)
		}
	}
	fmt.Printf("    Migrated %d statements\n", len(statements))

	fmt.Println("  Migrating evidence...")
	evidence, err := sourceStore.GetEvidence(ctx.UserID, "", 0)
	if err != nil {
		return fmt.Errorf("failed to get evidence from source: %w", err)
	}
	// GetEvidence returns newest first; re-insert oldest first to keep
	// creation order in the destination
	for i := len(evidence) - 1; i >= 0; i-- {
		if err := ctx.Store.AddEvidence(evidence[i]); err != nil {
			return fmt.Errorf("failed to add evidence %s: %w", evidence[i].ID, err)
		}
	}
	fmt.Printf("    Migrated %d evidence records\n", len(evidence))

	fmt.Println("  Migrating challenges...")
	challenges, err := sourceStore.GetAllChallenges(ctx.UserID, "")
	if err != nil {
		return fmt.Errorf("failed to get challenges from source: %w", err)
	}
	for _, ch := range challenges {
		if err := ctx.Store.AddChallenge(ch); err != nil {
			return fmt.Errorf("failed to add challenge %s: %w", ch.ID, err)
		}
	}
	fmt.Printf("    Migrated %d challenges\n", len(challenges))

	fmt.Println("  Migrating milestones...")
	milestones, err := sourceStore.GetAllMilestones(ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get milestones from source: %w", err)
	}
	for _, m := range milestones {
		if err := ctx.Store.AddMilestone(m); err != nil {
			return fmt.Errorf("failed to add milestone %s: %w", m.ID, err)
		}
	}
	fmt.Printf("    Migrated %d milestones\n", len(milestones))

	fmt.Println("  Migrating insights...")
	insights, err := sourceStore.GetAllInsights(ctx.UserID, false)
	if err != nil {
		return fmt.Errorf("failed to get insights from source: %w", err)
	}
	for _, in := range insights {
		if err := ctx.Store.AddInsight(in); err != nil {
			return fmt.Errorf("failed to add insight %s: %w", in.ID, err)
		}
	}
	fmt.Printf("    Migrated %d insights\n", len(insights))

	return nil
}
