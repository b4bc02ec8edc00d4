package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/cli/backups"
	"github.com/becominglabs/becoming/internal/cli/challenges"
	"github.com/becominglabs/becoming/internal/cli/habits"
	identitycmd "github.com/becominglabs/becoming/internal/cli/identity"
	"github.com/becominglabs/becoming/internal/cli/settings"
	"github.com/becominglabs/becoming/internal/cli/system"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/habit"
	"github.com/becominglabs/becoming/internal/identity"
	"github.com/becominglabs/becoming/internal/keyring"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/storage/memory"
	"github.com/becominglabs/becoming/internal/storage/postgres"
	"github.com/becominglabs/becoming/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path, PostgreSQL connection string, or :memory:. PostgreSQL credentials must NOT be embedded in the connection string; use environment variables, .pgpass, or the OS keyring instead." default:"${default_config}"`
	User    string `help:"User ID that owns all records." default:"${default_user}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init       system.InitCmd            `cmd:"" help:"Initialize becoming storage."`
	Migrate    system.MigrateCmd         `cmd:"" help:"Run database migrations."`
	Doctor     system.DoctorCmd          `cmd:"" help:"Run health checks and diagnostics."`
	Tui        system.TuiCmd             `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Habit      habits.HabitCmd           `cmd:"" help:"Track habits through the becoming lane."`
	Quality    identitycmd.QualityCmd    `cmd:"" help:"Track identity qualities."`
	Evidence   identitycmd.EvidenceCmd   `cmd:"" help:"Record and review identity evidence."`
	Edge       identitycmd.EdgeCmd       `cmd:"" help:"Show your growth edge (weakest quality)."`
	Statement  identitycmd.StatementCmd  `cmd:"" help:"Manage your \"I am\" identity statements."`
	Challenge  challenges.ChallengeCmd   `cmd:"" help:"Run 7-day quality challenges."`
	Insights   identitycmd.InsightsCmd   `cmd:"" help:"Generate and review insights."`
	Milestones identitycmd.MilestonesCmd `cmd:"" help:"List earned milestones."`
	Settings   settings.SettingsCmd      `cmd:"" help:"Manage reminder settings."`
	Remind     system.RemindCmd          `cmd:"" hidden:"" help:"Send due reminders (run from a timer)."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit progression and identity-evidence tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_user":   constants.DefaultUserID,
		},
	)

	config := expandPath(CLI.Config)

	// With the default config, prefer a connection string stored in the
	// OS keyring over the local sqlite file.
	if CLI.Config == constants.DefaultConfigPath {
		if connStr, err := keyring.GetConnectionString(); err == nil {
			config = connStr
		}
	}

	store, err := selectStore(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDirFor(config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: habit.NewTracker(store, nil),
		Ledger:  identity.NewLedger(store, identity.StoreSink{Store: store}, nil),
		UserID:  CLI.User,
	}

	// Commands other than init expect an initialized store
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func selectStore(config string) (storage.Provider, error) {
	switch {
	case config == constants.MemoryConfigPath:
		return memory.NewStore(), nil
	case strings.HasPrefix(config, "postgres://"), strings.HasPrefix(config, "postgresql://"),
		strings.Contains(config, "host="):
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("PostgreSQL connection strings with embedded credentials are not allowed.\n" +
					"       Use one of these alternatives:\n" +
					"       1. OS keyring:   becoming keyring set <connection-string>\n" +
					"       2. .pgpass file: use a connection string without the password\n" +
					"       3. Environment:  PGPASSWORD")
			}
			return nil, err
		}
		return postgres.New(config), nil
	default:
		return sqlite.NewStore(config), nil
	}
}

// configDirFor picks the directory for logs: next to the sqlite file, or
// the default config dir for non-file backends.
func configDirFor(config string) string {
	if config == constants.MemoryConfigPath ||
		strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") ||
		strings.Contains(config, "host=") {
		return filepath.Dir(expandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(config)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
