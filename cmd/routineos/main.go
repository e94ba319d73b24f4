package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/cli/backups"
	"github.com/julianstephens/routineos/internal/cli/blocks"
	"github.com/julianstephens/routineos/internal/cli/days"
	"github.com/julianstephens/routineos/internal/cli/optimize"
	"github.com/julianstephens/routineos/internal/cli/settings"
	"github.com/julianstephens/routineos/internal/cli/system"
	"github.com/julianstephens/routineos/internal/config"
	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/errors"
	"github.com/julianstephens/routineos/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `name:"db" help:"SQLite database path, PostgreSQL connection string without a password, or 'keyring'." placeholder:"PATH"`
	Config   string `help:"Config file path." type:"path" default:"${config_file}"`
	Debug    bool   `help:"Log debug output to stderr."`
	LogDir   string `help:"Directory for log files." type:"path"`
	Timezone string `help:"IANA timezone used to decide what today is."`

	Focus    system.FocusCmd      `cmd:"" help:"Open focus mode." default:"1"`
	Init     system.InitCmd       `cmd:"" help:"Initialize routineos storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd   `cmd:"" help:"Check the block catalog for conflicts."`
	Day      days.DayCmd          `cmd:"" help:"Show the schedule for a day."`
	Start    days.StartCmd        `cmd:"" help:"Start a task."`
	Done     days.DoneCmd         `cmd:"" help:"Mark a task done."`
	Skip     days.SkipCmd         `cmd:"" help:"Skip a task."`
	Cancel   days.CancelCmd       `cmd:"" help:"Stop an active task without finishing it."`
	Undo     days.UndoCmd         `cmd:"" help:"Return a done or skipped task to pending."`
	Status   days.StatusCmd       `cmd:"" help:"Show today's progress."`
	Feedback days.FeedbackCmd     `cmd:"" help:"Compare planned and actual durations."`
	Optimize optimize.OptimizeCmd `cmd:"" help:"Suggest catalog changes from recent days."`
	Block    struct {
		Add    blocks.BlockAddCmd    `cmd:"" help:"Add a block."`
		Edit   blocks.BlockEditCmd   `cmd:"" help:"Edit a block."`
		Delete blocks.BlockDeleteCmd `cmd:"" help:"Delete a block."`
		List   blocks.BlockListCmd   `cmd:"" help:"List all blocks." default:"1"`
		Move   blocks.BlockMoveCmd   `cmd:"" help:"Move a block up or down."`
		Export blocks.BlockExportCmd `cmd:"" help:"Export the catalog as YAML."`
		Import blocks.BlockImportCmd `cmd:"" help:"Import blocks from a YAML catalog."`
	} `cmd:"" help:"Manage the block catalog."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and the stored connection string." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Tools system.DebugCmd `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A daily routine tracker that keeps one task in focus"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.Config, config.Flags{
		Database: CLI.DB,
		Debug:    CLI.Debug,
		LogDir:   CLI.LogDir,
		Timezone: CLI.Timezone,
	})
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir, ConfigDir: config.ConfigDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := config.NewResolver().OpenStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Starting command", "command", kctx.Command(), "database", store.GetConfigPath())

	err = kctx.Run(cli.NewContext(cfg, store))
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close database", "error", closeErr)
	}
	if err != nil {
		errors.Fatal(err)
	}
	logger.Close()
}
