package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/cli/settings"
	"github.com/julianstephens/pausa/internal/cli/stats"
	"github.com/julianstephens/pausa/internal/cli/system"
	"github.com/julianstephens/pausa/internal/config"
	"github.com/julianstephens/pausa/internal/constants"
	apperrors "github.com/julianstephens/pausa/internal/errors"
	"github.com/julianstephens/pausa/internal/logger"
	"github.com/julianstephens/pausa/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path or PostgreSQL connection string. Defaults to the runtime config's store. PostgreSQL credentials must NOT be embedded; use PAUSA_DB_CONNECTION, .pgpass or the OS keyring." type:"string"`
	Runtime string `help:"Runtime config file." type:"string" default:"${runtime}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize pausa storage."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive break timer." default:"1"`
	Run      system.RunCmd        `cmd:"" help:"Run the engine headless with the agent endpoint."`
	Status   system.StatusCmd     `cmd:"" help:"Show timers and work status."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage reminder settings."`
	Schedule settings.ScheduleCmd `cmd:"" help:"Manage the work schedule."`
	Setup    settings.SetupCmd    `cmd:"" help:"Configure the work schedule interactively."`
	Stats    stats.StatsCmd       `cmd:"" help:"Show completed breaks per day."`
	Tone     system.ToneCmd       `cmd:"" help:"Preview or export a notification tone."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   system.BackupCmd     `cmd:"" help:"Create, list or restore sqlite backups."`
}

// storeless commands never open the store.
var storeless = map[string]bool{"init": true, "keyring": true, "tone": true, "backup": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Break reminders for eyes, stretching and water, paced to your work day"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"runtime": constants.DefaultRuntimePath,
		},
	)

	cfg, err := config.Load(CLI.Runtime)
	if err != nil {
		apperrors.Fatal(err)
	}

	command := "tui"
	if fields := strings.Fields(ctx.Command()); len(fields) > 0 {
		command = fields[0]
	}
	if err := initLogger(cfg, command); err != nil {
		apperrors.Fatal(err)
	}

	target, isDefault := CLI.Config, false
	if target == "" {
		target = cfg.Store
		isDefault = target == constants.DefaultConfigPath
	}
	store, err := cli.ResolveStore(target, isDefault)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:       store,
		Config:      cfg,
		RuntimePath: CLI.Runtime,
	}

	if !storeless[command] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	apperrors.Fatal(err)
}

func initLogger(cfg *config.Config, command string) error {
	dbPath, err := utils.ExpandHome(constants.DefaultConfigPath)
	if err != nil {
		return err
	}
	return logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: filepath.Dir(dbPath),
		Level:     cfg.LogLevel,
		Console:   command == "run",
	})
}
