package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/config"
	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/persistence"
	"github.com/julianstephens/pausa/internal/storage"
	"github.com/julianstephens/pausa/internal/storage/sqlite"
	"github.com/julianstephens/pausa/internal/utils"
)

type InitCmd struct {
	Force bool `help:"Delete an existing sqlite database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if err := writeDefaults(ctx.Store); err != nil {
		return err
	}
	fmt.Printf("Initialized pausa storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.RuntimePath != "" {
		path, err := utils.ExpandHome(ctx.RuntimePath)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote runtime config to: %s\n", path)
		}
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for sqlite storage")
	}
	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if m, ok := ctx.Backups(); ok {
			snap, err := m.Create()
			if err != nil {
				return fmt.Errorf("failed to back up existing database: %w", err)
			}
			fmt.Printf("Backed up existing database to: %s\n", snap.Path)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// writeDefaults stores default settings for keys that have never been written.
func writeDefaults(store storage.Provider) error {
	a := persistence.New(store)
	missing := func(key string) bool {
		_, err := store.GetValue(key)
		return errors.Is(err, storage.ErrNotFound)
	}
	if missing(constants.KeyReminderConfig) {
		a.SaveConfig(models.DefaultReminderConfig())
	}
	if missing(constants.KeyWorkSchedule) {
		a.SaveSchedule(models.DefaultWorkSchedule())
	}
	if missing(constants.KeyTimersRunning) {
		a.SaveRunning(true)
	}
	return a.Writer().Flush()
}
