package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/pausa/internal/cli"
)

// BackupCmd snapshots, lists or restores the sqlite database. It runs with the
// store closed.
type BackupCmd struct {
	List    bool   `help:"List existing backups, newest first."`
	Restore string `help:"Restore the database from a backup file or its name in the backups directory." placeholder:"FILE"`
	Keep    int    `help:"Number of backups to keep when creating one." default:"14"`
}

func (c *BackupCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Backups()
	if !ok {
		return errors.New("backups are only supported for sqlite storage; use pg_dump for PostgreSQL")
	}
	m.Keep = c.Keep

	switch {
	case c.List:
		snaps, err := m.List()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Printf("No backups in %s\n", m.Dir())
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %8d bytes  %s\n", s.Timestamp.Format("2006-01-02 15:04:05"), s.Size, filepath.Base(s.Path))
		}
		return nil

	case c.Restore != "":
		path := c.Restore
		if filepath.Base(path) == path {
			path = filepath.Join(m.Dir(), path)
		}
		previous, err := m.Restore(path)
		if err != nil {
			return err
		}
		if previous.Path != "" {
			fmt.Printf("Saved previous database to: %s\n", previous.Path)
		}
		fmt.Printf("Restored database from: %s\n", path)
		return nil

	default:
		snap, err := m.Create()
		if err != nil {
			return err
		}
		fmt.Printf("Created backup: %s\n", snap.Path)
		return nil
	}
}
