package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool `help:"Delete the existing SQLite database before initializing."`
	NoSeed bool `help:"Start with an empty catalog instead of the default routine."`
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
	if err := ctx.Open(); err != nil {
		return err
	}
	ctx.Printf("Initialized routineos storage at: %s\n", ctx.Store.GetConfigPath())

	if c.NoSeed {
		return nil
	}
	seeded, err := ctx.Service.EnsureSeeded(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to seed the default routine: %w", err)
	}
	if !seeded {
		ctx.Println("The catalog already has blocks; left it unchanged.")
		return nil
	}
	blocks, err := ctx.Service.ListBlocks(ctx.Ctx)
	if err != nil {
		return err
	}
	ctx.Printf("Added the default routine (%d blocks). See them with 'routineos block list'.\n", len(blocks))
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force only works with the SQLite database")
	}
	dbPath := ctx.Store.GetConfigPath()
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}
