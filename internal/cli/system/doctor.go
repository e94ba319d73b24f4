package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/routineos/internal/backup"
	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/constants"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
	"github.com/julianstephens/routineos/internal/utils"
	"github.com/julianstephens/routineos/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Catalog validation", needsDB: true, run: checkCatalog},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Day records", needsDB: true, run: checkDayRecords},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Println("✓ Database reachable: OK")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx.Ctx, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'routineos migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'routineos backup create'")
	}
	return nil
}

func checkCatalog(ctx *cli.Context) error {
	blocks, err := ctx.Service.ListBlocks(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get blocks: %w", err)
	}
	result := validation.New().ValidateCatalog(blocks)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found (run 'routineos validate' for details)", len(result.Conflicts))
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Service.Settings(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("saved timezone %q is not a known IANA timezone", settings.Timezone)
	}
	return nil
}

func checkDayRecords(ctx *cli.Context) error {
	logs, err := ctx.Store.ListDayLogs(ctx.Ctx, "0000-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to list days: %w", err)
	}
	invalid := 0
	for _, dl := range logs {
		if _, err := utils.Weekday(dl.Date); err != nil {
			invalid++
		}
	}
	if invalid > 0 {
		return fmt.Errorf("found %d day record(s) with an invalid date", invalid)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(constants.DateFormat))
	}
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("configured timezone %q is not a known IANA timezone", ctx.Config.Timezone)
	}
	return nil
}
