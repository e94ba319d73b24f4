package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/julianstephens/routineos/internal/backup"
	"github.com/julianstephens/routineos/internal/config"
	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/storage"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
	"github.com/julianstephens/routineos/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Ctx     context.Context
	Config  config.Config
	Store   storage.Provider
	Service *routine.Service

	Out io.Writer
	In  io.Reader
	// Now is the wall clock used to decide what "today" is.
	Now func() time.Time

	opened bool
}

// NewContext wires a service over store.
func NewContext(cfg config.Config, store storage.Provider, opts ...routine.Option) *Context {
	return &Context{
		Ctx:     context.Background(),
		Config:  cfg,
		Store:   store,
		Service: routine.NewService(store, opts...),
		Out:     os.Stdout,
		In:      os.Stdin,
		Now:     time.Now,
	}
}

// Open loads the store. Commands that read or write routine data call it
// first.
func (c *Context) Open() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	c.opened = true
	return nil
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Interactive reports whether input comes from a terminal, so forms and
// prompts can be shown.
func (c *Context) Interactive() bool {
	f, ok := c.In.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(f)
}

// TerminalOutput reports whether output goes to a terminal.
func (c *Context) TerminalOutput() bool {
	f, ok := c.Out.(*os.File)
	return ok && isTerminal(f)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Location is the timezone days are counted in: the configured one, or the
// timezone saved in settings when the config leaves it at Local.
func (c *Context) Location() *time.Location {
	tz := c.Config.Timezone
	if (tz == "" || tz == "Local") && c.opened {
		if settings, err := c.Service.Settings(c.Ctx); err == nil {
			tz = settings.Timezone
		}
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("Invalid timezone, using local time", "timezone", tz, "error", err)
		return time.Local
	}
	return loc
}

// Today returns the current date key.
func (c *Context) Today() string {
	return utils.DateKey(c.Now().In(c.Location()))
}

// ResolveDate turns a date argument into a date key. Empty means today;
// "yesterday" and "tomorrow" are relative to today.
func (c *Context) ResolveDate(arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return c.shiftToday(-1), nil
	case "tomorrow":
		return c.shiftToday(1), nil
	}
	if _, err := utils.Weekday(arg); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", arg)
	}
	return arg, nil
}

func (c *Context) shiftToday(days int) string {
	return utils.DateKey(c.Now().In(c.Location()).AddDate(0, 0, days))
}

// DateRange returns the date keys of the last n days, ending today.
func (c *Context) DateRange(days int) (from, to string) {
	if days < 1 {
		days = 1
	}
	return c.shiftToday(-(days - 1)), c.Today()
}

// PerformAutomaticBackup backs up a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday) into weekday numbers.
func ParseWeekdays(s string) ([]int, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "all", "every":
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	case "weekdays":
		return []int{1, 2, 3, 4, 5}, nil
	case "weekends":
		return []int{0, 6}, nil
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			days = append(days, int(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

// FormatWeekdays renders weekdays compactly.
func FormatWeekdays(days []time.Weekday) string {
	switch {
	case len(days) == 7:
		return "daily"
	case len(days) == 0:
		return "never"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, ",")
}
