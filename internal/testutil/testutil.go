// Package testutil builds command contexts over throwaway SQLite databases.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/routineos/internal/cli"
	"github.com/julianstephens/routineos/internal/config"
	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/routine"
	"github.com/julianstephens/routineos/internal/storage/sqlite"
)

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Env is a command context with captured output.
type Env struct {
	Ctx    *cli.Context
	Out    *bytes.Buffer
	Store  *sqlite.Store
	Clock  *Clock
	DBPath string
}

// Output returns and clears what commands printed so far.
func (e *Env) Output() string {
	s := e.Out.String()
	e.Out.Reset()
	return s
}

// NoSeed leaves a new database empty.
func NoSeed() ([]models.Block, error) { return nil, nil }

// NewEnv initializes a SQLite database in a temp dir and returns a context
// whose clock starts at now, in UTC. The database starts without blocks
// unless a WithSeed option is passed.
func NewEnv(t *testing.T, now time.Time, opts ...routine.Option) *Env {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "routineos.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	clock := &Clock{T: now}
	n := 0
	base := []routine.Option{
		routine.WithClock(clock),
		routine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%03d", n)
		}),
		routine.WithSeed(NoSeed),
	}

	cfg := config.Config{Database: dbPath, Timezone: "UTC"}
	ctx := cli.NewContext(cfg, store, append(base, opts...)...)
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.In = strings.NewReader("")
	ctx.Now = clock.Now

	return &Env{Ctx: ctx, Out: out, Store: store, Clock: clock, DBPath: dbPath}
}

// AddBlock creates a block with the given slug and duration that applies
// every day.
func (e *Env) AddBlock(t *testing.T, slug string, durationMin int, mods ...func(*routine.SaveBlockInput)) models.Block {
	t.Helper()
	in := routine.SaveBlockInput{
		Slug:               slug,
		Label:              strings.ToUpper(slug[:1]) + slug[1:],
		DefaultDurationMin: float64(durationMin),
		IsSkippable:        true,
		CutPriority:        50,
	}
	for _, mod := range mods {
		mod(&in)
	}
	b, err := e.Ctx.Service.CreateBlock(context.Background(), in)
	require.NoError(t, err)
	return b
}
