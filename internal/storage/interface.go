package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/routineos/internal/models"
)

// ErrNotFound is returned by single-row reads when the row does not exist.
var ErrNotFound = errors.New("not found")

// OrderUpdate sets the order of one block or entry.
type OrderUpdate struct {
	ID    string
	Order int
}

// Repository is the data access surface shared by a store and its
// transactions.
type Repository interface {
	// Blocks
	GetBlock(ctx context.Context, id string) (models.Block, error)
	GetBlockBySlug(ctx context.Context, slug string) (models.Block, error)
	ListBlocks(ctx context.Context) ([]models.Block, error) // ordered by Order
	CountBlocks(ctx context.Context) (int, error)
	AddBlocks(ctx context.Context, blocks ...models.Block) error
	UpdateBlock(ctx context.Context, block models.Block) error
	UpdateBlockOrders(ctx context.Context, updates []OrderUpdate, updatedAt time.Time) error
	DeleteBlock(ctx context.Context, id string) error

	// Day logs
	GetDayLog(ctx context.Context, id string) (models.DayLog, error)
	GetDayLogByDate(ctx context.Context, date string) (models.DayLog, error)
	ListDayLogs(ctx context.Context, from, to string) ([]models.DayLog, error) // inclusive, ordered by date
	AddDayLog(ctx context.Context, log models.DayLog) error
	TouchDayLog(ctx context.Context, id string, at time.Time) error

	// Entries
	GetEntry(ctx context.Context, id string) (models.BlockEntry, error)
	ListEntries(ctx context.Context, dayLogID string) ([]models.BlockEntry, error) // ordered by Order
	AddEntries(ctx context.Context, entries ...models.BlockEntry) error
	UpdateEntries(ctx context.Context, entries ...models.BlockEntry) error
	UpdateEntryOrders(ctx context.Context, updates []OrderUpdate) error
	DeleteEntries(ctx context.Context, ids ...string) error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// Provider is a storage backend.
type Provider interface {
	Repository

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// WithTx runs fn inside a transaction. The transaction is committed when fn
	// returns nil and rolled back otherwise.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Migrate applies pending schema migrations and returns how many ran.
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	// SchemaVersion reports the database's schema version and the newest
	// version this build knows about.
	SchemaVersion(ctx context.Context) (current, latest int, err error)

	// Utils
	GetConfigPath() string
}
