package sqlstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/julianstephens/routineos/internal/models"
)

// GetSettings reads every stored key and reconciles it onto the defaults.
// An empty table yields the default settings.
func (r *Repo) GetSettings(ctx context.Context) (models.Settings, error) {
	rows, err := r.query(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, fmt.Errorf("loading settings: %w", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	return models.MapToSettings(data), nil
}

func (r *Repo) SaveSettings(ctx context.Context, settings models.Settings) error {
	data := models.SettingsToMap(settings)
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := r.exec(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`, k, data[k]); err != nil {
			return fmt.Errorf("saving setting %s: %w", k, err)
		}
	}
	return nil
}
