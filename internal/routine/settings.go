package routine

import (
	"context"

	"github.com/julianstephens/routineos/internal/models"
	"github.com/julianstephens/routineos/internal/storage"
)

func (s *Service) Settings(ctx context.Context) (models.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	return settings, wrap("loading settings", err)
}

// UpdateSettings applies key=value changes to the stored settings. The
// first invalid value aborts the update and nothing is saved.
func (s *Service) UpdateSettings(ctx context.Context, changes map[string]string) (models.Settings, error) {
	var updated models.Settings
	var invalid error
	err := s.store.WithTx(ctx, func(r storage.Repository) error {
		current, err := r.GetSettings(ctx)
		if err != nil {
			return err
		}
		for key, value := range changes {
			if err := models.SetSetting(&current, key, value); err != nil {
				invalid = err
				return nil
			}
		}
		updated = current
		return r.SaveSettings(ctx, current)
	})
	if invalid != nil {
		return models.Settings{}, invalid
	}
	if err != nil {
		return models.Settings{}, wrap("saving settings", err)
	}
	return updated, nil
}
