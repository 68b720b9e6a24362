package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/seqel-esports/models"
	"github.com/Dosada05/seqel-esports/repositories"
)

type SettingService interface {
	// Get returns the stored value, or the key's default when never saved.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// List returns every known key with its effective value.
	List(ctx context.Context) ([]models.Setting, error)
}

type settingService struct {
	settingRepo repositories.SettingRepository
}

func NewSettingService(settingRepo repositories.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

// readSetting falls back to the registered default when key is unset.
func readSetting(ctx context.Context, repo repositories.SettingRepository, exec repositories.SQLExecutor, key string) (string, error) {
	value, err := repo.Get(ctx, exec, key)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingNotFound) {
			return models.SettingDefaults[key], nil
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	return readSetting(ctx, s.settingRepo, nil, key)
}

func (s *settingService) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if _, known := models.SettingDefaults[key]; !known {
		return newValidationError("key", "unknown setting")
	}
	if err := s.settingRepo.Set(ctx, nil, key, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (s *settingService) List(ctx context.Context) ([]models.Setting, error) {
	stored, err := s.settingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	values := make(map[string]string, len(models.SettingDefaults))
	for k, v := range models.SettingDefaults {
		values[k] = v
	}
	for _, st := range stored {
		values[st.Key] = st.Value
	}

	settings := make([]models.Setting, 0, len(values))
	for k, v := range values {
		settings = append(settings, models.Setting{Key: k, Value: v})
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}
