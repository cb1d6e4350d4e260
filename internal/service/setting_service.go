package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

var ErrSettingNotFound = errors.New("setting not found")

// SettingStore is the key/value persistence behind site settings.
type SettingStore interface {
	GetAll(ctx context.Context) ([]model.Setting, error)
	Upsert(ctx context.Context, key, value string, now time.Time) error
	GetByKey(ctx context.Context, key string) (*model.Setting, error)
}

type SettingService struct {
	settings SettingStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewSettingService(settings SettingStore, log zerolog.Logger) *SettingService {
	return &SettingService{
		settings: settings,
		log:      log.With().Str("component", "setting_service").Logger(),
		now:      time.Now,
	}
}

func (s *SettingService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	list, err := s.settings.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to get all settings")
		return nil, err
	}

	out := make(map[string]string, len(list))
	for _, setting := range list {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// UpdateSettings upserts each pair. Settings are low volume, so one write per key.
func (s *SettingService) UpdateSettings(ctx context.Context, values map[string]string) error {
	now := s.now().UTC()
	for key, value := range values {
		if err := s.settings.Upsert(ctx, key, value, now); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("Failed to update setting")
			return err
		}
	}
	return nil
}

func (s *SettingService) GetSettingByKey(ctx context.Context, key string) (string, error) {
	setting, err := s.settings.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return setting.Value, nil
}
