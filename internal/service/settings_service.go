package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
)

// SettingsService reads and writes the restaurant's preparation times.
type SettingsService struct {
	repo repository.SettingsRepository
	now  Clock
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo, now: time.Now}
}

// WithClock replaces the time source.
func (s *SettingsService) WithClock(clock Clock) *SettingsService {
	s.now = clock
	return s
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, storageError("get settings", err)
	}
	return settings, nil
}

// Save replaces the settings. Both times must lie within the inclusive bounds.
func (s *SettingsService) Save(ctx context.Context, pickupTime, deliveryTime int) (*models.Settings, error) {
	if err := checkMinutes("pickupTime", pickupTime); err != nil {
		return nil, err
	}
	if err := checkMinutes("deliveryTime", deliveryTime); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	settings := models.Settings{
		PickupTime:   pickupTime,
		DeliveryTime: deliveryTime,
		UpdatedAt:    &now,
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, storageError("save settings", err)
	}
	return &settings, nil
}

func checkMinutes(field string, minutes int) error {
	if minutes < models.MinPreparationMinutes || minutes > models.MaxPreparationMinutes {
		return invalid(field, fmt.Sprintf("must be between %d and %d", models.MinPreparationMinutes, models.MaxPreparationMinutes))
	}
	return nil
}
