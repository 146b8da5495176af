// Package services содержит логику работы с настройками пользователя.
// Настройки создаются лениво при первом чтении со значениями по
// умолчанию; обновляются по секциям, каждая секция заменяется целиком.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Repository описывает контракт хранилища настроек.
type Repository interface {
	GetSettingsByUserID(ctx context.Context, userID int64) (*models.Settings, error)
	CreateSettings(ctx context.Context, st models.Settings) (*models.Settings, error)
	UpdateSettingsByUserID(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error)
}

// Секции настроек, доступные для адресного обновления.
const (
	SectionAPI           = "api"
	SectionNotifications = "notifications"
	SectionAppearance    = "appearance"
)

// ErrUnknownSection возвращается при обновлении несуществующей секции.
var ErrUnknownSection = errors.New("unknown settings section")

// SettingsService реализует операции над настройками пользователя.
type SettingsService struct {
	repo Repository
}

// NewSettingsService создает новый экземпляр SettingsService.
func NewSettingsService(repo Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get возвращает настройки пользователя, при первом обращении
// создавая запись со значениями по умолчанию.
func (s *SettingsService) Get(ctx context.Context, userID int64) (*models.Settings, error) {
	const op = "services.settings.Get"

	st, err := s.repo.GetSettingsByUserID(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	created, err := s.repo.CreateSettings(ctx, models.DefaultSettings(userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update заменяет переданные секции настроек целиком.
func (s *SettingsService) Update(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error) {
	const op = "services.settings.Update"

	// Ленивое создание: обновление до первого чтения тоже должно работать.
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.repo.UpdateSettingsByUserID(ctx, userID, patch)
}

// UpdateSection заменяет одну именованную секцию настроек.
func (s *SettingsService) UpdateSection(ctx context.Context, userID int64, section string, patch models.SettingsPatch) (*models.Settings, error) {
	switch section {
	case SectionAPI:
		patch = models.SettingsPatch{API: patch.API}
	case SectionNotifications:
		patch = models.SettingsPatch{Notifications: patch.Notifications}
	case SectionAppearance:
		patch = models.SettingsPatch{Appearance: patch.Appearance}
	default:
		return nil, ErrUnknownSection
	}
	return s.Update(ctx, userID, patch)
}
