// Package services содержит логику работы с профилем пользователя:
// чтение, обновление и смена пароля.
package services

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Repository описывает контракт хранилища пользователей.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
}

// ProfileService реализует операции над профилем пользователя.
type ProfileService struct {
	repo Repository
}

// NewProfileService создает новый экземпляр ProfileService.
func NewProfileService(repo Repository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get возвращает профиль пользователя.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// Update применяет частичное обновление профиля.
// Смена пароля через этот метод запрещена.
func (s *ProfileService) Update(ctx context.Context, userID int64, patch models.UserPatch) (*models.User, error) {
	patch.PasswordHash = nil
	return s.repo.UpdateUser(ctx, userID, patch)
}

// ChangePassword проверяет текущий пароль и устанавливает новый.
func (s *ProfileService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	const op = "services.profile.ChangePassword"

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, current); err != nil {
		return models.ErrInvalidCredentials
	}
	hashed, err := password.GetHash(next)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.UpdateUser(ctx, userID, models.UserPatch{PasswordHash: &hashed}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
