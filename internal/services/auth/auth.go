// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/jwt"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает запись с ID.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUser возвращает пользователя по ID или ошибку, если не найден.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SubscriptionRepository описывает контракт для создания подписки при регистрации.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users         UserRepository
	subscriptions SubscriptionRepository
	jwtMaker      jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, subscriptions SubscriptionRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:         users,
		subscriptions: subscriptions,
		jwtMaker:      jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и сразу
// оформляет ему подписку на тариф basic с продлением через 30 дней.
func (s *AuthService) Register(ctx context.Context, username, email, fullName, rawPassword string) (*models.User, error) {
	const op = "services.Register"

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, models.ErrUsernameTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hashed,
		Email:        email,
		FullName:     fullName,
		Role:         "user", // дефолтная роль при регистрации
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	startDate := time.Now().UTC()
	_, err = s.subscriptions.CreateSubscription(ctx, models.Subscription{
		UserID:      user.ID,
		PlanID:      "basic",
		Status:      models.SubscriptionActive,
		StartDate:   startDate,
		RenewalDate: startDate.AddDate(0, 0, 30),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Me возвращает профиль пользователя по идентификатору из токена.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}
