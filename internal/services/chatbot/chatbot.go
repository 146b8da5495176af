// Package services содержит логику бизнес-уровня для управления
// чат-ботами: создание с проверкой квоты тарифа, чтение, обновление
// и удаление с проверкой владельца.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/cache"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// ChatbotRepository описывает контракт хранилища чат-ботов.
type ChatbotRepository interface {
	CreateChatbot(ctx context.Context, bot models.Chatbot) (*models.Chatbot, error)
	GetChatbot(ctx context.Context, id int64) (*models.Chatbot, error)
	ListChatbotsByUserID(ctx context.Context, userID int64) ([]*models.Chatbot, error)
	CountChatbotsByUserID(ctx context.Context, userID int64) (int, error)
	UpdateChatbot(ctx context.Context, id int64, patch models.ChatbotPatch) (*models.Chatbot, error)
	DeleteChatbot(ctx context.Context, id int64) (bool, error)
}

// PlanRepository отдает тариф пользователя для проверки квоты.
type PlanRepository interface {
	GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// TemplateRepository отдает шаблон при создании чат-бота из шаблона.
type TemplateRepository interface {
	GetTemplate(ctx context.Context, id int64) (*models.Template, error)
}

// ChatbotService реализует операции над чат-ботами поверх хранилища,
// с кэшем карточек в Redis.
type ChatbotService struct {
	repo      ChatbotRepository
	plans     PlanRepository
	templates TemplateRepository
	cache     *cache.Cache
	log       *slog.Logger
}

// NewChatbotService создает новый экземпляр ChatbotService.
// Кэш опционален: при nil все чтения идут в хранилище.
func NewChatbotService(repo ChatbotRepository, plans PlanRepository, templates TemplateRepository,
	c *cache.Cache, log *slog.Logger) *ChatbotService {
	return &ChatbotService{
		repo:      repo,
		plans:     plans,
		templates: templates,
		cache:     c,
		log:       log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("chatbot:%d", id)
}

// CreateParams — параметры создания чат-бота.
type CreateParams struct {
	Name        string
	Description string
	Color       string
	TemplateID  *int64
}

// Create создает чат-бота после проверки квоты тарифного плана.
// При создании из шаблона копируются его потоки и настройки.
func (s *ChatbotService) Create(ctx context.Context, userID int64, params CreateParams) (*models.Chatbot, error) {
	const op = "services.chatbot.Create"

	sub, err := s.plans.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoSubscription
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.plans.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	count, err := s.repo.CountChatbotsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count >= plan.MaxChatbots {
		return nil, &models.QuotaError{Limit: plan.MaxChatbots}
	}

	bot := models.Chatbot{
		UserID:      userID,
		PublicKey:   uuid.New().String(),
		Name:        params.Name,
		Description: params.Description,
		Color:       params.Color,
	}
	if params.TemplateID != nil {
		tpl, err := s.templates.GetTemplate(ctx, *params.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		bot.Flows = tpl.Content.Flows
		bot.Settings = tpl.Content.Settings
	}
	created, err := s.repo.CreateChatbot(ctx, bot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// List возвращает чат-ботов владельца.
func (s *ChatbotService) List(ctx context.Context, userID int64) ([]*models.Chatbot, error) {
	return s.repo.ListChatbotsByUserID(ctx, userID)
}

// Get возвращает чат-бота владельцу. Чужой чат-бот отдает ErrNotOwner.
func (s *ChatbotService) Get(ctx context.Context, userID, id int64) (*models.Chatbot, error) {
	if s.cache != nil {
		var cached models.Chatbot
		found, err := s.cache.Get(cacheKey(id), &cached)
		if err != nil {
			s.log.Warn("cache lookup failed", sl.Err(err))
		}
		if found {
			if cached.UserID != userID {
				return nil, models.ErrNotOwner
			}
			return &cached, nil
		}
	}

	bot, err := s.repo.GetChatbot(ctx, id)
	if err != nil {
		return nil, err
	}
	if bot.UserID != userID {
		return nil, models.ErrNotOwner
	}
	if s.cache != nil {
		if err := s.cache.Set(cacheKey(id), bot, 5*time.Minute); err != nil {
			s.log.Warn("cache set failed", sl.Err(err))
		}
	}
	return bot, nil
}

// Update применяет частичное обновление после проверки владельца.
func (s *ChatbotService) Update(ctx context.Context, userID, id int64, patch models.ChatbotPatch) (*models.Chatbot, error) {
	bot, err := s.repo.GetChatbot(ctx, id)
	if err != nil {
		return nil, err
	}
	if bot.UserID != userID {
		return nil, models.ErrNotOwner
	}
	updated, err := s.repo.UpdateChatbot(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return updated, nil
}

// Delete удаляет чат-бота владельца и сообщает, существовала ли запись.
func (s *ChatbotService) Delete(ctx context.Context, userID, id int64) (bool, error) {
	bot, err := s.repo.GetChatbot(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if bot.UserID != userID {
		return false, models.ErrNotOwner
	}
	deleted, err := s.repo.DeleteChatbot(ctx, id)
	if err != nil {
		return false, err
	}
	s.invalidate(id)
	return deleted, nil
}

func (s *ChatbotService) invalidate(id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
}
