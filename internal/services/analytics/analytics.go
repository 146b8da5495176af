// Package services считает сводную статистику по чат-ботам
// пользователя для дашборда и страницы аналитики.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Repository описывает контракт хранилища для расчета статистики.
type Repository interface {
	ListChatbotsByUserID(ctx context.Context, userID int64) ([]*models.Chatbot, error)
	ListConversationsByChatbotID(ctx context.Context, chatbotID int64) ([]*models.Conversation, error)
	GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// AnalyticsService считает метрики по данным хранилища.
type AnalyticsService struct {
	repo Repository
}

// NewAnalyticsService создает новый экземпляр AnalyticsService.
func NewAnalyticsService(repo Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Overview — сводные метрики по всем чат-ботам пользователя.
type Overview struct {
	TotalChatbots         int     `json:"totalChatbots"`
	ActiveChatbots        int     `json:"activeChatbots"`
	TotalConversations    int     `json:"totalConversations"`
	ResolvedConversations int     `json:"resolvedConversations"`
	TotalMessages         int     `json:"totalMessages"`
	ResolutionRate        float64 `json:"resolutionRate"`
}

// GetOverview считает метрики по чат-ботам и диалогам пользователя.
func (s *AnalyticsService) GetOverview(ctx context.Context, userID int64) (*Overview, error) {
	const op = "services.analytics.GetOverview"

	bots, err := s.repo.ListChatbotsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	overview := &Overview{TotalChatbots: len(bots)}
	for _, bot := range bots {
		if bot.Status == models.ChatbotActive {
			overview.ActiveChatbots++
		}
		conversations, err := s.repo.ListConversationsByChatbotID(ctx, bot.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		overview.TotalConversations += len(conversations)
		for _, conv := range conversations {
			if conv.Resolved {
				overview.ResolvedConversations++
			}
			overview.TotalMessages += len(conv.Messages)
		}
	}
	if overview.TotalConversations > 0 {
		overview.ResolutionRate = float64(overview.ResolvedConversations) / float64(overview.TotalConversations)
	}
	return overview, nil
}

// Dashboard — данные главной страницы: чат-боты, метрики и тариф.
type Dashboard struct {
	Chatbots     []*models.Chatbot    `json:"chatbots"`
	Stats        *Overview            `json:"stats"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Plan         *models.Plan         `json:"plan,omitempty"`
}

// GetDashboard собирает данные главной страницы пользователя.
func (s *AnalyticsService) GetDashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	const op = "services.analytics.GetDashboard"

	bots, err := s.repo.ListChatbotsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats, err := s.GetOverview(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dashboard := &Dashboard{Chatbots: bots, Stats: stats}
	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return dashboard, nil
	}
	dashboard.Subscription = sub
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dashboard.Plan = plan
	return dashboard, nil
}
