// Package services содержит планировщик напоминаний о продлении
// подписки: раз в сутки находит подписки с продлением на завтра
// и публикует уведомления в очередь.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/rabbitmq"
)

// Repository описывает контракт хранилища для планировщика.
type Repository interface {
	ListSubscriptionsRenewingOn(ctx context.Context, day time.Time) ([]*models.Subscription, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	GetSettingsByUserID(ctx context.Context, userID int64) (*models.Settings, error)
}

// SchedulerService публикует напоминания о завтрашних продлениях.
type SchedulerService struct {
	repo Repository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo Repository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// FindUpcomingRenewals запускает цикл поиска завтрашних продлений:
// сразу при старте и далее раз в сутки.
func (s *SchedulerService) FindUpcomingRenewals(ctx context.Context, channel *amqp.Channel) {
	s.runFindUpcomingRenewals(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindUpcomingRenewals(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindUpcomingRenewals(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find subscriptions renewing tomorrow")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	subscriptions, err := s.repo.ListSubscriptionsRenewingOn(ctx, tomorrow)
	if err != nil {
		s.log.Error("failed to find renewing subscriptions", sl.Err(err))
		return
	}
	if len(subscriptions) == 0 {
		s.log.Info("no renewing subscriptions found")
		return
	}
	s.log.Info("found renewing subscriptions", "count", len(subscriptions))

	for _, sub := range subscriptions {
		notice, err := s.buildNotice(ctx, sub)
		if err != nil {
			s.log.Error("failed to build renewal notice", "subscription_id", sub.ID, sl.Err(err))
			continue
		}
		if notice == nil {
			continue
		}
		if err := rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, rabbitmq.RenewalRoutingKey, notice); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// buildNotice собирает уведомление по подписке. Возвращает nil без
// ошибки, если пользователь отключил почтовые уведомления.
func (s *SchedulerService) buildNotice(ctx context.Context, sub *models.Subscription) (*models.RenewalNotice, error) {
	user, err := s.repo.GetUser(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	settings, err := s.repo.GetSettingsByUserID(ctx, sub.UserID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if settings != nil && !settings.Notifications.EmailNotifications {
		s.log.Info("email notifications disabled, skipping", "user_id", sub.UserID)
		return nil, nil
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	return &models.RenewalNotice{
		Email:       user.Email,
		Username:    user.Username,
		PlanName:    plan.Name,
		Price:       plan.Price,
		RenewalDate: sub.RenewalDate,
	}, nil
}
