// Package services содержит логику тарификации: сводка по подписке
// и смена тарифного плана.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// Repository описывает контракт хранилища для операций тарификации.
type Repository interface {
	GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, id string) (*models.Plan, error)
}

// BillingService реализует операции над подпиской пользователя.
type BillingService struct {
	repo Repository
}

// NewBillingService создает новый экземпляр BillingService.
func NewBillingService(repo Repository) *BillingService {
	return &BillingService{repo: repo}
}

// Info — сводка по тарификации пользователя.
type Info struct {
	Subscription *models.Subscription `json:"subscription"`
	Plan         *models.Plan         `json:"plan"`
	Plans        []models.Plan        `json:"plans"`
}

// GetInfo возвращает подписку пользователя, его тариф и справочник тарифов.
func (s *BillingService) GetInfo(ctx context.Context, userID int64) (*Info, error) {
	const op = "services.billing.GetInfo"

	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoSubscription
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.repo.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Info{Subscription: sub, Plan: plan, Plans: plans}, nil
}

// Upgrade переводит подписку пользователя на другой тариф.
// Оплаченный период начинается заново: начало — сейчас,
// продление — через месяц.
func (s *BillingService) Upgrade(ctx context.Context, userID int64, planID string) (*models.Subscription, error) {
	const op = "services.billing.Upgrade"

	if _, err := s.repo.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	sub, err := s.repo.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoSubscription
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	renewal := now.AddDate(0, 1, 0)
	status := models.SubscriptionActive
	updated, err := s.repo.UpdateSubscription(ctx, sub.ID, models.SubscriptionPatch{
		PlanID:      &planID,
		Status:      &status,
		StartDate:   &now,
		RenewalDate: &renewal,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
