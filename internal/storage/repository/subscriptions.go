package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает запись с присвоенным ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var endDate any
	if !sub.EndDate.IsZero() {
		endDate = sub.EndDate
	}
	query := `INSERT INTO subscriptions (user_id, plan_id, status, start_date, end_date, renewal_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.PlanID, sub.Status, sub.StartDate, endDate,
		sub.RenewalDate).Scan(&sub.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var endDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status,
		&sub.StartDate, &endDate, &sub.RenewalDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		sub.EndDate = endDate.Time
	}
	return sub, nil
}

// GetSubscriptionByUserID возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, status, start_date, end_date, renewal_date
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY id
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return sub, nil
}

// UpdateSubscription применяет частичное обновление подписки.
func (s *Storage) UpdateSubscription(ctx context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET plan_id = COALESCE($1, plan_id),
			      status = COALESCE($2, status),
			      start_date = COALESCE($3, start_date),
			      end_date = COALESCE($4, end_date),
			      renewal_date = COALESCE($5, renewal_date)
			  WHERE id = $6
			  RETURNING id, user_id, plan_id, status, start_date, end_date, renewal_date`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query,
		patch.PlanID, patch.Status, patch.StartDate, patch.EndDate, patch.RenewalDate, id))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return sub, nil
}

// ListSubscriptionsRenewingOn возвращает активные подписки,
// дата продления которых приходится на указанный день.
func (s *Storage) ListSubscriptionsRenewingOn(ctx context.Context, day time.Time) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsRenewingOn"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, status, start_date, end_date, renewal_date
			  FROM subscriptions
			  WHERE status = 'active' AND renewal_date::DATE = $1::DATE
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
