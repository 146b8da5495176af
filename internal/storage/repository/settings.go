package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// CreateSettings сохраняет настройки пользователя.
func (s *Storage) CreateSettings(ctx context.Context, st models.Settings) (*models.Settings, error) {
	const op = "storage.CreateSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	api, err := marshalJSON(op, st.API)
	if err != nil {
		return nil, err
	}
	notifications, err := marshalJSON(op, st.Notifications)
	if err != nil {
		return nil, err
	}
	appearance, err := marshalJSON(op, st.Appearance)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO user_settings (user_id, api, notifications, appearance)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		st.UserID, api, notifications, appearance).Scan(&st.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}

func scanSettings(op string, row interface{ Scan(...any) error }) (*models.Settings, error) {
	st := &models.Settings{}
	var api, notifications, appearance []byte
	if err := row.Scan(&st.ID, &st.UserID, &api, &notifications, &appearance); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, api, &st.API); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, notifications, &st.Notifications); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, appearance, &st.Appearance); err != nil {
		return nil, err
	}
	return st, nil
}

// GetSettingsByUserID возвращает настройки пользователя.
func (s *Storage) GetSettingsByUserID(ctx context.Context, userID int64) (*models.Settings, error) {
	const op = "storage.GetSettingsByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, api, notifications, appearance
			  FROM user_settings
			  WHERE user_id = $1`
	st, err := scanSettings(op, s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return st, nil
}

// UpdateSettingsByUserID заменяет указанные секции настроек целиком.
func (s *Storage) UpdateSettingsByUserID(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.Settings, error) {
	const op = "storage.UpdateSettingsByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	marshalOptional := func(v any, set bool) (any, error) {
		if !set {
			return nil, nil
		}
		return marshalJSON(op, v)
	}
	api, err := marshalOptional(patch.API, patch.API != nil)
	if err != nil {
		return nil, err
	}
	notifications, err := marshalOptional(patch.Notifications, patch.Notifications != nil)
	if err != nil {
		return nil, err
	}
	appearance, err := marshalOptional(patch.Appearance, patch.Appearance != nil)
	if err != nil {
		return nil, err
	}

	query := `UPDATE user_settings
			  SET api = COALESCE($1, api),
			      notifications = COALESCE($2, notifications),
			      appearance = COALESCE($3, appearance)
			  WHERE user_id = $4
			  RETURNING id, user_id, api, notifications, appearance`
	st, err := scanSettings(op, s.DB.QueryRowContext(ctx, query, api, notifications, appearance, userID))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return st, nil
}
