package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// CreateChatbot вставляет нового чат-бота и возвращает запись с присвоенным ID.
// Значения по умолчанию (статус draft, цвет primary) подставляет схема.
func (s *Storage) CreateChatbot(ctx context.Context, bot models.Chatbot) (*models.Chatbot, error) {
	const op = "storage.CreateChatbot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if bot.Status == "" {
		bot.Status = models.ChatbotDraft
	}
	if bot.Color == "" {
		bot.Color = "primary"
	}
	if bot.Flows == nil {
		bot.Flows = []models.Flow{}
	}
	if bot.Settings == nil {
		bot.Settings = map[string]any{}
	}

	appearance, err := marshalJSON(op, bot.Appearance)
	if err != nil {
		return nil, err
	}
	settings, err := marshalJSON(op, bot.Settings)
	if err != nil {
		return nil, err
	}
	aiSettings, err := marshalJSON(op, bot.AISettings)
	if err != nil {
		return nil, err
	}
	flows, err := marshalJSON(op, bot.Flows)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO chatbots (user_id, public_key, name, description, status, color,
			      appearance, settings, ai_settings, flows)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id, created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		bot.UserID, bot.PublicKey, bot.Name, bot.Description, bot.Status, bot.Color,
		appearance, settings, aiSettings, flows).Scan(&bot.ID, &bot.CreatedAt, &bot.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &bot, nil
}

func scanChatbot(op string, row interface{ Scan(...any) error }) (*models.Chatbot, error) {
	bot := &models.Chatbot{}
	var appearance, settings, aiSettings, flows []byte
	if err := row.Scan(&bot.ID, &bot.UserID, &bot.PublicKey, &bot.Name, &bot.Description,
		&bot.Status, &bot.Color, &appearance, &settings, &aiSettings, &flows,
		&bot.CreatedAt, &bot.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, appearance, &bot.Appearance); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, settings, &bot.Settings); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, aiSettings, &bot.AISettings); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, flows, &bot.Flows); err != nil {
		return nil, err
	}
	return bot, nil
}

const chatbotColumns = `id, user_id, public_key, name, description, status, color,
	appearance, settings, ai_settings, flows, created_at, updated_at`

// GetChatbot возвращает чат-бота по его ID.
func (s *Storage) GetChatbot(ctx context.Context, id int64) (*models.Chatbot, error) {
	const op = "storage.GetChatbot"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + chatbotColumns + ` FROM chatbots WHERE id = $1`
	bot, err := scanChatbot(op, s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return bot, nil
}

// GetChatbotByPublicKey возвращает чат-бота по публичному ключу виджета.
func (s *Storage) GetChatbotByPublicKey(ctx context.Context, key string) (*models.Chatbot, error) {
	const op = "storage.GetChatbotByPublicKey"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + chatbotColumns + ` FROM chatbots WHERE public_key = $1`
	bot, err := scanChatbot(op, s.DB.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return bot, nil
}

// ListChatbotsByUserID возвращает чат-ботов владельца в порядке создания.
func (s *Storage) ListChatbotsByUserID(ctx context.Context, userID int64) ([]*models.Chatbot, error) {
	const op = "storage.ListChatbotsByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + chatbotColumns + ` FROM chatbots WHERE user_id = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Chatbot
	for rows.Next() {
		bot, err := scanChatbot(op, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, bot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountChatbotsByUserID возвращает число чат-ботов владельца.
func (s *Storage) CountChatbotsByUserID(ctx context.Context, userID int64) (int, error) {
	const op = "storage.CountChatbotsByUserID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chatbots WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateChatbot применяет частичное обновление чат-бота.
// Колонки jsonb заменяются целиком.
func (s *Storage) UpdateChatbot(ctx context.Context, id int64, patch models.ChatbotPatch) (*models.Chatbot, error) {
	const op = "storage.UpdateChatbot"
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

	appearance, err := marshalOptional(patch.Appearance, patch.Appearance != nil)
	if err != nil {
		return nil, err
	}
	settings, err := marshalOptional(patch.Settings, patch.Settings != nil)
	if err != nil {
		return nil, err
	}
	aiSettings, err := marshalOptional(patch.AISettings, patch.AISettings != nil)
	if err != nil {
		return nil, err
	}
	flows, err := marshalOptional(patch.Flows, patch.Flows != nil)
	if err != nil {
		return nil, err
	}

	query := `UPDATE chatbots
			  SET name = COALESCE($1, name),
			      description = COALESCE($2, description),
			      status = COALESCE($3, status),
			      color = COALESCE($4, color),
			      appearance = COALESCE($5, appearance),
			      settings = COALESCE($6, settings),
			      ai_settings = COALESCE($7, ai_settings),
			      flows = COALESCE($8, flows),
			      updated_at = now()
			  WHERE id = $9
			  RETURNING ` + chatbotColumns
	bot, err := scanChatbot(op, s.DB.QueryRowContext(ctx, query,
		patch.Name, patch.Description, patch.Status, patch.Color,
		appearance, settings, aiSettings, flows, id))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return bot, nil
}

// DeleteChatbot удаляет чат-бота и сообщает, существовала ли запись.
func (s *Storage) DeleteChatbot(ctx context.Context, id int64) (bool, error) {
	const op = "storage.DeleteChatbot"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM chatbots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}
