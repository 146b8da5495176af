package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// CreateConversation вставляет новый диалог с пустым журналом сообщений.
func (s *Storage) CreateConversation(ctx context.Context, conv models.Conversation) (*models.Conversation, error) {
	const op = "storage.CreateConversation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if conv.Messages == nil {
		conv.Messages = []models.Message{}
	}
	if conv.Metadata == nil {
		conv.Metadata = map[string]any{}
	}
	messages, err := marshalJSON(op, conv.Messages)
	if err != nil {
		return nil, err
	}
	metadata, err := marshalJSON(op, conv.Metadata)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO conversations (chatbot_id, resolved, messages, metadata)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, started_at`
	if err := s.DB.QueryRowContext(ctx, query,
		conv.ChatbotID, conv.Resolved, messages, metadata).Scan(&conv.ID, &conv.StartedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &conv, nil
}

func scanConversation(op string, row interface{ Scan(...any) error }) (*models.Conversation, error) {
	conv := &models.Conversation{}
	var endedAt sql.NullTime
	var messages, metadata []byte
	if err := row.Scan(&conv.ID, &conv.ChatbotID, &conv.StartedAt, &endedAt,
		&conv.Resolved, &messages, &metadata); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		conv.EndedAt = &endedAt.Time
	}
	if err := unmarshalJSON(op, messages, &conv.Messages); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(op, metadata, &conv.Metadata); err != nil {
		return nil, err
	}
	return conv, nil
}

const conversationColumns = `id, chatbot_id, started_at, ended_at, resolved, messages, metadata`

// GetConversation возвращает диалог по его ID.
func (s *Storage) GetConversation(ctx context.Context, id int64) (*models.Conversation, error) {
	const op = "storage.GetConversation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	conv, err := scanConversation(op, s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return conv, nil
}

// ListConversationsByChatbotID возвращает диалоги чат-бота в порядке создания.
func (s *Storage) ListConversationsByChatbotID(ctx context.Context, chatbotID int64) ([]*models.Conversation, error) {
	const op = "storage.ListConversationsByChatbotID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE chatbot_id = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, chatbotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Conversation
	for rows.Next() {
		conv, err := scanConversation(op, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, conv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AppendConversationMessage дописывает сообщение в конец журнала диалога.
func (s *Storage) AppendConversationMessage(ctx context.Context, id int64, msg models.Message) (*models.Conversation, error) {
	const op = "storage.AppendConversationMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	encoded, err := marshalJSON(op, msg)
	if err != nil {
		return nil, err
	}
	query := `UPDATE conversations
			  SET messages = messages || $1::jsonb
			  WHERE id = $2
			  RETURNING ` + conversationColumns
	conv, err := scanConversation(op, s.DB.QueryRowContext(ctx, query, encoded, id))
	if err != nil {
		return nil, wrapNotFound(op, err)
	}
	return conv, nil
}
