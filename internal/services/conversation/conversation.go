// Package services содержит логику обработки хода диалога: прием
// сообщения посетителя через публичный ключ виджета, вызов провайдера
// генерации и запись обеих реплик в журнал диалога.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/completion"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// ChatbotRepository отдает чат-бота по публичному ключу виджета.
type ChatbotRepository interface {
	GetChatbotByPublicKey(ctx context.Context, key string) (*models.Chatbot, error)
}

// ConversationRepository описывает контракт хранилища диалогов.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv models.Conversation) (*models.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*models.Conversation, error)
	AppendConversationMessage(ctx context.Context, id int64, msg models.Message) (*models.Conversation, error)
}

// Completer — клиент провайдера генерации ответов.
type Completer interface {
	GenerateChatResponse(ctx context.Context, messages []completion.Message, model string, temperature float64, maxTokens int) (string, error)
}

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 512
)

// ConversationService реализует обработку одного хода диалога с виджетом.
type ConversationService struct {
	chatbots      ChatbotRepository
	conversations ConversationRepository
	completer     Completer
	log           *slog.Logger
}

// NewConversationService создает новый экземпляр ConversationService.
func NewConversationService(chatbots ChatbotRepository, conversations ConversationRepository,
	completer Completer, log *slog.Logger) *ConversationService {
	return &ConversationService{
		chatbots:      chatbots,
		conversations: conversations,
		completer:     completer,
		log:           log,
	}
}

// RespondResult — результат обработки хода диалога.
type RespondResult struct {
	ConversationID int64
	Answer         string
}

// Respond обрабатывает один ход диалога: находит чат-бота по публичному
// ключу, при необходимости открывает новый диалог, записывает реплику
// посетителя, получает ответ провайдера и записывает его.
//
// Реплика посетителя пишется до вызова провайдера: при сбое генерации
// она остается в журнале без ответа.
func (s *ConversationService) Respond(ctx context.Context, publicKey string, conversationID *int64, userMessage string) (*RespondResult, error) {
	const op = "services.conversation.Respond"

	bot, err := s.chatbots.GetChatbotByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	if bot.Status != models.ChatbotActive {
		return nil, models.ErrChatbotInactive
	}

	var conv *models.Conversation
	if conversationID != nil {
		conv, err = s.conversations.GetConversation(ctx, *conversationID)
		if err != nil {
			return nil, err
		}
		if conv.ChatbotID != bot.ID {
			return nil, models.ErrNotFound
		}
	} else {
		conv, err = s.conversations.CreateConversation(ctx, models.Conversation{ChatbotID: bot.ID})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	conv, err = s.conversations.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role:      models.RoleUser,
		Content:   userMessage,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	messages := make([]completion.Message, 0, len(conv.Messages)+1)
	messages = append(messages, completion.Message{
		Role:    models.RoleSystem,
		Content: BuildSystemDirective(bot),
	})
	for _, m := range conv.Messages {
		messages = append(messages, completion.Message{Role: m.Role, Content: m.Content})
	}

	temperature := bot.AISettings.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := bot.AISettings.MaxResponseLength
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	answer, err := s.completer.GenerateChatResponse(ctx, messages, bot.AISettings.Model, temperature, maxTokens)
	if err != nil {
		s.log.Error("completion provider failed", sl.Err(err))
		return nil, errors.Join(models.ErrCompletionFailed, err)
	}

	if _, err = s.conversations.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role:      models.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RespondResult{ConversationID: conv.ID, Answer: answer}, nil
}

// BuildSystemDirective собирает системную инструкцию для провайдера
// из имени, описания и персоны чат-бота. При их отсутствии возвращает
// нейтральную инструкцию.
func BuildSystemDirective(bot *models.Chatbot) string {
	var parts []string
	if bot.Name != "" {
		parts = append(parts, fmt.Sprintf("You are a chatbot named %s.", bot.Name))
	}
	if bot.Description != "" {
		parts = append(parts, bot.Description)
	}
	if bot.AISettings.Persona != "" {
		parts = append(parts, bot.AISettings.Persona)
	}
	if len(parts) == 0 {
		return "You are a helpful AI assistant."
	}
	return strings.Join(parts, " ")
}

// GeneratePersona просит провайдера сочинить персону чат-бота
// по его имени и описанию.
func (s *ConversationService) GeneratePersona(ctx context.Context, name, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a short persona for a chatbot named %q. Description: %s. "+
			"Respond with two or three sentences describing the tone and manner of the assistant.",
		name, description)
	persona, err := s.completer.GenerateChatResponse(ctx, []completion.Message{
		{Role: models.RoleSystem, Content: "You craft chatbot personas."},
		{Role: models.RoleUser, Content: prompt},
	}, "", defaultTemperature, defaultMaxTokens)
	if err != nil {
		s.log.Error("persona generation failed", sl.Err(err))
		return "", errors.Join(models.ErrCompletionFailed, err)
	}
	return persona, nil
}
