package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/completion"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/storage/memory"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) GenerateChatResponse(ctx context.Context, messages []completion.Message, model string, temperature float64, maxTokens int) (string, error) {
	args := m.Called(ctx, messages, model, temperature, maxTokens)
	return args.String(0), args.Error(1)
}

func newTestService(t *testing.T, completer Completer) (*ConversationService, *memory.Store) {
	t.Helper()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewConversationService(store, store, completer, log), store
}

func createActiveChatbot(t *testing.T, store *memory.Store) *models.Chatbot {
	t.Helper()
	bot, err := store.CreateChatbot(context.Background(), models.Chatbot{
		UserID:      1,
		PublicKey:   "pk-1",
		Name:        "Support Bot",
		Description: "Answers support questions.",
		Status:      models.ChatbotActive,
		AISettings: models.AISettings{
			Model:   "gpt-4o",
			Persona: "Friendly and concise.",
		},
	})
	require.NoError(t, err)
	return bot
}

func TestRespond_NewConversation(t *testing.T) {
	completer := new(MockCompleter)
	svc, store := newTestService(t, completer)
	ctx := context.Background()
	createActiveChatbot(t, store)

	completer.On("GenerateChatResponse", mock.Anything, mock.MatchedBy(func(messages []completion.Message) bool {
		return len(messages) == 2 &&
			messages[0].Role == models.RoleSystem &&
			messages[0].Content == "You are a chatbot named Support Bot. Answers support questions. Friendly and concise." &&
			messages[1].Role == models.RoleUser &&
			messages[1].Content == "How do I reset my password?"
	}), "gpt-4o", 0.7, 512).Return("Click the reset link.", nil)

	result, err := svc.Respond(ctx, "pk-1", nil, "How do I reset my password?")
	require.NoError(t, err)
	assert.Equal(t, "Click the reset link.", result.Answer)

	conv, err := store.GetConversation(ctx, result.ConversationID)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, conv.Messages[1].Role)
	assert.Equal(t, "Click the reset link.", conv.Messages[1].Content)

	completer.AssertExpectations(t)
}

func TestRespond_ContinuesExistingConversation(t *testing.T) {
	completer := new(MockCompleter)
	svc, store := newTestService(t, completer)
	ctx := context.Background()
	createActiveChatbot(t, store)

	completer.On("GenerateChatResponse", mock.Anything, mock.Anything, "gpt-4o", 0.7, 512).
		Return("Sure.", nil)

	first, err := svc.Respond(ctx, "pk-1", nil, "Hello")
	require.NoError(t, err)

	second, err := svc.Respond(ctx, "pk-1", &first.ConversationID, "And another thing")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	conv, err := store.GetConversation(ctx, first.ConversationID)
	require.NoError(t, err)
	assert.Len(t, conv.Messages, 4, "обе пары реплик в одном журнале")
}

func TestRespond_InactiveChatbot(t *testing.T) {
	completer := new(MockCompleter)
	svc, store := newTestService(t, completer)
	ctx := context.Background()

	_, err := store.CreateChatbot(ctx, models.Chatbot{
		UserID: 1, PublicKey: "pk-draft", Name: "Draft Bot",
	})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "pk-draft", nil, "Hello")
	assert.ErrorIs(t, err, models.ErrChatbotInactive)

	_, err = svc.Respond(ctx, "unknown-key", nil, "Hello")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRespond_ProviderFailureKeepsUserMessage(t *testing.T) {
	completer := new(MockCompleter)
	svc, store := newTestService(t, completer)
	ctx := context.Background()
	createActiveChatbot(t, store)

	completer.On("GenerateChatResponse", mock.Anything, mock.Anything, "gpt-4o", 0.7, 512).
		Return("", errors.New("provider is down"))

	_, err := svc.Respond(ctx, "pk-1", nil, "Hello")
	assert.ErrorIs(t, err, models.ErrCompletionFailed)

	// Реплика посетителя записана до вызова провайдера и остается без ответа.
	conv, err := store.GetConversation(ctx, 1)
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)
}

func TestRespond_ForeignConversationID(t *testing.T) {
	completer := new(MockCompleter)
	svc, store := newTestService(t, completer)
	ctx := context.Background()
	createActiveChatbot(t, store)

	other, err := store.CreateChatbot(ctx, models.Chatbot{
		UserID: 2, PublicKey: "pk-2", Name: "Other", Status: models.ChatbotActive,
	})
	require.NoError(t, err)
	foreign, err := store.CreateConversation(ctx, models.Conversation{ChatbotID: other.ID})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "pk-1", &foreign.ID, "Hello")
	assert.ErrorIs(t, err, models.ErrNotFound, "диалог другого чат-бота недоступен")
}

func TestBuildSystemDirective(t *testing.T) {
	tests := []struct {
		name string
		bot  models.Chatbot
		want string
	}{
		{
			name: "полный набор полей",
			bot: models.Chatbot{
				Name:        "Helper",
				Description: "Guides visitors.",
				AISettings:  models.AISettings{Persona: "Cheerful."},
			},
			want: "You are a chatbot named Helper. Guides visitors. Cheerful.",
		},
		{
			name: "только имя",
			bot:  models.Chatbot{Name: "Helper"},
			want: "You are a chatbot named Helper.",
		},
		{
			name: "пустой чат-бот",
			bot:  models.Chatbot{},
			want: "You are a helpful AI assistant.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildSystemDirective(&tt.bot))
		})
	}
}

func TestGeneratePersona(t *testing.T) {
	completer := new(MockCompleter)
	svc, _ := newTestService(t, completer)

	completer.On("GenerateChatResponse", mock.Anything, mock.Anything, "", 0.7, 512).
		Return("A warm, patient helper.", nil)

	persona, err := svc.GeneratePersona(context.Background(), "Helper", "Guides visitors")
	require.NoError(t, err)
	assert.Equal(t, "A warm, patient helper.", persona)
}
