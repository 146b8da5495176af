package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	created, err := storage.CreateUser(ctx, models.User{
		Username:     "alice",
		PasswordHash: "hash",
		Email:        "alice@example.com",
		FullName:     "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "user", created.Role)

	got, err := storage.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	email := "new@example.com"
	updated, err := storage.UpdateUser(ctx, created.ID, models.UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Alice", updated.FullName)

	_, err = storage.GetUser(ctx, 99999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_PlansSeeded(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	plans, err := storage.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "basic", plans[0].ID)
	assert.Equal(t, 3, plans[0].MaxChatbots)
	require.Len(t, plans[0].Features, 6)

	templates, err := storage.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 4)
}

func TestStorage_Chatbots(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "bob")

	created, err := storage.CreateChatbot(ctx, models.Chatbot{
		UserID:    userID,
		PublicKey: "pk-1",
		Name:      "Support Bot",
		AISettings: models.AISettings{
			Model:       "gpt-4o",
			Temperature: 0.7,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ChatbotDraft, created.Status)
	assert.Equal(t, "primary", created.Color)

	got, err := storage.GetChatbotByPublicKey(ctx, "pk-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "gpt-4o", got.AISettings.Model)
	assert.InDelta(t, 0.7, got.AISettings.Temperature, 0.001)

	patch := models.ChatbotPatch{Appearance: &models.Appearance{PrimaryColor: "#00FF00"}}
	updated, err := storage.UpdateChatbot(ctx, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", updated.Appearance.PrimaryColor)
	assert.Empty(t, updated.Appearance.FontFamily)

	count, err := storage.CountChatbotsByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	ok, err := storage.DeleteChatbot(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.DeleteChatbot(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_Conversations(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "carol")
	chatbotID := factory.CreateChatbot(t, userID, "Bot")

	conv, err := storage.CreateConversation(ctx, models.Conversation{ChatbotID: chatbotID})
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)

	now := time.Now().UTC().Truncate(time.Second)
	conv, err = storage.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role: models.RoleUser, Content: "hello", Timestamp: now,
	})
	require.NoError(t, err)
	conv, err = storage.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role: models.RoleAssistant, Content: "hi", Timestamp: now,
	})
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)

	list, err := storage.ListConversationsByChatbotID(ctx, chatbotID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Messages, 2)
}

func TestStorage_SubscriptionsAndRenewals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "dave")

	renewal := time.Now().UTC().AddDate(0, 0, 1)
	factory.CreateSubscription(t, userID, "basic", renewal)

	sub, err := storage.GetSubscriptionByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "basic", sub.PlanID)

	due, err := storage.ListSubscriptionsRenewingOn(ctx, renewal)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, userID, due[0].UserID)

	plan := "pro"
	updated, err := storage.UpdateSubscription(ctx, sub.ID, models.SubscriptionPatch{PlanID: &plan})
	require.NoError(t, err)
	assert.Equal(t, "pro", updated.PlanID)
}

func TestStorage_Settings(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "erin")

	_, err := storage.GetSettingsByUserID(ctx, userID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	created, err := storage.CreateSettings(ctx, models.DefaultSettings(userID))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", created.API.DefaultModel)

	patch := models.SettingsPatch{
		Appearance: &models.AppearanceSettings{Theme: "dark", AccentColor: "#000000"},
	}
	updated, err := storage.UpdateSettingsByUserID(ctx, userID, patch)
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Appearance.Theme)
	assert.Equal(t, "gpt-4o", updated.API.DefaultModel)
}
