package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

func TestStore_CreateGetUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, models.User{
		Username:     "alice",
		PasswordHash: "hash",
		Email:        "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "user", created.Role)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_UpdateUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, models.User{Username: "alice", Email: "old@example.com", FullName: "Alice"})
	require.NoError(t, err)

	email := "new@example.com"
	updated, err := s.UpdateUser(ctx, created.ID, models.UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Alice", updated.FullName, "поля вне патча не меняются")

	_, err = s.UpdateUser(ctx, 42, models.UserPatch{Email: &email})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_PlansSeeded(t *testing.T) {
	s := New()
	ctx := context.Background()

	plans, err := s.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"basic", "pro", "enterprise"}, []string{plans[0].ID, plans[1].ID, plans[2].ID})
	assert.Equal(t, 3, plans[0].MaxChatbots)
	assert.Equal(t, 10, plans[1].MaxChatbots)
	assert.Equal(t, 50, plans[2].MaxChatbots)

	pro, err := s.GetPlan(ctx, "pro")
	require.NoError(t, err)
	assert.Equal(t, 79, pro.Price)

	_, err = s.GetPlan(ctx, "ultimate")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_TemplatesSeeded(t *testing.T) {
	s := New()
	ctx := context.Background()

	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 4)

	first, err := s.GetTemplate(ctx, templates[0].ID)
	require.NoError(t, err)
	assert.Equal(t, templates[0].Name, first.Name)
}

func TestStore_Subscriptions(t *testing.T) {
	s := New()
	ctx := context.Background()

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := s.CreateSubscription(ctx, models.Subscription{
		UserID:      7,
		PlanID:      "basic",
		Status:      models.SubscriptionActive,
		StartDate:   start,
		RenewalDate: start.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := s.GetSubscriptionByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "basic", got.PlanID)

	plan := "pro"
	updated, err := s.UpdateSubscription(ctx, created.ID, models.SubscriptionPatch{PlanID: &plan})
	require.NoError(t, err)
	assert.Equal(t, "pro", updated.PlanID)
	assert.Equal(t, models.SubscriptionActive, updated.Status)

	_, err = s.GetSubscriptionByUserID(ctx, 8)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_ListSubscriptionsRenewingOn(t *testing.T) {
	s := New()
	ctx := context.Background()

	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.CreateSubscription(ctx, models.Subscription{
		UserID: 1, PlanID: "basic", Status: models.SubscriptionActive, RenewalDate: day,
	})
	require.NoError(t, err)
	_, err = s.CreateSubscription(ctx, models.Subscription{
		UserID: 2, PlanID: "pro", Status: models.SubscriptionCanceled, RenewalDate: day,
	})
	require.NoError(t, err)
	_, err = s.CreateSubscription(ctx, models.Subscription{
		UserID: 3, PlanID: "pro", Status: models.SubscriptionActive, RenewalDate: day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	due, err := s.ListSubscriptionsRenewingOn(ctx, day.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, int64(1), due[0].UserID)
}

func TestStore_ChatbotDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-1", Name: "Support Bot"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, models.ChatbotDraft, created.Status)
	assert.Equal(t, "primary", created.Color)
	assert.NotNil(t, created.Flows)
	assert.NotNil(t, created.Settings)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestStore_ChatbotLookups(t *testing.T) {
	s := New()
	ctx := context.Background()

	b1, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-1", Name: "First"})
	require.NoError(t, err)
	_, err = s.CreateChatbot(ctx, models.Chatbot{UserID: 2, PublicKey: "pk-2", Name: "Other"})
	require.NoError(t, err)
	b3, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-3", Name: "Second"})
	require.NoError(t, err)

	list, err := s.ListChatbotsByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b1.ID, list[0].ID, "порядок создания сохраняется")
	assert.Equal(t, b3.ID, list[1].ID)

	count, err := s.CountChatbotsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	byKey, err := s.GetChatbotByPublicKey(ctx, "pk-3")
	require.NoError(t, err)
	assert.Equal(t, b3.ID, byKey.ID)

	_, err = s.GetChatbotByPublicKey(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_UpdateChatbotReplacesNestedObjects(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateChatbot(ctx, models.Chatbot{
		UserID:    1,
		PublicKey: "pk-1",
		Name:      "Bot",
		Appearance: models.Appearance{
			PrimaryColor: "#FF0000",
			FontFamily:   "Inter",
			Position:     "bottom-right",
		},
	})
	require.NoError(t, err)

	patch := models.ChatbotPatch{Appearance: &models.Appearance{PrimaryColor: "#00FF00"}}
	updated, err := s.UpdateChatbot(ctx, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", updated.Appearance.PrimaryColor)
	assert.Empty(t, updated.Appearance.FontFamily, "вложенный объект заменяется целиком, а не сливается")
	assert.Empty(t, updated.Appearance.Position)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt) || updated.UpdatedAt.Equal(created.CreatedAt))

	name := "Renamed"
	updated, err = s.UpdateChatbot(ctx, created.ID, models.ChatbotPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "#00FF00", updated.Appearance.PrimaryColor, "не указанные в патче поля не трогаются")
}

func TestStore_DeleteChatbot(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-1", Name: "Bot"})
	require.NoError(t, err)

	ok, err := s.DeleteChatbot(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetChatbot(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	ok, err = s.DeleteChatbot(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok, "повторное удаление сообщает об отсутствии записи")
}

func TestStore_IDsNotReusedAfterDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-1", Name: "First"})
	require.NoError(t, err)

	_, err = s.DeleteChatbot(ctx, first.ID)
	require.NoError(t, err)

	second, err := s.CreateChatbot(ctx, models.Chatbot{UserID: 1, PublicKey: "pk-2", Name: "Second"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID, "идентификаторы монотонны и не переиспользуются")
}

func TestStore_Conversations(t *testing.T) {
	s := New()
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, models.Conversation{ChatbotID: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), conv.ID)
	assert.NotNil(t, conv.Messages)
	assert.Empty(t, conv.Messages)
	assert.False(t, conv.StartedAt.IsZero())

	now := time.Now().UTC()
	conv, err = s.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role: models.RoleUser, Content: "hello", Timestamp: now,
	})
	require.NoError(t, err)
	conv, err = s.AppendConversationMessage(ctx, conv.ID, models.Message{
		Role: models.RoleAssistant, Content: "hi there", Timestamp: now,
	})
	require.NoError(t, err)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, models.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, conv.Messages[1].Role)

	list, err := s.ListConversationsByChatbotID(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Messages, 2)

	_, err = s.AppendConversationMessage(ctx, 404, models.Message{Role: models.RoleUser, Content: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_Settings(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetSettingsByUserID(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	created, err := s.CreateSettings(ctx, models.DefaultSettings(1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "gpt-4o", created.API.DefaultModel)
	assert.Equal(t, 60, created.API.RateLimit)
	assert.Equal(t, "light", created.Appearance.Theme)

	patch := models.SettingsPatch{
		Appearance: &models.AppearanceSettings{Theme: "dark", AccentColor: "#000000"},
	}
	updated, err := s.UpdateSettingsByUserID(ctx, 1, patch)
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Appearance.Theme)
	assert.False(t, updated.Appearance.SidebarCollapsed, "секция заменяется целиком")
	assert.Equal(t, "gpt-4o", updated.API.DefaultModel, "другие секции не затронуты")

	_, err = s.UpdateSettingsByUserID(ctx, 99, patch)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
