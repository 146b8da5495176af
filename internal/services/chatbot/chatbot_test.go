package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/storage/memory"
)

func newTestService(t *testing.T) (*ChatbotService, *memory.Store) {
	t.Helper()
	store := memory.New()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewChatbotService(store, store, store, nil, log), store
}

func registerUser(t *testing.T, store *memory.Store, username, planID string) int64 {
	t.Helper()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, models.User{Username: username, PasswordHash: "hash", Email: username + "@example.com"})
	require.NoError(t, err)
	start := time.Now().UTC()
	_, err = store.CreateSubscription(ctx, models.Subscription{
		UserID:      user.ID,
		PlanID:      planID,
		Status:      models.SubscriptionActive,
		StartDate:   start,
		RenewalDate: start.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	return user.ID
}

func TestCreate_AssignsPublicKeyAndDefaults(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerUser(t, store, "alice", "basic")

	bot, err := svc.Create(ctx, userID, CreateParams{Name: "Support Bot", Description: "Helps customers"})
	require.NoError(t, err)
	assert.NotEmpty(t, bot.PublicKey)
	assert.Equal(t, models.ChatbotDraft, bot.Status)
	assert.Equal(t, userID, bot.UserID)

	second, err := svc.Create(ctx, userID, CreateParams{Name: "Second"})
	require.NoError(t, err)
	assert.NotEqual(t, bot.PublicKey, second.PublicKey, "публичные ключи уникальны")
}

func TestCreate_QuotaExceeded(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerUser(t, store, "alice", "basic")

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, userID, CreateParams{Name: "Bot"})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, userID, CreateParams{Name: "One too many"})
	var quotaErr *models.QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.Limit, "квота тарифа basic — три чат-бота")
}

func TestCreate_NoSubscription(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	user, err := store.CreateUser(ctx, models.User{Username: "orphan", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, user.ID, CreateParams{Name: "Bot"})
	assert.ErrorIs(t, err, models.ErrNoSubscription)
}

func TestCreate_FromTemplate(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerUser(t, store, "alice", "pro")

	templates, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	templateID := templates[0].ID

	bot, err := svc.Create(ctx, userID, CreateParams{Name: "From template", TemplateID: &templateID})
	require.NoError(t, err)
	assert.Equal(t, templates[0].Content.Flows, bot.Flows)

	missing := int64(999)
	_, err = svc.Create(ctx, userID, CreateParams{Name: "Broken", TemplateID: &missing})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGet_Ownership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, store, "alice", "basic")
	stranger := registerUser(t, store, "bob", "basic")

	bot, err := svc.Create(ctx, owner, CreateParams{Name: "Bot"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.Equal(t, bot.ID, got.ID)

	_, err = svc.Get(ctx, stranger, bot.ID)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	_, err = svc.Get(ctx, owner, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdate_Ownership(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, store, "alice", "basic")
	stranger := registerUser(t, store, "bob", "basic")

	bot, err := svc.Create(ctx, owner, CreateParams{Name: "Bot"})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(ctx, owner, bot.ID, models.ChatbotPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = svc.Update(ctx, stranger, bot.ID, models.ChatbotPatch{Name: &name})
	assert.ErrorIs(t, err, models.ErrNotOwner)

	_, err = svc.Update(ctx, owner, 999, models.ChatbotPatch{Name: &name})
	assert.ErrorIs(t, err, models.ErrNotFound, "несуществующий чат-бот дает not found, а не запрет доступа")
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	owner := registerUser(t, store, "alice", "basic")
	stranger := registerUser(t, store, "bob", "basic")

	bot, err := svc.Create(ctx, owner, CreateParams{Name: "Bot"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, stranger, bot.ID)
	assert.ErrorIs(t, err, models.ErrNotOwner)

	deleted, err := svc.Delete(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, owner, bot.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "повторное удаление сообщает об отсутствии записи")
}
