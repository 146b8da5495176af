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

func newTestScheduler() (*SchedulerService, *memory.Store) {
	store := memory.New()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSchedulerService(store, log), store
}

func seedSubscription(t *testing.T, store *memory.Store, username string, renewal time.Time) *models.Subscription {
	t.Helper()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, models.User{
		Username: username, PasswordHash: "hash", Email: username + "@example.com",
	})
	require.NoError(t, err)
	sub, err := store.CreateSubscription(ctx, models.Subscription{
		UserID: user.ID, PlanID: "pro", Status: models.SubscriptionActive,
		StartDate: renewal.AddDate(0, 0, -30), RenewalDate: renewal,
	})
	require.NoError(t, err)
	return sub
}

func TestBuildNotice(t *testing.T) {
	svc, store := newTestScheduler()
	renewal := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	sub := seedSubscription(t, store, "alice", renewal)

	notice, err := svc.buildNotice(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, "alice@example.com", notice.Email)
	assert.Equal(t, "alice", notice.Username)
	assert.Equal(t, "Professional", notice.PlanName)
	assert.Equal(t, 79, notice.Price)
	assert.Equal(t, renewal, notice.RenewalDate)
}

func TestBuildNotice_EmailNotificationsDisabled(t *testing.T) {
	svc, store := newTestScheduler()
	ctx := context.Background()
	sub := seedSubscription(t, store, "alice", time.Now().UTC().AddDate(0, 0, 1))

	settings := models.DefaultSettings(sub.UserID)
	settings.Notifications.EmailNotifications = false
	_, err := store.CreateSettings(ctx, settings)
	require.NoError(t, err)

	notice, err := svc.buildNotice(ctx, sub)
	require.NoError(t, err)
	assert.Nil(t, notice, "при выключенных уведомлениях письмо не отправляется")
}

func TestBuildNotice_NoSettingsMeansDefaultOn(t *testing.T) {
	svc, store := newTestScheduler()
	sub := seedSubscription(t, store, "alice", time.Now().UTC().AddDate(0, 0, 1))

	notice, err := svc.buildNotice(context.Background(), sub)
	require.NoError(t, err)
	assert.NotNil(t, notice, "отсутствие настроек трактуется как уведомления включены")
}
