package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/lib/password"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
	"github.com/magabrotheeeer/chatbot-dashboard/internal/storage/memory"
)

func createUser(t *testing.T, store *memory.Store, rawPassword string) int64 {
	t.Helper()
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	user, err := store.CreateUser(context.Background(), models.User{
		Username:     "alice",
		PasswordHash: hash,
		Email:        "alice@example.com",
		FullName:     "Alice",
	})
	require.NoError(t, err)
	return user.ID
}

func TestUpdate_IgnoresPasswordField(t *testing.T) {
	store := memory.New()
	svc := NewProfileService(store)
	ctx := context.Background()
	userID := createUser(t, store, "password123")

	sneaky := "plaintext"
	fullName := "Alice Cooper"
	updated, err := svc.Update(ctx, userID, models.UserPatch{
		FullName:     &fullName,
		PasswordHash: &sneaky,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)
	assert.NotEqual(t, "plaintext", updated.PasswordHash, "пароль меняется только через ChangePassword")
}

func TestChangePassword(t *testing.T) {
	store := memory.New()
	svc := NewProfileService(store)
	ctx := context.Background()
	userID := createUser(t, store, "old-password")

	err := svc.ChangePassword(ctx, userID, "wrong", "new-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, userID, "old-password", "new-password")
	require.NoError(t, err)

	user, err := store.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.NoError(t, password.CompareHash(user.PasswordHash, "new-password"))
	assert.Error(t, password.CompareHash(user.PasswordHash, "old-password"))
}
