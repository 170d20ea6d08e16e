package sqlite

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestUser(username string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "argon2:dummy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("create and fetch by id and username", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		byID, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.Username, byID.Username)
		require.Empty(t, byID.MfaVerifications)

		byName, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, user.ID, byName.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		st := newTestStore(t)

		_, err := st.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username maps to ErrAlreadyExists", func(t *testing.T) {
		st := newTestStore(t)
		require.NoError(t, st.Users().CreateUser(ctx, newTestUser("alice")))

		err := st.Users().CreateUser(ctx, newTestUser("alice"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("mfa verifications round-trip", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		usedAt := time.Now().UTC().Truncate(time.Millisecond)
		verifications := []domain.MfaVerification{
			{ID: idx.New().String(), Type: domain.FactorTotp, CreatedAt: usedAt, Key: "secret"},
			{ID: idx.New().String(), Type: domain.FactorBackupCode, CreatedAt: usedAt, Codes: []domain.BackupCodeEntry{
				{Code: "a"},
				{Code: "b", UsedAt: &usedAt},
			}},
		}
		require.NoError(t, st.Users().UpdateMfaVerifications(ctx, user.ID, verifications))

		loaded, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, loaded.MfaVerifications, 2)
		require.Equal(t, "secret", loaded.MfaVerifications[0].Key)
		require.Len(t, loaded.MfaVerifications[1].Codes, 2)
		require.Nil(t, loaded.MfaVerifications[1].Codes[0].UsedAt)
		require.NotNil(t, loaded.MfaVerifications[1].Codes[1].UsedAt)
	})

	t.Run("config update preserves raw json", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		require.NoError(t, st.Users().UpdateConfig(ctx, user.ID, []byte(`{"mfa":{"skipped":true},"theme":"dark"}`)))

		loaded, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.True(t, domain.MfaSkipped(loaded.Config))

		var config map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(loaded.Config, &config))
		require.Contains(t, config, "theme")
	})

	t.Run("delete removes the user", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		require.NoError(t, st.Users().DeleteUser(ctx, user.ID))

		_, err := st.Users().GetUserByID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestInteractionsRepo(t *testing.T) {
	ctx := context.Background()

	newInteraction := func(userID string, ttl time.Duration) domain.Interaction {
		now := time.Now().UTC()
		return domain.Interaction{
			ID:        idx.New().String(),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
	}

	t.Run("create and fetch round-trips binding state", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		interaction := newInteraction(user.ID, time.Minute)
		interaction.BindingState.Totp = &domain.BindTotp{Secret: "secret"}
		interaction.VerificationRecords = []domain.VerificationRecord{
			{ID: idx.New().String(), Type: domain.VerificationTotp, Secret: "secret", Verified: true, CreatedAt: time.Now().UTC()},
		}
		require.NoError(t, st.Interactions().CreateInteraction(ctx, interaction))

		loaded, err := st.Interactions().GetInteraction(ctx, interaction.ID)
		require.NoError(t, err)
		require.Equal(t, user.ID, loaded.UserID)
		require.NotNil(t, loaded.BindingState.Totp)
		require.Equal(t, "secret", loaded.BindingState.Totp.Secret)
		require.Len(t, loaded.VerificationRecords, 1)
		require.True(t, loaded.VerificationRecords[0].Verified)
	})

	t.Run("expired interactions are invisible", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		expired := newInteraction(user.ID, -time.Minute)
		require.NoError(t, st.Interactions().CreateInteraction(ctx, expired))

		_, err := st.Interactions().GetInteraction(ctx, expired.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update replaces state", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		interaction := newInteraction(user.ID, time.Minute)
		require.NoError(t, st.Interactions().CreateInteraction(ctx, interaction))

		skipped := true
		interaction.BindingState.Skipped = &skipped
		require.NoError(t, st.Interactions().UpdateInteraction(ctx, interaction))

		loaded, err := st.Interactions().GetInteraction(ctx, interaction.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded.BindingState.Skipped)
		require.True(t, *loaded.BindingState.Skipped)
	})

	t.Run("delete expired removes only expired rows", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")
		require.NoError(t, st.Users().CreateUser(ctx, user))

		expired := newInteraction(user.ID, -time.Minute)
		live := newInteraction(user.ID, time.Minute)
		require.NoError(t, st.Interactions().CreateInteraction(ctx, expired))
		require.NoError(t, st.Interactions().CreateInteraction(ctx, live))

		require.NoError(t, st.Interactions().DeleteExpiredInteractions(ctx))

		_, err := st.Interactions().GetInteraction(ctx, live.ID)
		require.NoError(t, err)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, user)
		})
		require.NoError(t, err)

		_, err = st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		st := newTestStore(t)
		user := newTestUser("alice")

		wantErr := store.ErrAlreadyExists
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return err
			}
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)

		_, err = st.Users().GetUserByID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
