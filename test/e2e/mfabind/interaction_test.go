package mfabind_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
)

func TestStartInteraction(t *testing.T) {
	ctx := context.Background()
	ts := setupServer(t, domain.MfaSettings{Policy: domain.PolicyDisabled})

	t.Run("valid credentials open an interaction", func(t *testing.T) {
		session, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, session.Token())
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		_, err := ts.Client.StartInteraction(ctx, testUsername, "WrongPassword!")
		assertAPIError(t, err, 401, mfasdk.ErrorCodeInvalidCredentials)
	})

	t.Run("unknown user is rejected identically", func(t *testing.T) {
		_, err := ts.Client.StartInteraction(ctx, "nobody", testPassword)
		assertAPIError(t, err, 401, mfasdk.ErrorCodeInvalidCredentials)
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		_, err := ts.Client.StartInteraction(ctx, "", "")
		assertAPIError(t, err, 400, mfasdk.ErrorCodeInvalidRequest)
	})
}

func TestInteractionTokenEnforcement(t *testing.T) {
	ctx := context.Background()
	ts := setupServer(t, domain.MfaSettings{Policy: domain.PolicyDisabled})

	t.Run("requests without a token are unauthorized", func(t *testing.T) {
		session := ts.Client.SessionFromToken("")
		_, err := session.MfaSummary(ctx)
		assertAPIError(t, err, 401, mfasdk.ErrorCodeInvalidToken)
	})

	t.Run("garbage tokens are unauthorized", func(t *testing.T) {
		session := ts.Client.SessionFromToken("not-a-jwt")
		_, err := session.MfaSummary(ctx)
		assertAPIError(t, err, 401, mfasdk.ErrorCodeInvalidToken)
	})

	t.Run("tokens from another service instance are unauthorized", func(t *testing.T) {
		other := setupServer(t, domain.MfaSettings{Policy: domain.PolicyDisabled})
		foreign, err := other.Client.StartInteraction(ctx, testUsername, testPassword)
		require.NoError(t, err)

		session := ts.Client.SessionFromToken(foreign.Token())
		_, err = session.MfaSummary(ctx)
		assertAPIError(t, err, 401, mfasdk.ErrorCodeInvalidToken)
	})

	t.Run("a consumed interaction is gone", func(t *testing.T) {
		session, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
		require.NoError(t, err)

		_, err = session.Submit(ctx)
		require.NoError(t, err)

		_, err = session.MfaSummary(ctx)
		assertAPIError(t, err, 404, mfasdk.ErrorCodeInteractionNotFound)
	})
}
