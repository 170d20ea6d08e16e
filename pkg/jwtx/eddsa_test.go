package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	return signer
}

func TestEdDSASignVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, "test-key")

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifierEdDSA(keys, "mfabind")

	claims := jwtx.NewInteractionClaims("interaction-1", "user-1", "mfabind", time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "interaction-1", got.InteractionID())
	require.Equal(t, "user-1", got.UserID)
}

func TestEdDSAVerifyRejections(t *testing.T) {
	signer := newTestSigner(t, "test-key")

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	verifier := jwtx.NewVerifierEdDSA(keys, "mfabind")

	t.Run("garbage token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newTestSigner(t, "other-key")
		claims := jwtx.NewInteractionClaims("interaction-1", "user-1", "mfabind", time.Minute, time.Now())
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := jwtx.NewInteractionClaims("interaction-1", "user-1", "someone-else", time.Minute, time.Now())
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwtx.NewInteractionClaims("interaction-1", "user-1", "mfabind", time.Minute, time.Now().Add(-time.Hour))
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})
}

func TestKeySet(t *testing.T) {
	keys := jwtx.NewKeySet()
	require.False(t, keys.IsReady())

	signer := newTestSigner(t, "test-key")
	keys.AddSigner(signer)
	require.True(t, keys.IsReady())

	pub, err := keys.Get("test-key")
	require.NoError(t, err)
	require.Equal(t, signer.Public(), pub)

	_, err = keys.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}
