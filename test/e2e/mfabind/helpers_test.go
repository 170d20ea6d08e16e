package mfabind_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/app"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	mfahttp "github.com/aussiebroadwan/mfabind/internal/mfabind/http"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store/drivers/sqlite"
	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
)

/*
 * Common constants and helper functions for the MFA binding service
 * end-to-end tests. Each test wires a full Router over an in-memory
 * database and talks to it through the SDK client, the same way a real
 * sign-in experience would.
 */

const (
	testIssuer   = "mfabind-test"
	testUsername = "alice"
	testPassword = "Password123!"
)

// TestMain relaxes the rate limit profiles so rapid test requests don't
// trip the production limits, and installs a shared pepper file for
// password hashing.
func TestMain(m *testing.M) {
	relaxed := httpx.RateLimitConfig{
		RequestsPerWindow: 1000,
		Window:            time.Minute,
		Burst:             1000,
	}
	httpx.StrictLimit = relaxed
	httpx.ModerateLimit = relaxed
	httpx.LenientLimit = relaxed

	dir, err := os.MkdirTemp("", "mfabind-e2e")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pepper dir: %v\n", err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	if err := cryptox.ReloadPepper(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load pepper: %v\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	_ = os.RemoveAll(dir)
	os.Exit(exitCode)
}

// testServer is one fully wired service instance backed by an in-memory
// database.
type testServer struct {
	Client *mfasdk.Client
	Store  store.Store
}

// setupServer wires the router over a fresh in-memory database with the
// given MFA settings and a single seeded user. The returned client is
// pointed at an httptest server that is torn down with the test.
func setupServer(t *testing.T, settings domain.MfaSettings) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	ctx := context.Background()

	policy := &service.SignInExperienceService{Store: st}
	require.NoError(t, policy.UpdateMfaSettings(ctx, settings))

	seedUser(t, st, testUsername, testPassword)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	keys, signer, verifier, err := app.InitInteractionKeys(testIssuer, logger)
	require.NoError(t, err)

	router := mfahttp.NewRouter(keys, signer, verifier, testIssuer, "e2e", st, logger)
	router.InteractionService = &service.InteractionService{
		Store:  st,
		Policy: policy,
		TTL:    service.DefaultInteractionTTL,
	}
	router.VerificationService = &service.VerificationService{Issuer: testIssuer}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{
		Client: mfasdk.NewClient(server.URL),
		Store:  st,
	}
}

// seedUser inserts a user with a hashed password.
func seedUser(t *testing.T, st store.Store, username, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

// totpCode computes the current code for a challenge secret, standing in
// for the user's authenticator app.
func totpCode(t *testing.T, secret string) string {
	t.Helper()

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// fetchUser reloads the seeded user from the store for assertions on
// persisted state.
func fetchUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	user, err := st.Users().GetUserByUsername(context.Background(), username)
	require.NoError(t, err)
	return user
}

// assertAPIError asserts an SDK error is an APIError with the given
// status and machine code, and returns it for payload assertions.
func assertAPIError(t *testing.T, err error, statusCode int, code string) *mfasdk.APIError {
	t.Helper()

	require.Error(t, err)
	var apiErr *mfasdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got: %v", err)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

// enrollTotp drives a full TOTP challenge through verification and returns
// the verification id ready for binding.
func enrollTotp(t *testing.T, session *mfasdk.Session) string {
	t.Helper()
	ctx := context.Background()

	challenge, err := session.RequestTotpChallenge(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, challenge.VerificationID)
	require.NotEmpty(t, challenge.Secret)

	verified, err := session.VerifyTotp(ctx, challenge.VerificationID, totpCode(t, challenge.Secret))
	require.NoError(t, err)
	require.True(t, verified.Verified)

	return challenge.VerificationID
}
