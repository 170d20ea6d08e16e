package mfabind_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
)

// TestStartInteractionRateLimited tightens the strict profile for one
// server instance and verifies the identify endpoint throttles by IP.
func TestStartInteractionRateLimited(t *testing.T) {
	ctx := context.Background()

	restore := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Burst:             3,
	}
	t.Cleanup(func() { httpx.StrictLimit = restore })

	ts := setupServer(t, domain.MfaSettings{Policy: domain.PolicyDisabled})

	for range 3 {
		_, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
		require.NoError(t, err)
	}

	_, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
	apiErr := assertAPIError(t, err, 429, "rate_limit_exceeded")
	require.NotEmpty(t, apiErr.Description)
}
