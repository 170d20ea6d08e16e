package mfabind_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
)

func allFactorSettings(policy domain.MfaPolicy) domain.MfaSettings {
	return domain.MfaSettings{
		Policy:  policy,
		Factors: []domain.FactorKind{domain.FactorTotp, domain.FactorWebAuthn, domain.FactorBackupCode},
	}
}

func TestBackupCodesFlow(t *testing.T) {
	ctx := context.Background()
	ts := setupServer(t, allFactorSettings(domain.PolicyUserControlled))

	session, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
	require.NoError(t, err)

	t.Run("backup codes cannot be the only factor", func(t *testing.T) {
		_, err := session.GenerateBackupCodes(ctx)
		assertAPIError(t, err, 422, mfasdk.ErrorCodeBackupCodeAlone)
	})

	require.NoError(t, session.BindTotp(ctx, enrollTotp(t, session)))

	t.Run("confirming before generating is an error", func(t *testing.T) {
		err := session.ConfirmBackupCodes(ctx)
		assertAPIError(t, err, 404, mfasdk.ErrorCodePendingInfoNotFound)
	})

	codes, err := session.GenerateBackupCodes(ctx)
	require.NoError(t, err)
	require.Len(t, codes.Codes, 10)

	t.Run("generated codes are not staged until confirmed", func(t *testing.T) {
		summary, err := session.MfaSummary(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Totp"}, summary.PendingFactors)
	})

	require.NoError(t, session.ConfirmBackupCodes(ctx))

	summary, err := session.MfaSummary(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Totp", "BackupCode"}, summary.PendingFactors)
	require.Len(t, summary.PendingBinds, 2)
	require.Equal(t, len(codes.Codes), summary.PendingBinds[1].CodeCount)

	resp, err := session.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Verifications)

	user := fetchUser(t, ts.Store, testUsername)
	require.Len(t, user.MfaVerifications, 2)
	var backup domain.MfaVerification
	for _, v := range user.MfaVerifications {
		if v.Type == domain.FactorBackupCode {
			backup = v
		}
	}
	require.Len(t, backup.Codes, len(codes.Codes))
	for i, entry := range backup.Codes {
		require.Equal(t, codes.Codes[i], entry.Code)
		require.Nil(t, entry.UsedAt)
	}
}

// TestBackupCodesRequiredOnSubmit asserts submission fails when backup
// codes are enabled but the user commits other factors without them.
func TestBackupCodesRequiredOnSubmit(t *testing.T) {
	ctx := context.Background()
	ts := setupServer(t, allFactorSettings(domain.PolicyMandatory))

	session, err := ts.Client.StartInteraction(ctx, testUsername, testPassword)
	require.NoError(t, err)

	require.NoError(t, session.BindTotp(ctx, enrollTotp(t, session)))

	_, err = session.Submit(ctx)
	assertAPIError(t, err, 422, mfasdk.ErrorCodeBackupCodeRequired)

	// The interaction survives the failed submit; completing the backup
	// codes lets it through.
	_, err = session.GenerateBackupCodes(ctx)
	require.NoError(t, err)
	require.NoError(t, session.ConfirmBackupCodes(ctx))

	resp, err := session.Submit(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Verifications)
}
