package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
)

// PolicyValidator supplies the tenant's MFA settings to the binding
// engine. Idempotent; the engine may call it once per operation.
type PolicyValidator interface {
	GetMfaSettings(ctx context.Context) (domain.MfaSettings, error)
}

// SignInExperienceService reads the tenant sign-in-experience row and
// validates its MFA section. Storage I/O errors propagate as-is; only a
// structurally invalid configuration becomes a ConfigError.
type SignInExperienceService struct {
	Store store.Store
}

func (s *SignInExperienceService) GetMfaSettings(ctx context.Context) (domain.MfaSettings, error) {
	raw, err := s.Store.SignInExperience().GetSignInExperience(ctx)
	if err != nil {
		return domain.MfaSettings{}, fmt.Errorf("failed to load sign-in experience: %w", err)
	}

	var factors []domain.FactorKind
	if err := json.Unmarshal(raw.MfaFactors, &factors); err != nil {
		return domain.MfaSettings{}, &ConfigError{Reason: "malformed mfa_factors", Err: err}
	}
	for _, f := range factors {
		switch f {
		case domain.FactorTotp, domain.FactorWebAuthn, domain.FactorBackupCode:
		default:
			return domain.MfaSettings{}, &ConfigError{Reason: fmt.Sprintf("unknown factor kind %q", f)}
		}
	}

	policy := domain.MfaPolicy(raw.MfaPolicy)
	switch policy {
	case domain.PolicyDisabled, domain.PolicyUserControlled, domain.PolicyMandatory:
	default:
		return domain.MfaSettings{}, &ConfigError{Reason: fmt.Sprintf("unknown mfa policy %q", raw.MfaPolicy)}
	}

	return domain.MfaSettings{Factors: factors, Policy: policy}, nil
}

// UpdateMfaSettings replaces the tenant MFA configuration. Used for
// seeding and by tests; there is no runtime admin endpoint for it.
func (s *SignInExperienceService) UpdateMfaSettings(ctx context.Context, settings domain.MfaSettings) error {
	factors := settings.Factors
	if factors == nil {
		factors = []domain.FactorKind{}
	}
	blob, err := json.Marshal(factors)
	if err != nil {
		return err
	}
	return s.Store.SignInExperience().UpdateSignInExperience(ctx, blob, string(settings.Policy))
}
