package service

import (
	"fmt"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
)

// The binding engine reports failures through a small taxonomy of typed
// errors, each carrying a stable machine-readable code. Handlers map the
// types onto HTTP statuses and serialize the codes verbatim; descriptions
// are presentation-layer concerns.

// PolicyViolationError means tenant policy forbids the requested action.
// Always recoverable by the caller choosing a different factor or
// respecting policy. The factor payload is populated for missing_mfa only.
type PolicyViolationError struct {
	Code             string
	AvailableFactors []domain.FactorKind
	Skippable        bool
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("policy violation: %s", e.Code)
}

// Is matches by code so sentinel comparisons with errors.Is work even when
// a payload-carrying instance is returned.
func (e *PolicyViolationError) Is(target error) bool {
	t, ok := target.(*PolicyViolationError)
	return ok && t.Code == e.Code
}

// ConflictError means the action would create a disallowed duplicate
// binding.
type ConflictError struct {
	Code string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Code)
}

func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	return ok && t.Code == e.Code
}

// NotFoundError means referenced pending state or a challenge record does
// not exist.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Code)
}

func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Code == e.Code
}

// ValidationError means a referenced verification record exists but is not
// usable, e.g. its challenge was never completed.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Code)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// ConfigError means the tenant sign-in-experience configuration is
// structurally invalid. This is a server-side fault, not user-correctable.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

var (
	ErrPolicyNotUserControlled = &PolicyViolationError{Code: "mfa_policy_not_user_controlled"}
	ErrFactorNotEnabled        = &PolicyViolationError{Code: "mfa_factor_not_enabled"}
	ErrBackupCodeAlone         = &PolicyViolationError{Code: "backup_code_can_not_be_alone"}
	ErrBackupCodeRequired      = &PolicyViolationError{Code: "backup_code_required"}
	ErrMissingMfa              = &PolicyViolationError{Code: "missing_mfa"}

	ErrTotpAlreadyInUse = &ConflictError{Code: "totp_already_in_use"}

	ErrPendingInfoNotFound  = &NotFoundError{Code: "pending_info_not_found"}
	ErrVerificationNotFound = &NotFoundError{Code: "verification_record_not_found"}
	ErrUserNotFound         = &NotFoundError{Code: "identifier_user_not_found"}
	ErrInteractionNotFound  = &NotFoundError{Code: "interaction_not_found"}

	ErrVerificationNotVerified = &ValidationError{Code: "verification_record_not_verified"}
)

// missingMfaError builds the payload-carrying missing_mfa violation.
func missingMfaError(available []domain.FactorKind, skippable bool) *PolicyViolationError {
	return &PolicyViolationError{
		Code:             ErrMissingMfa.Code,
		AvailableFactors: available,
		Skippable:        skippable,
	}
}
