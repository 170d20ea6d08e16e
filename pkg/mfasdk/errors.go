package mfasdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/mfabind/pkg/httpx"
)

// Machine-readable error codes the service emits. Clients branch on these,
// never on description text.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeServerError        = "server_error"

	// Challenge error codes
	ErrorCodeInvalidCode         = "invalid_code"
	ErrorCodeChallengeCompleted  = "challenge_already_completed"
	ErrorCodeInteractionNotFound = "interaction_not_found"

	// Engine error codes
	ErrorCodePolicyNotUserControlled = "mfa_policy_not_user_controlled"
	ErrorCodeFactorNotEnabled        = "mfa_factor_not_enabled"
	ErrorCodeTotpAlreadyInUse        = "totp_already_in_use"
	ErrorCodeBackupCodeAlone         = "backup_code_can_not_be_alone"
	ErrorCodeBackupCodeRequired      = "backup_code_required"
	ErrorCodeMissingMfa              = "missing_mfa"
	ErrorCodePendingInfoNotFound     = "pending_info_not_found"
	ErrorCodeVerificationNotFound    = "verification_record_not_found"
	ErrorCodeVerificationNotVerified = "verification_record_not_verified"
	ErrorCodeUserNotFound            = "identifier_user_not_found"
)

// APIError is the error envelope the service writes and the SDK client
// parses back. The optional fields carry the structured payload of
// missing_mfa failures.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description,omitempty"`

	// AvailableFactors lists the factor kinds currently available to the
	// user (missing_mfa only)
	AvailableFactors []string `json:"available_factors,omitempty"`

	// Skippable indicates the user may skip MFA instead (missing_mfa
	// under a user-controlled policy only)
	Skippable bool `json:"skippable,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// Predefined errors for common failures.
var (
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "Invalid or missing interaction token",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "An internal server error occurred",
	}
)
