package mfasdk

// Request/response types shared between the service handlers and the SDK
// client. Keep changes additive to preserve wire compatibility.

// StartInteractionRequest identifies the user an interaction is for.
type StartInteractionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StartInteractionResponse carries the interaction token the client must
// present on every subsequent call.
type StartInteractionResponse struct {
	InteractionToken string `json:"interaction_token"`
	ExpiresIn        int    `json:"expires_in"` // seconds
}

// TotpChallengeResponse is returned when a TOTP secret challenge is issued.
type TotpChallengeResponse struct {
	VerificationID string `json:"verification_id"`
	Secret         string `json:"secret"`   // base32 encoded
	URI            string `json:"uri"`      // otpauth:// URL for QR rendering
	Issuer         string `json:"issuer"`   // service display name
	Account        string `json:"account"`  // username
}

// TotpVerifyRequest submits a TOTP code against an issued challenge.
type TotpVerifyRequest struct {
	VerificationID string `json:"verification_id"`
	Code           string `json:"code"`
}

// WebAuthnChallengeResponse is returned when a WebAuthn registration
// challenge is issued.
type WebAuthnChallengeResponse struct {
	VerificationID string `json:"verification_id"`
	Challenge      string `json:"challenge"` // base64url random challenge
}

// WebAuthnVerifyRequest submits the registration payload produced by the
// authenticator. The service treats the credential as opaque.
type WebAuthnVerifyRequest struct {
	VerificationID string   `json:"verification_id"`
	CredentialID   string   `json:"credential_id"`
	PublicKey      string   `json:"public_key"`
	Transports     []string `json:"transports,omitempty"`
	Counter        uint32   `json:"counter,omitempty"`
	Agent          string   `json:"agent,omitempty"`
}

// VerifiedResponse acknowledges a completed challenge.
type VerifiedResponse struct {
	VerificationID string `json:"verification_id"`
	Verified       bool   `json:"verified"`
}

// BindFactorRequest binds a completed verification into the interaction's
// MFA state.
type BindFactorRequest struct {
	VerificationID string `json:"verification_id"`
}

// BackupCodesResponse carries freshly generated backup codes. They are
// shown exactly once and must be confirmed before they take effect.
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

// MfaSummaryResponse is the read model of the interaction's MFA state,
// used to build UI summaries.
type MfaSummaryResponse struct {
	Skipped        bool                 `json:"skipped"`
	PendingFactors []string             `json:"pending_factors"`
	PendingBinds   []PendingBindSummary `json:"pending_binds"`
}

// PendingBindSummary is one staged enrollment. Secrets and codes are never
// echoed here; only identity-level fields are exposed.
type PendingBindSummary struct {
	Kind         string `json:"kind"`
	CredentialID string `json:"credential_id,omitempty"` // WebAuthn only
	CodeCount    int    `json:"code_count,omitempty"`    // backup codes only
}

// SubmitResponse acknowledges a persisted interaction.
type SubmitResponse struct {
	UserID        string `json:"user_id"`
	Verifications int    `json:"verifications"` // newly committed record count
	Skipped       bool   `json:"skipped"`
}

// HealthResponse represents the response structure for health check
// endpoints. Used by both /livez and /readyz.
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the interaction token signing capability status
	Signer string `json:"signer"`
}
