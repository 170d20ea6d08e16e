package domain

import "time"

// FactorKind is a category of MFA credential a user can bind.
type FactorKind string

const (
	FactorTotp       FactorKind = "Totp"
	FactorWebAuthn   FactorKind = "WebAuthn"
	FactorBackupCode FactorKind = "BackupCode"
)

// MfaPolicy is the tenant-level enforcement rule for MFA binding.
type MfaPolicy string

const (
	// PolicyDisabled means MFA is off for the tenant.
	PolicyDisabled MfaPolicy = "Disabled"
	// PolicyUserControlled lets users opt out of MFA binding.
	PolicyUserControlled MfaPolicy = "UserControlled"
	// PolicyMandatory requires every user to bind at least one factor.
	PolicyMandatory MfaPolicy = "Mandatory"
)

// MfaSettings is the tenant sign-in-experience MFA section: which factor
// kinds are enabled and how binding is enforced.
type MfaSettings struct {
	Factors []FactorKind
	Policy  MfaPolicy
}

// FactorEnabled reports whether the given kind is in the enabled set.
func (s MfaSettings) FactorEnabled(kind FactorKind) bool {
	for _, f := range s.Factors {
		if f == kind {
			return true
		}
	}
	return false
}

// BindTotp is a pending TOTP enrollment produced by a completed challenge.
type BindTotp struct {
	Secret string `json:"secret"`
}

// BindWebAuthn is a pending WebAuthn registration. The engine treats the
// credential payload as opaque beyond its identity.
type BindWebAuthn struct {
	CredentialID string   `json:"credentialId"`
	PublicKey    string   `json:"publicKey"`
	Transports   []string `json:"transports,omitempty"`
	Counter      uint32   `json:"counter,omitempty"`
	Agent        string   `json:"agent,omitempty"`
}

// BindBackupCode is a confirmed set of single-use backup codes awaiting
// persistence.
type BindBackupCode struct {
	Codes []string `json:"codes"`
}

// PendingBind is a variant over the factor kinds. Exactly one of the
// payload fields is set, matching Kind.
type PendingBind struct {
	Kind       FactorKind      `json:"kind"`
	Totp       *BindTotp       `json:"totp,omitempty"`
	WebAuthn   *BindWebAuthn   `json:"webAuthn,omitempty"`
	BackupCode *BindBackupCode `json:"backupCode,omitempty"`
}

// BindingState holds all in-progress MFA enrollments for one authentication
// interaction. It is exclusively owned by that interaction and is serialized
// into interaction storage between round trips.
//
// PendingBackupCodes are codes that have been generated and shown to the
// user but not yet explicitly confirmed. They must never be treated as
// committed; only the confirm step promotes them into BackupCode.
type BindingState struct {
	Skipped            *bool           `json:"skipped,omitempty"`
	Totp               *BindTotp       `json:"totp,omitempty"`
	WebAuthn           []BindWebAuthn  `json:"webAuthn,omitempty"`
	BackupCode         *BindBackupCode `json:"backupCode,omitempty"`
	PendingBackupCodes []string        `json:"pendingBackupCodes,omitempty"`
}

// PendingBinds returns every bind staged in this state, in binding order:
// TOTP first, then WebAuthn entries, then the confirmed backup codes.
// Generated-but-unconfirmed backup codes are excluded.
func (s *BindingState) PendingBinds() []PendingBind {
	var binds []PendingBind
	if s.Totp != nil {
		binds = append(binds, PendingBind{Kind: FactorTotp, Totp: s.Totp})
	}
	for i := range s.WebAuthn {
		binds = append(binds, PendingBind{Kind: FactorWebAuthn, WebAuthn: &s.WebAuthn[i]})
	}
	if s.BackupCode != nil {
		binds = append(binds, PendingBind{Kind: FactorBackupCode, BackupCode: s.BackupCode})
	}
	return binds
}

// PendingFactors returns the deduplicated factor kinds present across the
// pending binds in this state.
func (s *BindingState) PendingFactors() []FactorKind {
	seen := make(map[FactorKind]struct{})
	var kinds []FactorKind
	for _, bind := range s.PendingBinds() {
		if _, ok := seen[bind.Kind]; ok {
			continue
		}
		seen[bind.Kind] = struct{}{}
		kinds = append(kinds, bind.Kind)
	}
	return kinds
}

// BackupCodeEntry is a single backup code on a committed verification,
// with its consumption timestamp once used.
type BackupCodeEntry struct {
	Code   string     `json:"code"`
	UsedAt *time.Time `json:"usedAt,omitempty"`
}

// MfaVerification is a committed MFA factor on a user account. The payload
// fields used depend on Type: Key for TOTP, the credential fields for
// WebAuthn, and Codes for backup codes.
type MfaVerification struct {
	ID        string     `json:"id"`
	Type      FactorKind `json:"type"`
	CreatedAt time.Time  `json:"createdAt"`

	// TOTP
	Key string `json:"key,omitempty"`

	// WebAuthn
	CredentialID string   `json:"credentialId,omitempty"`
	PublicKey    string   `json:"publicKey,omitempty"`
	Transports   []string `json:"transports,omitempty"`
	Counter      uint32   `json:"counter,omitempty"`
	Agent        string   `json:"agent,omitempty"`

	// Backup codes
	Codes []BackupCodeEntry `json:"codes,omitempty"`
}

// HasUnusedCodes reports whether a backup-code verification still has at
// least one code that has not been consumed.
func (v MfaVerification) HasUnusedCodes() bool {
	for _, entry := range v.Codes {
		if entry.UsedAt == nil {
			return true
		}
	}
	return false
}

// FilterOutUsedBackupCodes drops backup-code verifications whose codes have
// all been consumed. A fully spent backup-code factor no longer counts as
// an available factor.
func FilterOutUsedBackupCodes(verifications []MfaVerification) []MfaVerification {
	filtered := make([]MfaVerification, 0, len(verifications))
	for _, v := range verifications {
		if v.Type == FactorBackupCode && !v.HasUnusedCodes() {
			continue
		}
		filtered = append(filtered, v)
	}
	return filtered
}

// MaterializedMfa is the persistence payload the binding engine produces at
// submission time: the current skip flag plus the deduplicated verification
// records built from the pending binds.
type MaterializedMfa struct {
	Skipped       *bool
	Verifications []MfaVerification
}
