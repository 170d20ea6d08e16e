package domain

import "time"

// VerificationType identifies the kind of challenge a verification record
// was produced by.
type VerificationType string

const (
	VerificationTotp     VerificationType = "Totp"
	VerificationWebAuthn VerificationType = "WebAuthn"
)

// VerificationRecord is a challenge issued within an interaction. It starts
// unverified; completing the challenge (submitting a valid TOTP code,
// returning a WebAuthn registration payload) marks it verified, after which
// it can be converted into a pending bind.
type VerificationRecord struct {
	ID        string           `json:"id"`
	Type      VerificationType `json:"type"`
	Verified  bool             `json:"verified"`
	CreatedAt time.Time        `json:"createdAt"`

	// TOTP challenge state
	Secret string `json:"secret,omitempty"`

	// WebAuthn challenge state
	Challenge  string        `json:"challenge,omitempty"`
	Credential *BindWebAuthn `json:"credential,omitempty"`
}

// Interaction is one in-flight authentication/registration flow for an
// identified user. It owns the binding state and the verification records
// accumulated across round trips, and is discarded on submit or expiry.
type Interaction struct {
	ID                  string
	UserID              string
	BindingState        BindingState
	VerificationRecords []VerificationRecord
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// FindVerificationRecord returns the record matching the given type and id,
// or nil if the interaction has no such record.
func (i *Interaction) FindVerificationRecord(vt VerificationType, id string) *VerificationRecord {
	for idx := range i.VerificationRecords {
		r := &i.VerificationRecords[idx]
		if r.Type == vt && r.ID == id {
			return r
		}
	}
	return nil
}
