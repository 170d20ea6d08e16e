package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID               string
	Username         string
	PasswordHash     string // argon2 encoded
	MfaVerifications []MfaVerification
	Config           json.RawMessage // free-form account config blob
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// userConfigMfaKey is the key under which the MFA section lives in the
// account config blob.
const userConfigMfaKey = "mfa"

type userMfaConfig struct {
	Skipped bool `json:"skipped,omitempty"`
}

// MfaSkipped reports whether a prior interaction persisted an MFA skip into
// the account config. A malformed or absent blob reads as not skipped.
func MfaSkipped(config json.RawMessage) bool {
	if len(config) == 0 {
		return false
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(config, &parsed); err != nil {
		return false
	}

	raw, ok := parsed[userConfigMfaKey]
	if !ok {
		return false
	}

	var mfa userMfaConfig
	if err := json.Unmarshal(raw, &mfa); err != nil {
		return false
	}
	return mfa.Skipped
}

// SetMfaSkipped sets the MFA skip flag in the account config blob,
// preserving any unrelated keys the blob already carries.
func SetMfaSkipped(config json.RawMessage, skipped bool) (json.RawMessage, error) {
	parsed := make(map[string]json.RawMessage)
	if len(config) > 0 {
		if err := json.Unmarshal(config, &parsed); err != nil {
			return nil, err
		}
	}

	mfaRaw, err := json.Marshal(userMfaConfig{Skipped: skipped})
	if err != nil {
		return nil, err
	}
	parsed[userConfigMfaKey] = mfaRaw

	return json.Marshal(parsed)
}
