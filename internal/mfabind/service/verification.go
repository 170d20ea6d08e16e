package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	backupCodeCount = 10                   // Number of backup codes to generate
	backupCodeBytes = cryptox.TokenSize128 // 128-bit entropy for backup codes

	webAuthnChallengeBytes = cryptox.TokenSize256
)

var (
	ErrInvalidTotpCode    = errors.New("invalid TOTP code")
	ErrInvalidCredential  = errors.New("invalid WebAuthn credential payload")
	ErrChallengeCompleted = errors.New("challenge already completed")
)

// GenerateBackupCodes produces backupCodeCount fresh single-use codes.
func GenerateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range backupCodeCount {
		code, err := cryptox.GenerateToken(backupCodeBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes[i] = code
	}
	return codes, nil
}

// VerificationService issues and completes the enrollment challenges whose
// records live inside an interaction. Completed records are the only
// inputs the binding engine accepts.
type VerificationService struct {
	Issuer string // Issuer name for TOTP (e.g., "mfabind")
}

// NewTotpChallenge generates a TOTP secret for the user and returns the
// unverified challenge record along with the otpauth:// URL for QR
// rendering.
func (s *VerificationService) NewTotpChallenge(username string) (domain.VerificationRecord, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.VerificationRecord{}, "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	record := domain.VerificationRecord{
		ID:        idx.New().String(),
		Type:      domain.VerificationTotp,
		Secret:    key.Secret(),
		CreatedAt: time.Now().UTC(),
	}
	return record, key.URL(), nil
}

// VerifyTotp validates a code against the challenge's secret and marks the
// record verified.
func (s *VerificationService) VerifyTotp(record *domain.VerificationRecord, code string) error {
	if record.Type != domain.VerificationTotp || record.Secret == "" {
		return ErrVerificationNotVerified
	}
	if record.Verified {
		return ErrChallengeCompleted
	}

	if !totp.Validate(code, record.Secret) {
		return ErrInvalidTotpCode
	}

	record.Verified = true
	return nil
}

// NewWebAuthnChallenge issues a registration challenge. The attestation
// itself is opaque to this service; the challenge only ties the eventual
// payload to this interaction.
func (s *VerificationService) NewWebAuthnChallenge() (domain.VerificationRecord, error) {
	challenge, err := cryptox.GenerateToken(webAuthnChallengeBytes)
	if err != nil {
		return domain.VerificationRecord{}, fmt.Errorf("failed to generate WebAuthn challenge: %w", err)
	}

	return domain.VerificationRecord{
		ID:        idx.New().String(),
		Type:      domain.VerificationWebAuthn,
		Challenge: challenge,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// VerifyWebAuthn accepts the authenticator's registration payload and
// marks the record verified. The credential is validated only for shape;
// cryptographic attestation checks are out of scope here.
func (s *VerificationService) VerifyWebAuthn(record *domain.VerificationRecord, credential domain.BindWebAuthn) error {
	if record.Type != domain.VerificationWebAuthn || record.Challenge == "" {
		return ErrVerificationNotVerified
	}
	if record.Verified {
		return ErrChallengeCompleted
	}
	if credential.CredentialID == "" || credential.PublicKey == "" {
		return ErrInvalidCredential
	}

	record.Credential = &credential
	record.Verified = true
	return nil
}
