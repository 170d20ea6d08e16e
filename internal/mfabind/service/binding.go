package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/pkg/cryptox"
	"github.com/aussiebroadwan/mfabind/pkg/idx"
)

// UserResolver supplies the committed account state of the interaction's
// identified user.
type UserResolver interface {
	GetIdentifierUser(ctx context.Context) (domain.User, error)
}

// VerificationResolver resolves completed challenge records accumulated in
// the current interaction.
type VerificationResolver interface {
	GetVerificationRecordByTypeAndID(vt domain.VerificationType, id string) (*domain.VerificationRecord, error)
}

// BackupCodeGenerator produces fresh single-use backup codes. Count and
// entropy are the producer's concern, not the engine's.
type BackupCodeGenerator func() ([]string, error)

// BindingEngine accumulates a user's in-progress MFA enrollments during
// one authentication interaction, validates them against tenant policy,
// and materializes the final verification record set at submission time.
//
// The engine owns its BindingState for the duration of the interaction;
// it assumes single-writer access and performs no internal locking.
type BindingEngine struct {
	policy        PolicyValidator
	users         UserResolver
	verifications VerificationResolver
	generateCodes BackupCodeGenerator

	state *domain.BindingState
}

// NewBindingEngine builds an engine over the given binding state and
// collaborators. A nil generator defaults to the standard backup-code
// producer.
func NewBindingEngine(
	policy PolicyValidator,
	users UserResolver,
	verifications VerificationResolver,
	generateCodes BackupCodeGenerator,
	state *domain.BindingState,
) *BindingEngine {
	if generateCodes == nil {
		generateCodes = GenerateBackupCodes
	}
	return &BindingEngine{
		policy:        policy,
		users:         users,
		verifications: verifications,
		generateCodes: generateCodes,
		state:         state,
	}
}

// Skipped reports whether the user has opted out of MFA binding in this
// interaction.
func (e *BindingEngine) Skipped() bool {
	return e.state.Skipped != nil && *e.state.Skipped
}

// PendingBinds returns all currently staged enrollments, in binding order.
func (e *BindingEngine) PendingBinds() []domain.PendingBind {
	return e.state.PendingBinds()
}

// Skip opts the user out of MFA binding. Only permitted under a
// user-controlled policy.
func (e *BindingEngine) Skip(ctx context.Context) error {
	settings, err := e.policy.GetMfaSettings(ctx)
	if err != nil {
		return err
	}

	if settings.Policy != domain.PolicyUserControlled {
		return ErrPolicyNotUserControlled
	}

	skipped := true
	e.state.Skipped = &skipped
	return nil
}

// AddTotp stages the TOTP enrollment from a completed verification record.
// Any prior pending TOTP in this state is replaced. A user can hold only
// one committed TOTP factor, so an existing one is a conflict.
func (e *BindingEngine) AddTotp(ctx context.Context, verificationID string) error {
	record, err := e.verifications.GetVerificationRecordByTypeAndID(domain.VerificationTotp, verificationID)
	if err != nil {
		return err
	}
	if !record.Verified || record.Secret == "" {
		return ErrVerificationNotVerified
	}

	if err := e.checkFactorsEnabled(ctx, domain.FactorTotp); err != nil {
		return err
	}

	user, err := e.users.GetIdentifierUser(ctx)
	if err != nil {
		return err
	}
	for _, v := range user.MfaVerifications {
		if v.Type == domain.FactorTotp {
			return ErrTotpAlreadyInUse
		}
	}

	e.state.Totp = &domain.BindTotp{Secret: record.Secret}
	return nil
}

// AddWebAuthn appends the WebAuthn enrollment from a completed
// verification record. Multiple authenticators are allowed; uniqueness of
// credentials is the producer's responsibility.
func (e *BindingEngine) AddWebAuthn(ctx context.Context, verificationID string) error {
	record, err := e.verifications.GetVerificationRecordByTypeAndID(domain.VerificationWebAuthn, verificationID)
	if err != nil {
		return err
	}
	if !record.Verified || record.Credential == nil {
		return ErrVerificationNotVerified
	}

	if err := e.checkFactorsEnabled(ctx, domain.FactorWebAuthn); err != nil {
		return err
	}

	e.state.WebAuthn = append(e.state.WebAuthn, *record.Credential)
	return nil
}

// GenerateBackupCodes generates a fresh set of single-use codes and stages
// them as pending. Backup codes cannot be the user's only factor: either a
// committed non-backup-code factor or a pending TOTP/WebAuthn bind must
// exist first.
//
// This is the first half of a two-phase flow: the codes are returned for
// one-time display and only become authoritative after an explicit
// ConfirmBackupCodes, so a client failing to render them never leaves the
// account dependent on codes the user never saw.
func (e *BindingEngine) GenerateBackupCodes(ctx context.Context) ([]string, error) {
	if err := e.checkFactorsEnabled(ctx, domain.FactorBackupCode); err != nil {
		return nil, err
	}

	user, err := e.users.GetIdentifierUser(ctx)
	if err != nil {
		return nil, err
	}

	userHasOtherMfa := false
	for _, v := range user.MfaVerifications {
		if v.Type != domain.FactorBackupCode {
			userHasOtherMfa = true
			break
		}
	}
	hasOtherNewMfa := e.state.Totp != nil || len(e.state.WebAuthn) > 0

	if !userHasOtherMfa && !hasOtherNewMfa {
		return nil, ErrBackupCodeAlone
	}

	codes, err := e.generateCodes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}
	e.state.PendingBackupCodes = codes

	return codes, nil
}

// ConfirmBackupCodes promotes the pending backup codes into the bind
// queue, replacing any prior backup-code bind in this state. Policy was
// checked at generation time and is deliberately not re-checked here; a
// mid-interaction policy change is caught by CheckAvailability at
// submission.
func (e *BindingEngine) ConfirmBackupCodes() error {
	if len(e.state.PendingBackupCodes) == 0 {
		return ErrPendingInfoNotFound
	}

	e.state.BackupCode = &domain.BindBackupCode{Codes: e.state.PendingBackupCodes}
	e.state.PendingBackupCodes = nil
	return nil
}

// CheckAvailability verifies every factor kind staged in this state is
// still enabled in policy. Intended as a final pre-submission gate in case
// policy changed mid-interaction.
func (e *BindingEngine) CheckAvailability(ctx context.Context) error {
	return e.checkFactorsEnabled(ctx, e.state.PendingFactors()...)
}

// AssertMandatoryFulfilled verifies the user will satisfy the tenant's
// MFA requirements after this interaction commits. Backup codes are never
// independently sufficient, and when enabled they are an additive
// requirement on top of the other factors.
func (e *BindingEngine) AssertMandatoryFulfilled(ctx context.Context) error {
	settings, err := e.policy.GetMfaSettings(ctx)
	if err != nil {
		return err
	}

	// If there are no factors, then there is nothing to check
	if len(settings.Factors) == 0 {
		return nil
	}

	user, err := e.users.GetIdentifierUser(ctx)
	if err != nil {
		return err
	}

	// Skip is sticky: honoured from this interaction under a
	// user-controlled policy, or from a previously persisted skip.
	if (settings.Policy == domain.PolicyUserControlled && e.Skipped()) || domain.MfaSkipped(user.Config) {
		return nil
	}

	requiredFactors := make([]domain.FactorKind, 0, len(settings.Factors))
	for _, f := range settings.Factors {
		if f != domain.FactorBackupCode {
			requiredFactors = append(requiredFactors, f)
		}
	}

	availableFactors := e.availableFactors(user)

	fulfilled := false
	for _, required := range requiredFactors {
		for _, available := range availableFactors {
			if required == available {
				fulfilled = true
				break
			}
		}
	}
	if !fulfilled {
		return missingMfaError(availableFactors, settings.Policy == domain.PolicyUserControlled)
	}

	if settings.FactorEnabled(domain.FactorBackupCode) {
		hasBackupCode := false
		for _, available := range availableFactors {
			if available == domain.FactorBackupCode {
				hasBackupCode = true
				break
			}
		}
		if !hasBackupCode {
			return ErrBackupCodeRequired
		}
	}

	return nil
}

// availableFactors is the deduplicated union of the user's usable
// committed factor kinds and the kinds staged in this state. Backup-code
// records with every code consumed do not count.
func (e *BindingEngine) availableFactors(user domain.User) []domain.FactorKind {
	seen := make(map[domain.FactorKind]struct{})
	var factors []domain.FactorKind

	add := func(kind domain.FactorKind) {
		if _, ok := seen[kind]; ok {
			return
		}
		seen[kind] = struct{}{}
		factors = append(factors, kind)
	}

	for _, v := range domain.FilterOutUsedBackupCodes(user.MfaVerifications) {
		add(v.Type)
	}
	for _, kind := range e.state.PendingFactors() {
		add(kind)
	}

	return factors
}

// Materialize produces the persistence payload for the accumulated binds:
// the current skip flag plus verification records with fresh ids and
// timestamps. Records are deduplicated by structural identity
// (kind + payload), not by factor kind, so repeated calls on unchanged
// state yield structurally identical output. Never mutates the binding
// state.
func (e *BindingEngine) Materialize() domain.MaterializedMfa {
	now := time.Now().UTC()
	seen := make(map[string]struct{})
	var records []domain.MfaVerification

	add := func(key string, record domain.MfaVerification) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		records = append(records, record)
	}

	if e.state.Totp != nil {
		add(verificationKey(domain.FactorTotp, e.state.Totp), domain.MfaVerification{
			ID:        idx.New().String(),
			Type:      domain.FactorTotp,
			CreatedAt: now,
			Key:       e.state.Totp.Secret,
		})
	}

	for _, webAuthn := range e.state.WebAuthn {
		add(verificationKey(domain.FactorWebAuthn, webAuthn), domain.MfaVerification{
			ID:           idx.New().String(),
			Type:         domain.FactorWebAuthn,
			CreatedAt:    now,
			CredentialID: webAuthn.CredentialID,
			PublicKey:    webAuthn.PublicKey,
			Transports:   webAuthn.Transports,
			Counter:      webAuthn.Counter,
			Agent:        webAuthn.Agent,
		})
	}

	if e.state.BackupCode != nil {
		entries := make([]domain.BackupCodeEntry, 0, len(e.state.BackupCode.Codes))
		for _, code := range e.state.BackupCode.Codes {
			entries = append(entries, domain.BackupCodeEntry{Code: code})
		}
		add(verificationKey(domain.FactorBackupCode, e.state.BackupCode), domain.MfaVerification{
			ID:        idx.New().String(),
			Type:      domain.FactorBackupCode,
			CreatedAt: now,
			Codes:     entries,
		})
	}

	return domain.MaterializedMfa{
		Skipped:       e.state.Skipped,
		Verifications: records,
	}
}

// verificationKey is the content identity of a record: factor kind plus a
// fingerprint of the canonical payload JSON. Fresh ids and timestamps are
// assigned only at materialization, so identity cannot rely on them.
func verificationKey(kind domain.FactorKind, payload any) string {
	blob, err := json.Marshal(payload)
	if err != nil {
		// Bind payloads are plain structs; marshalling them cannot fail
		// at runtime, but don't silently collapse identities if it does.
		blob = []byte(fmt.Sprintf("%+v", payload))
	}
	return strings.Join([]string{string(kind), cryptox.FingerprintToken(string(blob))}, ":")
}

func (e *BindingEngine) checkFactorsEnabled(ctx context.Context, kinds ...domain.FactorKind) error {
	settings, err := e.policy.GetMfaSettings(ctx)
	if err != nil {
		return err
	}

	for _, kind := range kinds {
		if !settings.FactorEnabled(kind) {
			return ErrFactorNotEnabled
		}
	}
	return nil
}
