package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
	"github.com/aussiebroadwan/mfabind/pkg/slogx"
)

// VerificationsHandler issues and completes enrollment challenges. The
// resulting records live inside the interaction; only verified records can
// later be bound as MFA factors.
type VerificationsHandler struct {
	InteractionService  *service.InteractionService
	VerificationService *service.VerificationService
	Store               store.Store
}

// loadInteraction rehydrates the interaction the request token refers to.
// Writes the error response and returns false when it cannot.
func loadInteraction(w http.ResponseWriter, r *http.Request, svc *service.InteractionService) (domain.Interaction, bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interactionID := httpx.InteractionIDFromCtx(ctx)
	if interactionID == "" {
		mfasdk.ErrInvalidToken.WriteError(w)
		return domain.Interaction{}, false
	}

	interaction, err := svc.Get(ctx, interactionID)
	if err != nil {
		if errors.Is(err, service.ErrInteractionNotFound) {
			log.Warn("interaction not found or expired", "interaction_id", interactionID)
			(&mfasdk.APIError{
				StatusCode:  http.StatusNotFound,
				Code:        mfasdk.ErrorCodeInteractionNotFound,
				Description: "Interaction not found or expired",
			}).WriteError(w)
			return domain.Interaction{}, false
		}
		log.Error("failed to load interaction", "interaction_id", interactionID, "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return domain.Interaction{}, false
	}

	return interaction, true
}

// HandleNewTotp handles POST /v1/interaction/verifications/totp
//
//	@Summary		Issue a TOTP secret challenge
//	@Description	Generates a fresh TOTP secret for the interaction's user and returns it with an otpauth:// URL.
//	@Description	The challenge must be completed with a valid code before the factor can be bound.
//	@Tags			Verifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.TotpChallengeResponse	"TOTP secret and provisioning URL"
//	@Failure		401	{object}	mfasdk.APIError					"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError					"Interaction not found or expired"
//	@Failure		500	{object}	mfasdk.APIError					"Internal server error"
//	@Router			/v1/interaction/verifications/totp [post].
func (h *VerificationsHandler) HandleNewTotp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	user, err := h.Store.Users().GetUserByID(ctx, interaction.UserID)
	if err != nil {
		log.Error("failed to load user", "user_id", interaction.UserID, "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	record, uri, err := h.VerificationService.NewTotpChallenge(user.Username)
	if err != nil {
		log.Error("failed to issue TOTP challenge", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	interaction.VerificationRecords = append(interaction.VerificationRecords, record)
	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.TotpChallengeResponse{
		VerificationID: record.ID,
		Secret:         record.Secret,
		URI:            uri,
		Issuer:         h.VerificationService.Issuer,
		Account:        user.Username,
	})
}

// HandleVerifyTotp handles POST /v1/interaction/verifications/totp/verify
//
//	@Summary		Complete a TOTP challenge
//	@Description	Validates a code from the authenticator app against the issued secret and marks the challenge verified.
//	@Tags			Verifications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfasdk.TotpVerifyRequest	true	"Verification id and TOTP code"
//	@Success		200		{object}	mfasdk.VerifiedResponse		"Challenge verified"
//	@Failure		400		{object}	mfasdk.APIError				"Invalid code or already completed"
//	@Failure		401		{object}	mfasdk.APIError				"Invalid or missing interaction token"
//	@Failure		404		{object}	mfasdk.APIError				"Challenge or interaction not found"
//	@Failure		500		{object}	mfasdk.APIError				"Internal server error"
//	@Router			/v1/interaction/verifications/totp/verify [post].
func (h *VerificationsHandler) HandleVerifyTotp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	var req mfasdk.TotpVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeInvalidRequest(w, "Invalid JSON body")
		return
	}

	record := interaction.FindVerificationRecord(domain.VerificationTotp, req.VerificationID)
	if record == nil {
		writeServiceError(w, r, service.ErrVerificationNotFound)
		return
	}

	if err := h.VerificationService.VerifyTotp(record, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTotpCode):
			log.Warn("invalid TOTP code", "verification_id", req.VerificationID)
			(&mfasdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        mfasdk.ErrorCodeInvalidCode,
				Description: "Invalid TOTP code",
			}).WriteError(w)
		case errors.Is(err, service.ErrChallengeCompleted):
			(&mfasdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        mfasdk.ErrorCodeChallengeCompleted,
				Description: "Challenge already completed",
			}).WriteError(w)
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.VerifiedResponse{
		VerificationID: record.ID,
		Verified:       true,
	})
}

// HandleNewWebAuthn handles POST /v1/interaction/verifications/webauthn
//
//	@Summary		Issue a WebAuthn registration challenge
//	@Description	Generates a random challenge to tie an authenticator registration to this interaction.
//	@Tags			Verifications
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.WebAuthnChallengeResponse	"Registration challenge"
//	@Failure		401	{object}	mfasdk.APIError						"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError						"Interaction not found or expired"
//	@Failure		500	{object}	mfasdk.APIError						"Internal server error"
//	@Router			/v1/interaction/verifications/webauthn [post].
func (h *VerificationsHandler) HandleNewWebAuthn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	record, err := h.VerificationService.NewWebAuthnChallenge()
	if err != nil {
		log.Error("failed to issue WebAuthn challenge", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	interaction.VerificationRecords = append(interaction.VerificationRecords, record)
	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.WebAuthnChallengeResponse{
		VerificationID: record.ID,
		Challenge:      record.Challenge,
	})
}

// HandleVerifyWebAuthn handles POST /v1/interaction/verifications/webauthn/verify
//
//	@Summary		Complete a WebAuthn registration challenge
//	@Description	Accepts the authenticator's registration payload and marks the challenge verified.
//	@Tags			Verifications
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfasdk.WebAuthnVerifyRequest	true	"Verification id and credential payload"
//	@Success		200		{object}	mfasdk.VerifiedResponse			"Challenge verified"
//	@Failure		400		{object}	mfasdk.APIError					"Invalid payload or already completed"
//	@Failure		401		{object}	mfasdk.APIError					"Invalid or missing interaction token"
//	@Failure		404		{object}	mfasdk.APIError					"Challenge or interaction not found"
//	@Failure		500		{object}	mfasdk.APIError					"Internal server error"
//	@Router			/v1/interaction/verifications/webauthn/verify [post].
func (h *VerificationsHandler) HandleVerifyWebAuthn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	var req mfasdk.WebAuthnVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeInvalidRequest(w, "Invalid JSON body")
		return
	}

	record := interaction.FindVerificationRecord(domain.VerificationWebAuthn, req.VerificationID)
	if record == nil {
		writeServiceError(w, r, service.ErrVerificationNotFound)
		return
	}

	credential := domain.BindWebAuthn{
		CredentialID: req.CredentialID,
		PublicKey:    req.PublicKey,
		Transports:   req.Transports,
		Counter:      req.Counter,
		Agent:        req.Agent,
	}
	if err := h.VerificationService.VerifyWebAuthn(record, credential); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredential):
			writeInvalidRequest(w, "credential_id and public_key are required")
		case errors.Is(err, service.ErrChallengeCompleted):
			(&mfasdk.APIError{
				StatusCode:  http.StatusBadRequest,
				Code:        mfasdk.ErrorCodeChallengeCompleted,
				Description: "Challenge already completed",
			}).WriteError(w)
		default:
			writeServiceError(w, r, err)
		}
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.VerifiedResponse{
		VerificationID: record.ID,
		Verified:       true,
	})
}
