package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/domain"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
	"github.com/aussiebroadwan/mfabind/pkg/slogx"
)

// MFAHandler drives the binding engine for an interaction: staging binds,
// skipping, the two-phase backup-code flow, and the final submit.
type MFAHandler struct {
	InteractionService *service.InteractionService
}

// HandleSummary handles GET /v1/interaction/mfa
//
//	@Summary		Summarize the interaction's MFA state
//	@Description	Returns the skipped flag and a summary of currently staged enrollments.
//	@Description	Secrets and backup codes are never echoed here.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.MfaSummaryResponse	"Current binding state"
//	@Failure		401	{object}	mfasdk.APIError				"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError				"Interaction not found or expired"
//	@Router			/v1/interaction/mfa [get].
func (h *MFAHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	engine := h.InteractionService.Engine(&interaction)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, buildSummary(engine))
}

// HandleSkip handles POST /v1/interaction/mfa/skip
//
//	@Summary		Skip MFA binding
//	@Description	Opts the user out of MFA binding for this interaction. Only permitted
//	@Description	when the tenant policy is user-controlled.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.MfaSummaryResponse	"Updated binding state"
//	@Failure		401	{object}	mfasdk.APIError				"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError				"Interaction not found or expired"
//	@Failure		422	{object}	mfasdk.APIError				"Policy is not user-controlled"
//	@Failure		500	{object}	mfasdk.APIError				"Internal server error"
//	@Router			/v1/interaction/mfa/skip [post].
func (h *MFAHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	engine := h.InteractionService.Engine(&interaction)
	if err := engine.Skip(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("mfa binding skipped", "interaction_id", interaction.ID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, buildSummary(engine))
}

// HandleBindTotp handles POST /v1/interaction/mfa/totp
//
//	@Summary		Bind a verified TOTP factor
//	@Description	Stages the TOTP enrollment from a completed challenge as a pending bind.
//	@Description	Replaces any previously staged TOTP in this interaction.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfasdk.BindFactorRequest	true	"Completed verification id"
//	@Success		204		"TOTP staged"
//	@Failure		400		{object}	mfasdk.APIError	"Invalid request or unverified challenge"
//	@Failure		401		{object}	mfasdk.APIError	"Invalid or missing interaction token"
//	@Failure		404		{object}	mfasdk.APIError	"Challenge or interaction not found"
//	@Failure		422		{object}	mfasdk.APIError	"Factor disabled or TOTP already in use"
//	@Failure		500		{object}	mfasdk.APIError	"Internal server error"
//	@Router			/v1/interaction/mfa/totp [post].
func (h *MFAHandler) HandleBindTotp(w http.ResponseWriter, r *http.Request) {
	h.bindFactor(w, r, domain.FactorTotp)
}

// HandleBindWebAuthn handles POST /v1/interaction/mfa/webauthn
//
//	@Summary		Bind a verified WebAuthn factor
//	@Description	Stages the WebAuthn enrollment from a completed challenge as a pending bind.
//	@Description	Multiple authenticators may be staged in one interaction.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfasdk.BindFactorRequest	true	"Completed verification id"
//	@Success		204		"WebAuthn credential staged"
//	@Failure		400		{object}	mfasdk.APIError	"Invalid request or unverified challenge"
//	@Failure		401		{object}	mfasdk.APIError	"Invalid or missing interaction token"
//	@Failure		404		{object}	mfasdk.APIError	"Challenge or interaction not found"
//	@Failure		422		{object}	mfasdk.APIError	"Factor disabled by policy"
//	@Failure		500		{object}	mfasdk.APIError	"Internal server error"
//	@Router			/v1/interaction/mfa/webauthn [post].
func (h *MFAHandler) HandleBindWebAuthn(w http.ResponseWriter, r *http.Request) {
	h.bindFactor(w, r, domain.FactorWebAuthn)
}

func (h *MFAHandler) bindFactor(w http.ResponseWriter, r *http.Request, kind domain.FactorKind) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	var req mfasdk.BindFactorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeInvalidRequest(w, "Invalid JSON body")
		return
	}
	if req.VerificationID == "" {
		writeInvalidRequest(w, "verification_id is required")
		return
	}

	engine := h.InteractionService.Engine(&interaction)

	var err error
	switch kind {
	case domain.FactorTotp:
		err = engine.AddTotp(ctx, req.VerificationID)
	case domain.FactorWebAuthn:
		err = engine.AddWebAuthn(ctx, req.VerificationID)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("factor staged", "interaction_id", interaction.ID, "kind", kind)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerateBackupCodes handles POST /v1/interaction/mfa/backup-codes
//
//	@Summary		Generate backup codes
//	@Description	Generates a fresh set of single-use backup codes for one-time display.
//	@Description	The codes only take effect after an explicit confirm call.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		401	{object}	mfasdk.APIError				"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError				"Interaction not found or expired"
//	@Failure		422	{object}	mfasdk.APIError				"Factor disabled or backup codes would be the only factor"
//	@Failure		500	{object}	mfasdk.APIError				"Internal server error"
//	@Router			/v1/interaction/mfa/backup-codes [post].
func (h *MFAHandler) HandleGenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	engine := h.InteractionService.Engine(&interaction)
	codes, err := engine.GenerateBackupCodes(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.BackupCodesResponse{Codes: codes})
}

// HandleConfirmBackupCodes handles POST /v1/interaction/mfa/backup-codes/confirm
//
//	@Summary		Confirm backup codes
//	@Description	Confirms the previously generated backup codes were received and stages them
//	@Description	as a pending bind. Fails when no codes are pending.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Backup codes staged"
//	@Failure		401	{object}	mfasdk.APIError	"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError	"No pending codes or interaction not found"
//	@Failure		500	{object}	mfasdk.APIError	"Internal server error"
//	@Router			/v1/interaction/mfa/backup-codes/confirm [post].
func (h *MFAHandler) HandleConfirmBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	engine := h.InteractionService.Engine(&interaction)
	if err := engine.ConfirmBackupCodes(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.InteractionService.Save(ctx, interaction); err != nil {
		log.Error("failed to save interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("backup codes staged", "interaction_id", interaction.ID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmit handles POST /v1/interaction/submit
//
//	@Summary		Submit the interaction
//	@Description	Runs the final policy gates, materializes the staged enrollments into
//	@Description	verification records, and persists them to the user account. The
//	@Description	interaction is consumed on success.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	mfasdk.SubmitResponse	"Persisted MFA state"
//	@Failure		401	{object}	mfasdk.APIError			"Invalid or missing interaction token"
//	@Failure		404	{object}	mfasdk.APIError			"Interaction not found or expired"
//	@Failure		422	{object}	mfasdk.APIError			"Mandatory MFA not fulfilled"
//	@Failure		500	{object}	mfasdk.APIError			"Internal server error"
//	@Router			/v1/interaction/submit [post].
func (h *MFAHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	interaction, ok := loadInteraction(w, r, h.InteractionService)
	if !ok {
		return
	}

	materialized, err := h.InteractionService.Submit(ctx, &interaction)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("interaction submitted",
		"interaction_id", interaction.ID,
		"user_id", interaction.UserID,
		"new_verifications", len(materialized.Verifications),
	)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.SubmitResponse{
		UserID:        interaction.UserID,
		Verifications: len(materialized.Verifications),
		Skipped:       materialized.Skipped != nil && *materialized.Skipped,
	})
}

// buildSummary flattens the engine's binding state into the wire summary.
// Slices are always non-nil so clients see [] rather than null.
func buildSummary(engine *service.BindingEngine) mfasdk.MfaSummaryResponse {
	summary := mfasdk.MfaSummaryResponse{
		Skipped:        engine.Skipped(),
		PendingFactors: []string{},
		PendingBinds:   []mfasdk.PendingBindSummary{},
	}

	for _, bind := range engine.PendingBinds() {
		entry := mfasdk.PendingBindSummary{Kind: string(bind.Kind)}
		if bind.WebAuthn != nil {
			entry.CredentialID = bind.WebAuthn.CredentialID
		}
		if bind.BackupCode != nil {
			entry.CodeCount = len(bind.BackupCode.Codes)
		}
		summary.PendingBinds = append(summary.PendingBinds, entry)

		found := false
		for _, kind := range summary.PendingFactors {
			if kind == string(bind.Kind) {
				found = true
				break
			}
		}
		if !found {
			summary.PendingFactors = append(summary.PendingFactors, string(bind.Kind))
		}
	}

	return summary
}
