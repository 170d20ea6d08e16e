package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
	"github.com/aussiebroadwan/mfabind/pkg/jwtx"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
	"github.com/aussiebroadwan/mfabind/pkg/slogx"
)

// InteractionHandler opens new interactions and mints their tokens.
type InteractionHandler struct {
	InteractionService *service.InteractionService
	Signer             *jwtx.EdDSASigner
	Issuer             string
	TTL                time.Duration
}

// HandleStart handles POST /v1/interaction
//
//	@Summary		Start an MFA binding interaction
//	@Description	Identifies the user by username and password and opens a fresh interaction.
//	@Description	Returns a short-lived interaction token the client must present on every subsequent call.
//	@Tags			Interaction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfasdk.StartInteractionRequest	true	"User credentials"
//	@Success		200		{object}	mfasdk.StartInteractionResponse	"Interaction token"
//	@Failure		400		{object}	mfasdk.APIError					"Invalid request body"
//	@Failure		401		{object}	mfasdk.APIError					"Invalid credentials"
//	@Failure		500		{object}	mfasdk.APIError					"Internal server error"
//	@Router			/v1/interaction [post].
func (h *InteractionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req mfasdk.StartInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		writeInvalidRequest(w, "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeInvalidRequest(w, "username and password are required")
		return
	}

	interaction, err := h.InteractionService.Start(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("invalid credentials", "username", req.Username)
			(&mfasdk.APIError{
				StatusCode:  http.StatusUnauthorized,
				Code:        mfasdk.ErrorCodeInvalidCredentials,
				Description: "Invalid username or password",
			}).WriteError(w)
			return
		}
		log.Error("failed to start interaction", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	ttl := h.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultInteractionTTL
	}

	claims := jwtx.NewInteractionClaims(interaction.ID, interaction.UserID, h.Issuer, ttl, time.Now())
	token, err := h.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign interaction token", "err", err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("interaction started", "interaction_id", interaction.ID, "user_id", interaction.UserID)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, mfasdk.StartInteractionResponse{
		InteractionToken: token,
		ExpiresIn:        int(ttl.Seconds()),
	})
}
