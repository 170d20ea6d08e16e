package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/internal/mfabind/store"
	"github.com/aussiebroadwan/mfabind/pkg/httpx"
	"github.com/aussiebroadwan/mfabind/pkg/jwtx"
	"github.com/aussiebroadwan/mfabind/pkg/slogx"

	_ "github.com/aussiebroadwan/mfabind/api/mfabind" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	signer       *jwtx.EdDSASigner
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	InteractionService  *service.InteractionService
	VerificationService *service.VerificationService
}

func NewRouter(
	keys *jwtx.KeySet,
	signer *jwtx.EdDSASigner,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		signer:       signer,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInteraction()
	r.registerVerifications()
	r.registerMFA()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MFA Binding Service API
//	@version		0.1.0
//	@description	Interaction-scoped MFA enrollment service: identify a user, accumulate
//	@description	TOTP, WebAuthn, and backup-code bindings through challenge verification,
//	@description	then commit them atomically against tenant sign-in policy.
//	@description
//	@description				Interaction tokens are EdDSA-signed JWTs scoped to a single binding flow.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/mfabind
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Interaction token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInteraction() {
	h := &InteractionHandler{
		InteractionService: r.InteractionService,
		Signer:             r.signer,
		Issuer:             r.issuer,
		TTL:                r.InteractionService.TTL,
	}

	// POST /interaction - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/interaction",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerVerifications() {
	h := &VerificationsHandler{
		InteractionService:  r.InteractionService,
		VerificationService: r.VerificationService,
		Store:               r.store,
	}

	// Challenge issuance - moderate rate limit by interaction
	securedNewTotp := httpx.Chain(http.HandlerFunc(h.HandleNewTotp),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByInteraction(httpx.ModerateLimit),
	)
	securedNewWebAuthn := httpx.Chain(http.HandlerFunc(h.HandleNewWebAuthn),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByInteraction(httpx.ModerateLimit),
	)

	// Challenge completion - strict rate limit (prevent brute force of TOTP codes)
	securedVerifyTotp := httpx.Chain(http.HandlerFunc(h.HandleVerifyTotp),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByInteraction(httpx.StrictLimit),
	)
	securedVerifyWebAuthn := httpx.Chain(http.HandlerFunc(h.HandleVerifyWebAuthn),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByInteraction(httpx.StrictLimit),
	)

	r.Mux.Handle("POST /v1/interaction/verifications/totp", securedNewTotp)
	r.Mux.Handle("POST /v1/interaction/verifications/totp/verify", securedVerifyTotp)
	r.Mux.Handle("POST /v1/interaction/verifications/webauthn", securedNewWebAuthn)
	r.Mux.Handle("POST /v1/interaction/verifications/webauthn/verify", securedVerifyWebAuthn)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{InteractionService: r.InteractionService}

	secured := func(handler http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByInteraction(limit),
		)
	}

	r.Mux.Handle("GET /v1/interaction/mfa", secured(h.HandleSummary, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/interaction/mfa/skip", secured(h.HandleSkip, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/interaction/mfa/totp", secured(h.HandleBindTotp, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/interaction/mfa/webauthn", secured(h.HandleBindWebAuthn, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/interaction/mfa/backup-codes", secured(h.HandleGenerateBackupCodes, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/interaction/mfa/backup-codes/confirm", secured(h.HandleConfirmBackupCodes, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/interaction/submit", secured(h.HandleSubmit, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
