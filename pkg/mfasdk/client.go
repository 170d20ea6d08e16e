package mfasdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the MFA binding service. Start an interaction to
// obtain a Session, then drive the binding flow through it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new MFA binding service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// StartInteraction identifies the user and returns an authenticated
// Session for the new interaction.
func (c *Client) StartInteraction(ctx context.Context, username, password string) (*Session, error) {
	var resp StartInteractionResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/interaction", "",
		StartInteractionRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	return &Session{client: c, token: resp.InteractionToken}, nil
}

// SessionFromToken rebuilds a Session from a previously issued
// interaction token, the counterpart of Session.Token.
func (c *Client) SessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Session is an authenticated handle on one in-flight interaction.
type Session struct {
	client *Client
	token  string
}

// Token returns the raw interaction token, e.g. for persisting across
// client restarts.
func (s *Session) Token() string { return s.token }

// MfaSummary fetches the current skipped flag and pending-bind summary.
func (s *Session) MfaSummary(ctx context.Context) (MfaSummaryResponse, error) {
	var resp MfaSummaryResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/v1/interaction/mfa", s.token, nil, &resp)
	return resp, err
}

// SkipMfa opts the user out of MFA binding. Fails unless the tenant policy
// is user-controlled.
func (s *Session) SkipMfa(ctx context.Context) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/mfa/skip", s.token, nil, nil)
}

// RequestTotpChallenge issues a fresh TOTP secret for enrollment.
func (s *Session) RequestTotpChallenge(ctx context.Context) (TotpChallengeResponse, error) {
	var resp TotpChallengeResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/verifications/totp", s.token, nil, &resp)
	return resp, err
}

// VerifyTotp completes a TOTP challenge with a code from the authenticator.
func (s *Session) VerifyTotp(ctx context.Context, verificationID, code string) (VerifiedResponse, error) {
	var resp VerifiedResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/verifications/totp/verify", s.token,
		TotpVerifyRequest{VerificationID: verificationID, Code: code}, &resp)
	return resp, err
}

// RequestWebAuthnChallenge issues a WebAuthn registration challenge.
func (s *Session) RequestWebAuthnChallenge(ctx context.Context) (WebAuthnChallengeResponse, error) {
	var resp WebAuthnChallengeResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/verifications/webauthn", s.token, nil, &resp)
	return resp, err
}

// VerifyWebAuthn completes a WebAuthn challenge with the authenticator's
// registration payload.
func (s *Session) VerifyWebAuthn(ctx context.Context, req WebAuthnVerifyRequest) (VerifiedResponse, error) {
	var resp VerifiedResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/verifications/webauthn/verify", s.token, req, &resp)
	return resp, err
}

// BindTotp stages a completed TOTP verification as a pending bind.
func (s *Session) BindTotp(ctx context.Context, verificationID string) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/mfa/totp", s.token,
		BindFactorRequest{VerificationID: verificationID}, nil)
}

// BindWebAuthn stages a completed WebAuthn verification as a pending bind.
func (s *Session) BindWebAuthn(ctx context.Context, verificationID string) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/mfa/webauthn", s.token,
		BindFactorRequest{VerificationID: verificationID}, nil)
}

// GenerateBackupCodes generates fresh backup codes for one-time display.
// They must be confirmed with ConfirmBackupCodes before they take effect.
func (s *Session) GenerateBackupCodes(ctx context.Context) (BackupCodesResponse, error) {
	var resp BackupCodesResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/mfa/backup-codes", s.token, nil, &resp)
	return resp, err
}

// ConfirmBackupCodes confirms the previously generated backup codes were
// received and stages them as a pending bind.
func (s *Session) ConfirmBackupCodes(ctx context.Context) error {
	return s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/mfa/backup-codes/confirm", s.token, nil, nil)
}

// Submit enforces policy and persists the accumulated bindings. On success
// the interaction is consumed and the session is no longer valid.
func (s *Session) Submit(ctx context.Context) (SubmitResponse, error) {
	var resp SubmitResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/v1/interaction/submit", s.token, nil, &resp)
	return resp, err
}

// Livez checks service liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/livez", "", nil, &resp)
	return resp, err
}

// Readyz checks service readiness, including its critical dependencies.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, &resp)
	return resp, err
}

// doJSON performs a JSON round trip, decoding error envelopes into
// *APIError so callers can branch on machine codes.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(blob)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("mfasdk: unexpected status %d", resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
