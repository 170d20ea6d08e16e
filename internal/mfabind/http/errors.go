package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/mfabind/internal/mfabind/service"
	"github.com/aussiebroadwan/mfabind/pkg/mfasdk"
	"github.com/aussiebroadwan/mfabind/pkg/slogx"
)

// writeServiceError maps engine/service errors onto the APIError envelope.
// Policy violations and conflicts are semantic failures on a well-formed
// request, so they surface as 422; missing referenced state is 404; broken
// tenant configuration is a server fault.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var policyErr *service.PolicyViolationError
	if errors.As(err, &policyErr) {
		apiErr := &mfasdk.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       policyErr.Code,
			Skippable:  policyErr.Skippable,
		}
		for _, f := range policyErr.AvailableFactors {
			apiErr.AvailableFactors = append(apiErr.AvailableFactors, string(f))
		}
		apiErr.WriteError(w)
		return
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		(&mfasdk.APIError{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       conflictErr.Code,
		}).WriteError(w)
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		(&mfasdk.APIError{
			StatusCode: http.StatusNotFound,
			Code:       notFoundErr.Code,
		}).WriteError(w)
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		(&mfasdk.APIError{
			StatusCode: http.StatusBadRequest,
			Code:       validationErr.Code,
		}).WriteError(w)
		return
	}

	var configErr *service.ConfigError
	if errors.As(err, &configErr) {
		log.Error("invalid sign-in experience configuration", "reason", configErr.Reason, "err", configErr.Err)
		mfasdk.ErrServerError.WriteError(w)
		return
	}

	log.Error("unhandled service error", "err", err)
	mfasdk.ErrServerError.WriteError(w)
}

// writeInvalidRequest reports a malformed request body.
func writeInvalidRequest(w http.ResponseWriter, desc string) {
	(&mfasdk.APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        mfasdk.ErrorCodeInvalidRequest,
		Description: desc,
	}).WriteError(w)
}
