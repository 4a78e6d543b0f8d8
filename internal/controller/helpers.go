package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
)

var validate = newRequestValidator()

type errorMapping struct {
	err    error
	status int
	code   string
}

// Order matters: ErrCircuitOpen must be matched before the provider errors.
var errorMappings = []errorMapping{
	{domainErrors.ErrSignatureMismatch, http.StatusUnauthorized, "signature_mismatch"},
	{domainErrors.ErrTransactionNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrNotificationNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
	{domainErrors.ErrInvalidInput, http.StatusConflict, "conflict"},
	{domainErrors.ErrOrderMismatch, http.StatusUnprocessableEntity, "order_mismatch"},
	{domainErrors.ErrUnknownTemplate, http.StatusBadRequest, "unknown_template"},
	{domainErrors.ErrCircuitOpen, http.StatusServiceUnavailable, "provider_unavailable"},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		resp.Code = "validation_error"
		resp.Details = reqErr.Details
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		resp.Details = map[string]string{validationErr.Field: validationErr.Message}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	// Provider rejections surface the provider's own description.
	var gatewayErr *domainErrors.GatewayError
	if errors.As(err, &gatewayErr) {
		resp.Code = "gateway_error"
		if gatewayErr.Message != "" {
			resp.Error = gatewayErr.Message
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	var dispatchErr *domainErrors.DispatchError
	if errors.As(err, &dispatchErr) {
		resp.Code = "dispatch_error"
		if dispatchErr.Message != "" {
			resp.Error = dispatchErr.Message
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

const maxRequestBody = 1 << 20

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return validate.Struct(dst)
}

func parseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domainErrors.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainErrors.NewValidationError(key, "must be an integer")
	}
	return n, nil
}
