package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/server/middleware"
)

func TestFromBatchError(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDContextKey, "req-1")

	env := FromBatchError(ctx, core.ErrEmptyInput)
	require.Equal(t, CodeInvalidInput, env.Code)
	require.Equal(t, core.ErrEmptyInput.Error(), env.Message)
	require.Equal(t, "req-1", env.CorrelationID)

	env = FromBatchError(ctx, fmt.Errorf("prepare: %w", core.ErrNoValidNames))
	require.Equal(t, CodeNoValidNames, env.Code)
	require.Equal(t, http.StatusUnprocessableEntity, HTTPStatusFromEnvelope(env))

	env = FromBatchError(ctx, fmt.Errorf("boom"))
	require.Equal(t, CodeInternal, env.Code)
}

func TestRespondWithEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/lookup", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDContextKey, "req-2"))
	rec := httptest.NewRecorder()

	RespondWithEnvelope(rec, req, NewInvalidInputError("bad"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, CodeInvalidInput, body.Error.Code)
	require.Equal(t, "bad", body.Error.Message)
	require.Equal(t, "req-2", body.Error.RequestID)
}

func TestEnsureEnvelope(t *testing.T) {
	env := EnsureEnvelope(fmt.Errorf("plain"))
	require.Equal(t, CodeInternal, env.Code)
	require.Equal(t, "plain", ResponseDetails(env)["wrapped_error"])

	original := NewValidationError("v")
	require.Same(t, original, EnsureEnvelope(original))
}

func TestHTTPStatusFromCode(t *testing.T) {
	require.Equal(t, http.StatusGatewayTimeout, HTTPStatusFromCode(CodeTimeout))
	require.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatusFromCode(CodePayloadTooLarge))
	require.Equal(t, http.StatusInternalServerError, HTTPStatusFromCode("WHATEVER"))
}
