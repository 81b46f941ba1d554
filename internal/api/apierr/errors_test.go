package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/duelsmp/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{model.ErrDuelNotFound, http.StatusNotFound, CodeDuelNotFound},
		{model.ErrDuplicatePlayer, http.StatusConflict, CodeDuplicatePlayer},
		{model.ErrInvalidPlayerInput, http.StatusBadRequest, CodeInvalidRequest},
		{model.ErrInvalidPlayers, http.StatusUnprocessableEntity, CodeInvalidPlayers},
		{model.ErrInvalidBet, http.StatusUnprocessableEntity, CodeInvalidBet},
		{model.ErrInsufficientHearts, http.StatusUnprocessableEntity, CodeInsufficientHearts},
		{model.ErrInvalidWinner, http.StatusUnprocessableEntity, CodeInvalidWinner},
		{model.ErrInvalidAmount, http.StatusUnprocessableEntity, CodeInvalidAmount},
		{model.ErrAlreadyComplete, http.StatusConflict, CodeAlreadyComplete},
		{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers},
		{fmt.Errorf("complete duel d1: %w", model.ErrConcurrentModification), http.StatusConflict, CodeConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
		{NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestWriteErrorKeepsWrappedContext(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: bob bet 4 with 2 hearts", model.ErrInsufficientHearts))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeInsufficientHearts, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "bob bet 4 with 2 hearts")
}

func TestInternalErrorHidesDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("connection refused 10.0.0.3:6379"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}
