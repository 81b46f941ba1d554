package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/duelsmp/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeDuplicatePlayer     = "DUPLICATE_PLAYER"
	CodeDuelNotFound        = "DUEL_NOT_FOUND"
	CodeInvalidPlayers      = "INVALID_PLAYERS"
	CodeInvalidBet          = "INVALID_BET"
	CodeInsufficientHearts  = "INSUFFICIENT_HEARTS"
	CodeAlreadyComplete     = "ALREADY_COMPLETE"
	CodeInvalidWinner       = "INVALID_WINNER"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeConflict            = "CONFLICT"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusOf returns the HTTP status an error maps to
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Model errors keep their wrapped message so the caller sees the context.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return newHTTPError(http.StatusNotFound, CodePlayerNotFound, err)
	case errors.Is(err, model.ErrDuelNotFound):
		return newHTTPError(http.StatusNotFound, CodeDuelNotFound, err)
	case errors.Is(err, model.ErrDuplicatePlayer):
		return newHTTPError(http.StatusConflict, CodeDuplicatePlayer, err)
	case errors.Is(err, model.ErrInvalidPlayerInput):
		return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, err)
	case errors.Is(err, model.ErrInvalidPlayers):
		return newHTTPError(http.StatusUnprocessableEntity, CodeInvalidPlayers, err)
	case errors.Is(err, model.ErrInvalidBet):
		return newHTTPError(http.StatusUnprocessableEntity, CodeInvalidBet, err)
	case errors.Is(err, model.ErrInsufficientHearts):
		return newHTTPError(http.StatusUnprocessableEntity, CodeInsufficientHearts, err)
	case errors.Is(err, model.ErrInvalidWinner):
		return newHTTPError(http.StatusUnprocessableEntity, CodeInvalidWinner, err)
	case errors.Is(err, model.ErrInvalidAmount):
		return newHTTPError(http.StatusUnprocessableEntity, CodeInvalidAmount, err)
	case errors.Is(err, model.ErrAlreadyComplete):
		return newHTTPError(http.StatusConflict, CodeAlreadyComplete, err)
	case errors.Is(err, model.ErrInsufficientPlayers):
		return newHTTPError(http.StatusConflict, CodeInsufficientPlayers, err)
	case errors.Is(err, model.ErrConcurrentModification):
		return newHTTPError(http.StatusConflict, CodeConflict, err)
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func newHTTPError(status int, code string, err error) *httpError {
	return &httpError{status, APIError{code, err.Error()}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
