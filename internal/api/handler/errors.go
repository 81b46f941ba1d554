package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/duelsmp/internal/api/apierr"
	"github.com/mcoot/duelsmp/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody decodes a JSON request body, rejecting unknown fields
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

// Publisher receives ladder events after successful mutations
type Publisher interface {
	PlayerEvent(eventType model.EventType, id model.PlayerID)
	DuelEvent(eventType model.EventType, duel *model.Duel)
}
