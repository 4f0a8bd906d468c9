package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/feastline/feastline-backend/api/middleware"
	pkgerrors "github.com/feastline/feastline-backend/pkg/errors"
)

// actorUserID extracts the authenticated user's id from the request context.
func actorUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}
