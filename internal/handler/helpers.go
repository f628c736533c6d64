package handler

import (
	"errors"
	"net/http"

	"portfolio-service/internal/middleware"
	"portfolio-service/internal/repository"
	"portfolio-service/pkg/response"
	"portfolio-service/pkg/xerrors"

	log "github.com/sirupsen/logrus"
)

// callerScope resolves the authenticated user and their portfolio. A false
// return means the response has already been written.
func callerScope(w http.ResponseWriter, r *http.Request, portfolios repository.PortfolioRepository) (userID, portfolioID string, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing authenticated user")
		return "", "", false
	}
	p, err := portfolios.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Portfolio not found")
		} else {
			log.WithError(err).Error("failed to resolve portfolio")
			response.Error(w, http.StatusInternalServerError, "internal server error")
		}
		return "", "", false
	}
	return userID, p.ID, true
}

// writeError maps usecase errors onto HTTP statuses. NotFound keeps its
// entity-specific message; anything unclassified becomes a plain 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, xerrors.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, xerrors.ErrInvalidInput), errors.Is(err, xerrors.ErrInvalidDirection):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, xerrors.ErrAccountExists):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("request failed")
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
