// internal/handler/summary.go
package handler

import (
	"net/http"

	"portfolio-service/internal/repository"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/response"
)

func PortfolioSummaryHandler(uc *usecase.SummaryUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		summary, err := uc.Get(r.Context(), portfolioID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, summary)
	}
}
