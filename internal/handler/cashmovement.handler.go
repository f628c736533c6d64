// internal/handler/cashmovement.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type cashMovementRequest struct {
	Date                 time.Time `json:"date"`
	Amount               string    `json:"amount"`
	Direction            string    `json:"direction"`
	LiquidityAccountName string    `json:"liquidity_account_name"`
	CategoryID           *string   `json:"category_id,omitempty"`
	Note                 string    `json:"note,omitempty"`
}

func (b cashMovementRequest) toInput() (usecase.CashMovementInput, error) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		return usecase.CashMovementInput{}, err
	}
	direction, err := domain.ParseMovementDirection(b.Direction)
	if err != nil {
		return usecase.CashMovementInput{}, err
	}
	return usecase.CashMovementInput{
		AccountName: b.LiquidityAccountName,
		CategoryID:  b.CategoryID,
		Date:        b.Date,
		Amount:      amount,
		Direction:   direction,
		Note:        b.Note,
	}, nil
}

func CreateCashMovementHandler(uc *usecase.CashMovementUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		var body cashMovementRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		movement, err := uc.Create(r.Context(), portfolioID, userID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, movement)
	}
}

func UpdateCashMovementHandler(uc *usecase.CashMovementUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var body cashMovementRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		movement, err := uc.Update(r.Context(), portfolioID, id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, movement)
	}
}

func DeleteCashMovementHandler(uc *usecase.CashMovementUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		if err := uc.Delete(r.Context(), portfolioID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetCashMovementHandler(uc *usecase.CashMovementUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		movement, err := uc.Get(r.Context(), portfolioID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, movement)
	}
}

func ListCashMovementsHandler(uc *usecase.CashMovementUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		movements, err := uc.List(r.Context(), portfolioID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, movements)
	}
}
