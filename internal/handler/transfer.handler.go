// internal/handler/transfer.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"portfolio-service/internal/repository"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type transferRequest struct {
	Date            time.Time `json:"date"`
	Amount          string    `json:"amount"`
	FromAccountName string    `json:"from_account_name"`
	ToAccountName   string    `json:"to_account_name"`
	Note            string    `json:"note,omitempty"`
}

func (b transferRequest) toInput() (usecase.TransferInput, error) {
	amount, err := decimal.NewFromString(b.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}
	return usecase.TransferInput{
		FromAccountName: b.FromAccountName,
		ToAccountName:   b.ToAccountName,
		Date:            b.Date,
		Amount:          amount,
		Note:            b.Note,
	}, nil
}

func CreateTransferHandler(uc *usecase.TransferUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		var body transferRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		transfer, err := uc.Create(r.Context(), portfolioID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, transfer)
	}
}

func UpdateTransferHandler(uc *usecase.TransferUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var body transferRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		transfer, err := uc.Update(r.Context(), portfolioID, id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, transfer)
	}
}

func DeleteTransferHandler(uc *usecase.TransferUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
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

func GetTransferHandler(uc *usecase.TransferUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		transfer, err := uc.Get(r.Context(), portfolioID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, transfer)
	}
}

func ListTransfersHandler(uc *usecase.TransferUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		transfers, err := uc.List(r.Context(), portfolioID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, transfers)
	}
}
