// internal/handler/account.go
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

type accountRequest struct {
	Name        string     `json:"name"`
	Institution string     `json:"institution"`
	Currency    string     `json:"currency"`
	Balance     string     `json:"balance,omitempty"`
	OpenedAt    *time.Time `json:"opened_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	Note        string     `json:"note,omitempty"`
}

func (b accountRequest) toInput() (usecase.AccountInput, error) {
	balance := decimal.Zero
	if b.Balance != "" {
		var err error
		balance, err = decimal.NewFromString(b.Balance)
		if err != nil {
			return usecase.AccountInput{}, err
		}
	}
	return usecase.AccountInput{
		Name:        b.Name,
		Institution: b.Institution,
		Currency:    b.Currency,
		Balance:     balance,
		OpenedAt:    b.OpenedAt,
		ClosedAt:    b.ClosedAt,
		Note:        b.Note,
	}, nil
}

func CreateAccountHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		var body accountRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		account, err := uc.Create(r.Context(), portfolioID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, account)
	}
}

func UpdateAccountHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var body accountRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		account, err := uc.Update(r.Context(), portfolioID, id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, account)
	}
}

func DeleteAccountHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
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

func GetAccountHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		account, err := uc.Get(r.Context(), portfolioID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, account)
	}
}

func ListAccountsHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		accounts, err := uc.List(r.Context(), portfolioID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, accounts)
	}
}

// AuditAccountHandler reports the cached balance next to the fold over the
// account's effect records.
func AuditAccountHandler(uc *usecase.AccountUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		audit, err := uc.Audit(r.Context(), portfolioID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, audit)
	}
}
