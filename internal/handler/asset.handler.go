// internal/handler/asset.go
package handler

import (
	"encoding/json"
	"net/http"

	"portfolio-service/internal/repository"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type assetRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	EstimatedValue string `json:"estimated_value"`
}

func (b assetRequest) toInput() (usecase.AssetInput, error) {
	value, err := decimal.NewFromString(b.EstimatedValue)
	if err != nil {
		return usecase.AssetInput{}, err
	}
	return usecase.AssetInput{
		Name:           b.Name,
		Description:    b.Description,
		EstimatedValue: value,
	}, nil
}

func CreateAssetHandler(uc *usecase.AssetUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		var body assetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		asset, err := uc.Create(r.Context(), portfolioID, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, asset)
	}
}

func UpdateAssetHandler(uc *usecase.AssetUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var body assetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		in, err := body.toInput()
		if err != nil {
			response.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		asset, err := uc.Update(r.Context(), portfolioID, id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, asset)
	}
}

func DeleteAssetHandler(uc *usecase.AssetUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
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

func GetAssetHandler(uc *usecase.AssetUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		asset, err := uc.Get(r.Context(), portfolioID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, asset)
	}
}

func ListAssetsHandler(uc *usecase.AssetUsecase, portfolios repository.PortfolioRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, portfolioID, ok := callerScope(w, r, portfolios)
		if !ok {
			return
		}

		assets, err := uc.List(r.Context(), portfolioID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, assets)
	}
}
