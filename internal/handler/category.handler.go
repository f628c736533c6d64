// internal/handler/category.go
package handler

import (
	"encoding/json"
	"net/http"

	"portfolio-service/internal/domain"
	"portfolio-service/internal/middleware"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/response"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Type     string  `json:"type"`
}

func (b categoryRequest) toInput() usecase.CategoryInput {
	return usecase.CategoryInput{
		ParentID: b.ParentID,
		Name:     b.Name,
		Color:    b.Color,
		Type:     domain.CategoryType(b.Type),
	}
}

func callerUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Missing authenticated user")
		return "", false
	}
	return userID, true
}

func CreateCategoryHandler(uc *usecase.CategoryUsecase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerUser(w, r)
		if !ok {
			return
		}

		var body categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		category, err := uc.Create(r.Context(), userID, body.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, category)
	}
}

func UpdateCategoryHandler(uc *usecase.CategoryUsecase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		var body categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		category, err := uc.Update(r.Context(), userID, id, body.toInput())
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, category)
	}
}

func DeleteCategoryHandler(uc *usecase.CategoryUsecase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		if err := uc.Delete(r.Context(), userID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func GetCategoryHandler(uc *usecase.CategoryUsecase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerUser(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		category, err := uc.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, category)
	}
}

func ListCategoriesHandler(uc *usecase.CategoryUsecase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerUser(w, r)
		if !ok {
			return
		}

		categories, err := uc.List(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, categories)
	}
}
