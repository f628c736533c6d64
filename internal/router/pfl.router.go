package router

import (
	"portfolio-service/internal/handler"
	"portfolio-service/internal/middleware"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Usecases struct {
	Account      *usecase.AccountUsecase
	CashMovement *usecase.CashMovementUsecase
	Transfer     *usecase.TransferUsecase
	Category     *usecase.CategoryUsecase
	Asset        *usecase.AssetUsecase
	Summary      *usecase.SummaryUsecase
}

func New(auth *middleware.AuthMiddleware, uc Usecases, portfolios repository.PortfolioRepository) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/user", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", handler.ListCategoriesHandler(uc.Category))
				r.Post("/", handler.CreateCategoryHandler(uc.Category))
				r.Get("/{id}", handler.GetCategoryHandler(uc.Category))
				r.Put("/{id}", handler.UpdateCategoryHandler(uc.Category))
				r.Delete("/{id}", handler.DeleteCategoryHandler(uc.Category))
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/summary", handler.PortfolioSummaryHandler(uc.Summary, portfolios))

				r.Route("/liquidity-accounts", func(r chi.Router) {
					r.Get("/", handler.ListAccountsHandler(uc.Account, portfolios))
					r.Post("/", handler.CreateAccountHandler(uc.Account, portfolios))

					r.Route("/cash-movements", func(r chi.Router) {
						r.Get("/", handler.ListCashMovementsHandler(uc.CashMovement, portfolios))
						r.Post("/", handler.CreateCashMovementHandler(uc.CashMovement, portfolios))
						r.Get("/{id}", handler.GetCashMovementHandler(uc.CashMovement, portfolios))
						r.Put("/{id}", handler.UpdateCashMovementHandler(uc.CashMovement, portfolios))
						r.Delete("/{id}", handler.DeleteCashMovementHandler(uc.CashMovement, portfolios))
					})

					r.Route("/transfers", func(r chi.Router) {
						r.Get("/", handler.ListTransfersHandler(uc.Transfer, portfolios))
						r.Post("/", handler.CreateTransferHandler(uc.Transfer, portfolios))
						r.Get("/{id}", handler.GetTransferHandler(uc.Transfer, portfolios))
						r.Put("/{id}", handler.UpdateTransferHandler(uc.Transfer, portfolios))
						r.Delete("/{id}", handler.DeleteTransferHandler(uc.Transfer, portfolios))
					})

					r.Get("/{id}", handler.GetAccountHandler(uc.Account, portfolios))
					r.Put("/{id}", handler.UpdateAccountHandler(uc.Account, portfolios))
					r.Delete("/{id}", handler.DeleteAccountHandler(uc.Account, portfolios))
					r.Get("/{id}/audit", handler.AuditAccountHandler(uc.Account, portfolios))
				})

				r.Route("/illiquid-assets", func(r chi.Router) {
					r.Get("/", handler.ListAssetsHandler(uc.Asset, portfolios))
					r.Post("/", handler.CreateAssetHandler(uc.Asset, portfolios))
					r.Get("/{id}", handler.GetAssetHandler(uc.Asset, portfolios))
					r.Put("/{id}", handler.UpdateAssetHandler(uc.Asset, portfolios))
					r.Delete("/{id}", handler.DeleteAssetHandler(uc.Asset, portfolios))
				})
			})
		})
	})

	return r
}
