package server

import (
	"context"
	"net/http"
	"time"

	"portfolio-service/internal/cache"
	"portfolio-service/internal/config"
	"portfolio-service/internal/middleware"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/router"
	"portfolio-service/internal/usecase"
	"portfolio-service/pkg/jwtutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
	redis      *redis.Client
}

func New(cfg *config.Config) *Server {
	db := config.ConnectDB(cfg)
	redisClient := config.ConnectRedis(cfg)

	pub, err := jwtutil.LoadRSAPublicKeyFromPEM(cfg.JWTPubPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load JWT public key")
	}
	verifier := jwtutil.NewVerifier(pub, cfg.JWTIssuer, cfg.JWTAudience)
	auth := middleware.NewAuthMiddleware(verifier)

	accountRepo := repository.NewAccountRepo(db)
	movementRepo := repository.NewCashMovementRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	effectRepo := repository.NewEffectRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	assetRepo := repository.NewAssetRepo(db)
	portfolioRepo := repository.NewPortfolioRepo(db)

	summaryCache := cache.NewSummaryCache(redisClient)
	balanceUC := usecase.NewBalanceUsecase(accountRepo)

	uc := router.Usecases{
		Account:      usecase.NewAccountUsecase(accountRepo, effectRepo, summaryCache),
		CashMovement: usecase.NewCashMovementUsecase(movementRepo, accountRepo, categoryRepo, effectRepo, balanceUC, summaryCache),
		Transfer:     usecase.NewTransferUsecase(transferRepo, accountRepo, effectRepo, balanceUC, summaryCache),
		Category:     usecase.NewCategoryUsecase(categoryRepo),
		Asset:        usecase.NewAssetUsecase(assetRepo, summaryCache),
		Summary:      usecase.NewSummaryUsecase(accountRepo, assetRepo, summaryCache),
	}

	r := router.New(auth, uc, portfolioRepo)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		db:    db,
		redis: redisClient,
	}
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.db.Close()
	defer s.redis.Close()
	return s.httpServer.Shutdown(ctx)
}
