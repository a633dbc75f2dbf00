package server

import (
	"context"
	"net/http"
	"time"

	"examprep/internal/auth"
	"examprep/internal/catalog"
	"examprep/internal/config"
	"examprep/internal/entitlement"
	"examprep/internal/gate"
	"examprep/internal/notify"
	"examprep/internal/purchase"
	"examprep/internal/user"
	"examprep/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router     *gin.Engine
	http       *http.Server
	reconciler *purchase.Reconciler
}

// New wires every repository, service and handler onto one gin router.
func New(db *sqlx.DB, rdb redis.Cmdable, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	catalogRepo := catalog.NewCachedRepository(catalog.NewRepository(db), rdb, cfg.CatalogCacheTTL)
	purchaseRepo := purchase.NewRepository(db)

	userService := user.NewService(user.NewRepository(db), cfg.JWTSecret)
	catalogService := catalog.NewService(catalogRepo)
	walletService := wallet.NewService(wallet.NewRepository(db))
	purchaseService := purchase.NewService(purchaseRepo, catalogRepo, walletService, notifier)
	reconciler := purchase.NewReconciler(purchaseRepo, catalogRepo, notifier, cfg.ReconcileInterval)
	resolver := entitlement.NewResolver(catalogRepo, purchaseRepo)

	userHandler := user.NewHandler(userService)
	catalogHandler := catalog.NewHandler(catalogService)
	walletHandler := wallet.NewHandler(walletService)
	purchaseHandler := purchase.NewHandler(purchaseService, reconciler)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/exam-plans", catalogHandler.ListExamPlans)
		protected.GET("/exam-plans/:planID", gate.Guard(resolver, catalog.ItemExamPlan, "planID"), catalogHandler.GetExamPlan)
		protected.POST("/exam-plans/:planID/purchase", purchaseHandler.Purchase)
		protected.GET("/purchases", purchaseHandler.ListMine)

		protected.GET("/notes/:noteID/content", gate.Guard(resolver, catalog.ItemNote, "noteID"), catalogHandler.GetNoteContent)

		series := protected.Group("/test-series/:seriesID")
		series.Use(gate.Guard(resolver, catalog.ItemTestSeries, "seriesID"))
		{
			series.GET("/sections", catalogHandler.ListSections)
			series.GET("/sections/:sectionID/questions", catalogHandler.ListQuestions)
		}

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		for path, itemType := range map[string]catalog.ItemType{
			"/exam-plans":  catalog.ItemExamPlan,
			"/notes":       catalog.ItemNote,
			"/test-series": catalog.ItemTestSeries,
		} {
			admin.POST(path, catalogHandler.CreateItem(itemType))
			admin.GET(path, catalogHandler.ListItems(itemType))
			admin.PATCH(path+"/:id/status", catalogHandler.UpdateStatus(itemType))
		}
		admin.POST("/test-series/:id/sections", catalogHandler.AddSection)
		admin.POST("/test-series/:id/sections/:sectionID/questions", catalogHandler.AddQuestion)

		admin.POST("/purchases/reconcile", purchaseHandler.Reconcile)

		admin.POST("/notify/test", TestEmail(notifier))
		admin.GET("/notify/queue", EmailQueue(notifier))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router:     router,
		reconciler: reconciler,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Reconciler is the expiry job bound to this server's purchase store.
func (s *Server) Reconciler() *purchase.Reconciler {
	return s.reconciler
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
