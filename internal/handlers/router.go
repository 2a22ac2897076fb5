package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"nftmarket/internal/config"
	"nftmarket/internal/db"
	"nftmarket/internal/middleware"
	"nftmarket/internal/services"
	"nftmarket/internal/websocket"
)

type Handler struct {
	cfg          config.Config
	txRunner     db.TxRunner
	roles        middleware.RoleStore
	users        UserStore
	balances     BalanceStore
	deposits     DepositStore
	withdrawals  WithdrawalStore
	transactions TransactionStore
	categories   CategoryStore
	nfts         NFTStore
	newsletter   NewsletterStore
	audit        AuditStore
	accounts     AccountService
	requests     RequestService
	approvals    ApprovalService
	nftService   NFTService
	reports      ReportService
	hub          *websocket.Hub
	log          *zap.Logger
}

type Deps struct {
	Cfg          config.Config
	TxRunner     db.TxRunner
	Roles        middleware.RoleStore
	Users        UserStore
	Balances     BalanceStore
	Deposits     DepositStore
	Withdrawals  WithdrawalStore
	Transactions TransactionStore
	Categories   CategoryStore
	NFTs         NFTStore
	Newsletter   NewsletterStore
	Audit        AuditStore
	Accounts     AccountService
	Requests     RequestService
	Approvals    ApprovalService
	NFTService   NFTService
	Reports      ReportService
	Hub          *websocket.Hub
	Log          *zap.Logger
}

func New(deps Deps) *Handler {
	return &Handler{
		cfg:          deps.Cfg,
		txRunner:     deps.TxRunner,
		roles:        deps.Roles,
		users:        deps.Users,
		balances:     deps.Balances,
		deposits:     deps.Deposits,
		withdrawals:  deps.Withdrawals,
		transactions: deps.Transactions,
		categories:   deps.Categories,
		nfts:         deps.NFTs,
		newsletter:   deps.Newsletter,
		audit:        deps.Audit,
		accounts:     deps.Accounts,
		requests:     deps.Requests,
		approvals:    deps.Approvals,
		nftService:   deps.NFTService,
		reports:      deps.Reports,
		hub:          deps.Hub,
		log:          deps.Log,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret, h.roles)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(authed).Get("/me", h.Me)
		})
		r.With(authed).Put("/users/profile", h.UpdateProfile)

		r.Get("/categories", h.ListActiveCategories)

		r.Route("/newsletter", func(r chi.Router) {
			r.Post("/subscribe", h.NewsletterSubscribe)
			r.Post("/unsubscribe", h.NewsletterUnsubscribe)
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/deposits", h.SubmitDeposit)
			r.Get("/deposits", h.ListMyDeposits)
			r.Post("/withdrawals", h.SubmitWithdrawal)
			r.Get("/withdrawals", h.ListMyWithdrawals)
			r.Get("/transactions", h.ListMyTransactions)
			r.Get("/balances", h.ListMyBalances)
			r.Post("/nfts", h.SubmitNFT)
			r.Get("/nfts", h.ListNFTs)
			r.Get("/nfts/{id}", h.GetNFT)
			r.Put("/nfts/{id}", h.ProcessNFT)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed)
			r.Use(middleware.RequireAdmin)
			r.Get("/categories", h.AdminListCategories)
			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Get("/deposits", h.AdminListDeposits)
			r.Put("/deposits/{id}", h.ProcessDeposit)
			r.Get("/withdrawals", h.AdminListWithdrawals)
			r.Put("/withdrawals/{id}", h.ProcessWithdrawal)
			r.Get("/transactions", h.AdminListTransactions)
			r.Get("/users", h.AdminListUsers)
			r.Post("/users/promote", h.PromoteUser)
			r.Get("/newsletter", h.AdminListNewsletter)
			r.Get("/stats/detailed", h.DetailedStats)
			r.Get("/audit", h.ListAuditLogs)
			r.Get("/reconcile", h.Reconcile)
		})
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

// serviceError maps the services package errors onto HTTP statuses; anything
// unrecognized becomes a 500 with the cause logged server-side only.
func (h *Handler) serviceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrAlreadyProcessed),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCategoryInactive),
		errors.Is(err, services.ErrFloorPriceTooLow),
		errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrInvalidNetwork),
		errors.Is(err, services.ErrNonPositiveAmount),
		errors.Is(err, services.ErrInvalidWithdrawalType),
		errors.Is(err, services.ErrMissingDestination):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error(fallback, zap.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
