package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nftmarket/internal/config"
	"nftmarket/internal/db"
	"nftmarket/internal/handlers"
	"nftmarket/internal/mailer"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close()

	users := store.NewUserStore(database)
	balances := store.NewBalanceStore(database)
	deposits := store.NewDepositStore(database)
	withdrawals := store.NewWithdrawalStore(database)
	transactions := store.NewTransactionStore(database)
	categories := store.NewCategoryStore(database)
	nfts := store.NewNFTStore(database)
	newsletter := store.NewNewsletterStore(database)
	audit := store.NewAuditStore(database)
	stats := store.NewStatsStore(database)
	txRunner := db.NewTxRunner(database)

	hub := websocket.NewHub()
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)

	accountService := services.NewAccountService(txRunner, users, balances, audit)
	requestService := services.NewRequestService(txRunner, users, deposits, withdrawals, audit, mail, logger)
	approvalService := services.NewApprovalService(services.ApprovalDeps{
		TxRunner:     txRunner,
		Users:        users,
		Balances:     balances,
		Deposits:     deposits,
		Withdrawals:  withdrawals,
		Transactions: transactions,
		Audit:        audit,
		Hub:          hub,
		Mail:         mail,
		Log:          logger,
	})
	nftService := services.NewNFTService(services.NFTDeps{
		TxRunner:   txRunner,
		Users:      users,
		Balances:   balances,
		NFTs:       nfts,
		Categories: categories,
		Audit:      audit,
		Hub:        hub,
		Mail:       mail,
		Log:        logger,
	})
	reportService := services.NewReportService(stats)

	handler := handlers.New(handlers.Deps{
		Cfg:          cfg,
		TxRunner:     txRunner,
		Roles:        users,
		Users:        users,
		Balances:     balances,
		Deposits:     deposits,
		Withdrawals:  withdrawals,
		Transactions: transactions,
		Categories:   categories,
		NFTs:         nfts,
		Newsletter:   newsletter,
		Audit:        audit,
		Accounts:     accountService,
		Requests:     requestService,
		Approvals:    approvalService,
		NFTService:   nftService,
		Reports:      reportService,
		Hub:          hub,
		Log:          logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("marketplace API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
