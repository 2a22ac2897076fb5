package handlers

import (
	"context"
	"time"

	"nftmarket/internal/services"
	"nftmarket/internal/store"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.User, error)
	List(ctx context.Context, params store.ListParams) ([]store.User, int, error)
}

type BalanceStore interface {
	GetByUser(ctx context.Context, userID string) ([]store.Balance, error)
}

type DepositStore interface {
	GetByID(ctx context.Context, depositID string) (store.Deposit, error)
	ListByUser(ctx context.Context, userID string, params store.ListParams) ([]store.Deposit, int, error)
	ListAll(ctx context.Context, params store.ListParams) ([]store.Deposit, int, error)
}

type WithdrawalStore interface {
	GetByID(ctx context.Context, withdrawalID string) (store.Withdrawal, error)
	ListByUser(ctx context.Context, userID string, params store.ListParams) ([]store.Withdrawal, int, error)
	ListAll(ctx context.Context, params store.ListParams) ([]store.Withdrawal, int, error)
}

type TransactionStore interface {
	ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error)
	ListAll(ctx context.Context, limit, offset int) ([]store.Transaction, error)
}

type CategoryStore interface {
	Create(ctx context.Context, tx store.Execer, input store.CategoryInput) error
	Update(ctx context.Context, tx store.Execer, input store.CategoryInput) error
	Delete(ctx context.Context, tx store.Execer, categoryID string) error
	GetByID(ctx context.Context, categoryID string) (store.Category, error)
	ListAll(ctx context.Context) ([]store.Category, error)
	ListActive(ctx context.Context) ([]store.Category, error)
	CountNFTs(ctx context.Context, categoryID string) (int, error)
}

type NFTStore interface {
	GetByID(ctx context.Context, nftID string) (store.NFT, error)
	ListByOwner(ctx context.Context, ownerID string, params store.ListParams) ([]store.NFT, int, error)
	ListAll(ctx context.Context, params store.ListParams) ([]store.NFT, int, error)
}

type NewsletterStore interface {
	Subscribe(ctx context.Context, tx store.Execer, id, email, name string) error
	Unsubscribe(ctx context.Context, tx store.Execer, email string) (int64, error)
	List(ctx context.Context, params store.ListParams) ([]store.NewsletterSubscription, int, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type AccountService interface {
	Register(ctx context.Context, username, email, password string) (store.User, error)
	Login(ctx context.Context, email, password string) (store.User, error)
	UpdateProfile(ctx context.Context, userID string, newsletter bool) error
	Promote(ctx context.Context, adminID, userID string) error
}

type RequestService interface {
	SubmitDeposit(ctx context.Context, input services.SubmitDepositInput) (string, error)
	SubmitWithdrawal(ctx context.Context, input services.SubmitWithdrawalInput) (string, error)
}

type ApprovalService interface {
	ApproveDeposit(ctx context.Context, adminID, depositID, adminNote string) error
	DeclineDeposit(ctx context.Context, adminID, depositID, adminNote string) error
	ApproveWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error
	DeclineWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error
}

type NFTService interface {
	Submit(ctx context.Context, input services.SubmitNFTInput) (string, error)
	Approve(ctx context.Context, adminID, nftID, adminNote string) error
	Decline(ctx context.Context, adminID, nftID, adminNote string) error
	ToggleActive(ctx context.Context, actorID, actorRole, nftID string) (bool, error)
}

type ReportService interface {
	Detailed(ctx context.Context, start, end time.Time) (services.DetailedStats, error)
	Reconcile(ctx context.Context) ([]services.ReconcileEntry, error)
}
