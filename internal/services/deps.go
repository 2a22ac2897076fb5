package services

import (
	"context"
	"errors"

	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

var (
	ErrAlreadyProcessed    = errors.New("request already processed")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInactive    = errors.New("category is not active")
	ErrFloorPriceTooLow    = errors.New("floor price below category minimum")
	ErrNotApproved         = errors.New("nft is not approved")
	ErrForbidden           = errors.New("not allowed")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (store.User, error)
	GetByEmail(ctx context.Context, email string) (store.User, error)
	GetByUsername(ctx context.Context, username string) (store.User, error)
}

type BalanceStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, userID, network string) (store.Balance, error)
	UpdateAmount(ctx context.Context, tx store.Execer, balanceID string, amount int64) error
}

type DepositStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, depositID string) (store.Deposit, error)
	MarkProcessed(ctx context.Context, tx store.Execer, depositID, status, adminNote, processedBy string) error
}

type WithdrawalStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (store.Withdrawal, error)
	MarkProcessed(ctx context.Context, tx store.Execer, withdrawalID, status, adminNote, processedBy string) error
}

type NFTStore interface {
	Create(ctx context.Context, tx store.Execer, input store.NFTInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, nftID string) (store.NFT, error)
	MarkProcessed(ctx context.Context, tx store.Execer, nftID, status string, isActive bool, adminNote, processedBy string) error
	SetActive(ctx context.Context, tx store.Execer, nftID string, isActive bool) error
}

type CategoryStore interface {
	GetByID(ctx context.Context, categoryID string) (store.Category, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// Notifier is the outbound email boundary. Implementations are best-effort
// and must never return delivery failures into the approval flow; every
// method is called after the surrounding transaction has committed.
type Notifier interface {
	DepositSubmitted(to, name, amount, network string)
	DepositApproved(to, name, amount, network string)
	DepositDeclined(to, name, amount, network, adminNote string)
	WithdrawalApproved(to, name, amount, network, withdrawalType string)
	WithdrawalDeclined(to, name, amount, network, adminNote string)
	InternalTransferReceived(to, name, amount, network, senderName string)
	NFTSubmitted(to, name, nftName string)
	NFTApproved(to, name, nftName, mintFee string)
	NFTDeclined(to, name, nftName, adminNote string)
}
