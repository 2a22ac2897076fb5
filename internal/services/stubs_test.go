package services

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

// fakeTxRunner hands the callback a nil tx; stub stores ignore it.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type stubUsers struct {
	byID       map[string]store.User
	byEmail    map[string]store.User
	byUsername map[string]store.User
}

func (s *stubUsers) GetByID(ctx context.Context, userID string) (store.User, error) {
	u, ok := s.byID[userID]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (store.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (store.User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return u, nil
}

type stubBalances struct {
	rows    map[string]store.Balance // keyed userID+"/"+network
	updated map[string]int64         // balanceID -> new amount
}

func (s *stubBalances) GetForUpdate(ctx context.Context, tx store.Getter, userID, network string) (store.Balance, error) {
	b, ok := s.rows[userID+"/"+network]
	if !ok {
		return store.Balance{}, sql.ErrNoRows
	}
	return b, nil
}

func (s *stubBalances) UpdateAmount(ctx context.Context, tx store.Execer, balanceID string, amount int64) error {
	if s.updated == nil {
		s.updated = make(map[string]int64)
	}
	s.updated[balanceID] = amount
	return nil
}

type processedCall struct {
	id, status, note, by string
}

type stubDeposits struct {
	row       store.Deposit
	err       error
	processed []processedCall
}

func (s *stubDeposits) GetForUpdate(ctx context.Context, tx store.Getter, depositID string) (store.Deposit, error) {
	return s.row, s.err
}

func (s *stubDeposits) MarkProcessed(ctx context.Context, tx store.Execer, depositID, status, adminNote, processedBy string) error {
	s.processed = append(s.processed, processedCall{depositID, status, adminNote, processedBy})
	return nil
}

func (s *stubDeposits) Create(ctx context.Context, tx store.Execer, input store.DepositInput) error {
	return nil
}

type stubWithdrawals struct {
	row       store.Withdrawal
	err       error
	created   []store.WithdrawalInput
	processed []processedCall
}

func (s *stubWithdrawals) GetForUpdate(ctx context.Context, tx store.Getter, withdrawalID string) (store.Withdrawal, error) {
	return s.row, s.err
}

func (s *stubWithdrawals) MarkProcessed(ctx context.Context, tx store.Execer, withdrawalID, status, adminNote, processedBy string) error {
	s.processed = append(s.processed, processedCall{withdrawalID, status, adminNote, processedBy})
	return nil
}

func (s *stubWithdrawals) Create(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error {
	s.created = append(s.created, input)
	return nil
}

type stubTxLog struct {
	entries []store.TransactionInput
}

func (s *stubTxLog) Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error {
	s.entries = append(s.entries, input)
	return nil
}

type auditEntry struct {
	actorID, action, entityID string
}

type stubAudit struct {
	entries []auditEntry
}

func (s *stubAudit) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	s.entries = append(s.entries, auditEntry{actorID, action, entityID})
	return nil
}

type hubCall struct {
	userID string
	update websocket.BalanceUpdate
}

type stubHub struct {
	calls []hubCall
}

func (s *stubHub) BroadcastBalance(userID string, update websocket.BalanceUpdate) {
	s.calls = append(s.calls, hubCall{userID, update})
}

type mailCall struct {
	kind, to, detail string
}

type stubMail struct {
	calls []mailCall
}

func (s *stubMail) DepositSubmitted(to, name, amount, network string) {
	s.calls = append(s.calls, mailCall{"deposit_submitted", to, amount})
}

func (s *stubMail) DepositApproved(to, name, amount, network string) {
	s.calls = append(s.calls, mailCall{"deposit_approved", to, amount})
}

func (s *stubMail) DepositDeclined(to, name, amount, network, adminNote string) {
	s.calls = append(s.calls, mailCall{"deposit_declined", to, adminNote})
}

func (s *stubMail) WithdrawalApproved(to, name, amount, network, withdrawalType string) {
	s.calls = append(s.calls, mailCall{"withdrawal_approved", to, withdrawalType})
}

func (s *stubMail) WithdrawalDeclined(to, name, amount, network, adminNote string) {
	s.calls = append(s.calls, mailCall{"withdrawal_declined", to, adminNote})
}

func (s *stubMail) InternalTransferReceived(to, name, amount, network, senderName string) {
	s.calls = append(s.calls, mailCall{"transfer_received", to, amount})
}

func (s *stubMail) NFTSubmitted(to, name, nftName string) {
	s.calls = append(s.calls, mailCall{"nft_submitted", to, nftName})
}

func (s *stubMail) NFTApproved(to, name, nftName, mintFee string) {
	s.calls = append(s.calls, mailCall{"nft_approved", to, mintFee})
}

func (s *stubMail) NFTDeclined(to, name, nftName, adminNote string) {
	s.calls = append(s.calls, mailCall{"nft_declined", to, adminNote})
}

func (s *stubMail) kinds() []string {
	kinds := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		kinds = append(kinds, c.kind)
	}
	return kinds
}

type nftProcessedCall struct {
	id, status string
	isActive   bool
	note, by   string
}

type stubNFTs struct {
	row       store.NFT
	err       error
	created   []store.NFTInput
	processed []nftProcessedCall
	activated []bool
}

func (s *stubNFTs) Create(ctx context.Context, tx store.Execer, input store.NFTInput) error {
	s.created = append(s.created, input)
	return nil
}

func (s *stubNFTs) GetForUpdate(ctx context.Context, tx store.Getter, nftID string) (store.NFT, error) {
	return s.row, s.err
}

func (s *stubNFTs) MarkProcessed(ctx context.Context, tx store.Execer, nftID, status string, isActive bool, adminNote, processedBy string) error {
	s.processed = append(s.processed, nftProcessedCall{nftID, status, isActive, adminNote, processedBy})
	return nil
}

func (s *stubNFTs) SetActive(ctx context.Context, tx store.Execer, nftID string, isActive bool) error {
	s.activated = append(s.activated, isActive)
	return nil
}

type stubCategories struct {
	rows map[string]store.Category
}

func (s *stubCategories) GetByID(ctx context.Context, categoryID string) (store.Category, error) {
	c, ok := s.rows[categoryID]
	if !ok {
		return store.Category{}, sql.ErrNoRows
	}
	return c, nil
}
