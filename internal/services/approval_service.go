package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"nftmarket/internal/db"
	"nftmarket/internal/money"
	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

// ApprovalService moves deposits and withdrawals through their admin review
// transitions. Every approval runs inside a serializable transaction; emails
// and websocket pushes happen only after the commit.
type ApprovalService struct {
	txRunner     db.TxRunner
	users        UserStore
	balances     BalanceStore
	deposits     DepositStore
	withdrawals  WithdrawalStore
	transactions TransactionStore
	audit        AuditStore
	hub          BalanceHub
	mail         Notifier
	log          *zap.Logger
}

type ApprovalDeps struct {
	TxRunner     db.TxRunner
	Users        UserStore
	Balances     BalanceStore
	Deposits     DepositStore
	Withdrawals  WithdrawalStore
	Transactions TransactionStore
	Audit        AuditStore
	Hub          BalanceHub
	Mail         Notifier
	Log          *zap.Logger
}

func NewApprovalService(deps ApprovalDeps) *ApprovalService {
	return &ApprovalService{
		txRunner:     deps.TxRunner,
		users:        deps.Users,
		balances:     deps.Balances,
		deposits:     deps.Deposits,
		withdrawals:  deps.Withdrawals,
		transactions: deps.Transactions,
		audit:        deps.Audit,
		hub:          deps.Hub,
		mail:         deps.Mail,
		log:          deps.Log,
	}
}

func (s *ApprovalService) ApproveDeposit(ctx context.Context, adminID, depositID, adminNote string) error {
	var (
		dep        store.Deposit
		newBalance int64
	)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		dep, err = s.deposits.GetForUpdate(ctx, tx, depositID)
		if err != nil {
			return err
		}
		if dep.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}
		bal, err := s.balances.GetForUpdate(ctx, tx, dep.UserID, dep.Network)
		if err != nil {
			return err
		}
		newBalance = bal.Amount + dep.Amount
		if err := s.balances.UpdateAmount(ctx, tx, bal.ID, newBalance); err != nil {
			return err
		}
		if err := s.deposits.MarkProcessed(ctx, tx, dep.ID, store.StatusApproved, adminNote, adminID); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:             uuid.NewString(),
			UserID:         dep.UserID,
			Type:           store.TxDeposit,
			Amount:         dep.Amount,
			Network:        dep.Network,
			Status:         "completed",
			ReferenceID:    dep.ID,
			ReferenceModel: "Deposit",
			Description:    "Deposit approved",
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "deposit.approve", "deposit", dep.ID, auditAmount(dep.Amount, dep.Network))
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastBalance(dep.UserID, websocket.BalanceUpdate{
		Network: dep.Network,
		Balance: money.FormatMinor(newBalance),
	})
	s.notifyUser(ctx, dep.UserID, func(u store.User) {
		s.mail.DepositApproved(u.Email, u.Username, money.FormatMinor(dep.Amount), dep.Network)
	})
	return nil
}

func (s *ApprovalService) DeclineDeposit(ctx context.Context, adminID, depositID, adminNote string) error {
	var dep store.Deposit
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		dep, err = s.deposits.GetForUpdate(ctx, tx, depositID)
		if err != nil {
			return err
		}
		if dep.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}
		if err := s.deposits.MarkProcessed(ctx, tx, dep.ID, store.StatusDeclined, adminNote, adminID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "deposit.decline", "deposit", dep.ID, auditAmount(dep.Amount, dep.Network))
	})
	if err != nil {
		return err
	}

	s.notifyUser(ctx, dep.UserID, func(u store.User) {
		s.mail.DepositDeclined(u.Email, u.Username, money.FormatMinor(dep.Amount), dep.Network, adminNote)
	})
	return nil
}

func (s *ApprovalService) ApproveWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error {
	var (
		w            store.Withdrawal
		senderAfter  int64
		recipient    store.User
		recipAfter   int64
		credited     bool
		senderName   string
	)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		credited = false
		var err error
		w, err = s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}

		bal, err := s.balances.GetForUpdate(ctx, tx, w.UserID, w.Network)
		if err != nil {
			return err
		}
		// The stored balance may go negative: the requested amount is not
		// checked against the balance here, admins review it manually.
		senderAfter = bal.Amount - w.Amount
		if err := s.balances.UpdateAmount(ctx, tx, bal.ID, senderAfter); err != nil {
			return err
		}
		if err := s.withdrawals.MarkProcessed(ctx, tx, w.ID, store.StatusApproved, adminNote, adminID); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:             uuid.NewString(),
			UserID:         w.UserID,
			Type:           store.TxWithdrawal,
			Amount:         -w.Amount,
			Network:        w.Network,
			Status:         "completed",
			ReferenceID:    w.ID,
			ReferenceModel: "Withdrawal",
			Description:    "Withdrawal approved",
		}); err != nil {
			return err
		}

		if w.Type == store.WithdrawalInternal {
			recipient, err = s.resolveRecipient(ctx, w)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// A destination that matches no user still debits the
				// sender; nothing is credited anywhere.
				s.log.Warn("internal withdrawal destination matched no user",
					zap.String("withdrawal_id", w.ID),
					zap.String("destination", w.Destination))
			case err != nil:
				return err
			default:
				rbal, err := s.balances.GetForUpdate(ctx, tx, recipient.ID, w.Network)
				if err != nil {
					return err
				}
				recipAfter = rbal.Amount + w.Amount
				if err := s.balances.UpdateAmount(ctx, tx, rbal.ID, recipAfter); err != nil {
					return err
				}
				if err := s.transactions.Create(ctx, tx, store.TransactionInput{
					ID:             uuid.NewString(),
					UserID:         recipient.ID,
					Type:           store.TxDeposit,
					Amount:         w.Amount,
					Network:        w.Network,
					Status:         "completed",
					ReferenceID:    w.ID,
					ReferenceModel: "Withdrawal",
					Description:    "Internal transfer received",
				}); err != nil {
					return err
				}
				credited = true
			}
		}

		return s.audit.Log(ctx, tx, adminID, "withdrawal.approve", "withdrawal", w.ID, auditAmount(w.Amount, w.Network))
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastBalance(w.UserID, websocket.BalanceUpdate{
		Network: w.Network,
		Balance: money.FormatMinor(senderAfter),
	})
	s.notifyUser(ctx, w.UserID, func(u store.User) {
		senderName = u.Username
		s.mail.WithdrawalApproved(u.Email, u.Username, money.FormatMinor(w.Amount), w.Network, w.Type)
	})
	if credited {
		s.hub.BroadcastBalance(recipient.ID, websocket.BalanceUpdate{
			Network: w.Network,
			Balance: money.FormatMinor(recipAfter),
		})
		s.mail.InternalTransferReceived(recipient.Email, recipient.Username, money.FormatMinor(w.Amount), w.Network, senderName)
	}
	return nil
}

func (s *ApprovalService) DeclineWithdrawal(ctx context.Context, adminID, withdrawalID, adminNote string) error {
	var w store.Withdrawal
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		w, err = s.withdrawals.GetForUpdate(ctx, tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}
		if err := s.withdrawals.MarkProcessed(ctx, tx, w.ID, store.StatusDeclined, adminNote, adminID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "withdrawal.decline", "withdrawal", w.ID, auditAmount(w.Amount, w.Network))
	})
	if err != nil {
		return err
	}

	s.notifyUser(ctx, w.UserID, func(u store.User) {
		s.mail.WithdrawalDeclined(u.Email, u.Username, money.FormatMinor(w.Amount), w.Network, adminNote)
	})
	return nil
}

// resolveRecipient looks up the internal transfer destination as a username
// or an email depending on how the sender addressed it.
func (s *ApprovalService) resolveRecipient(ctx context.Context, w store.Withdrawal) (store.User, error) {
	if w.DestinationType == "username" {
		return s.users.GetByUsername(ctx, w.Destination)
	}
	return s.users.GetByEmail(ctx, w.Destination)
}

// notifyUser loads the user outside the transaction and hands it to fn for
// mail delivery. A lookup failure skips the email, never the approval.
func (s *ApprovalService) notifyUser(ctx context.Context, userID string, fn func(store.User)) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("load user for notification", zap.String("user_id", userID), zap.Error(err))
		return
	}
	fn(u)
}

func auditAmount(amount int64, network string) string {
	return fmt.Sprintf(`{"amount":%q,"network":%q}`, money.FormatMinor(amount), network)
}
