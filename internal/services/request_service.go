package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"nftmarket/internal/db"
	"nftmarket/internal/money"
	"nftmarket/internal/store"
)

var (
	ErrInvalidNetwork        = errors.New("network must be WETH or ETH")
	ErrNonPositiveAmount     = errors.New("amount must be greater than zero")
	ErrInvalidWithdrawalType = errors.New("withdrawal type must be on-chain or internal")
	ErrMissingDestination    = errors.New("destination is required")
)

type DepositCreator interface {
	Create(ctx context.Context, tx store.Execer, input store.DepositInput) error
}

type WithdrawalCreator interface {
	Create(ctx context.Context, tx store.Execer, input store.WithdrawalInput) error
}

// RequestService records user-submitted deposit and withdrawal requests.
// Requests never touch balances; only the admin approval flow does.
type RequestService struct {
	txRunner    db.TxRunner
	users       UserStore
	deposits    DepositCreator
	withdrawals WithdrawalCreator
	audit       AuditStore
	mail        Notifier
	log         *zap.Logger
}

func NewRequestService(txRunner db.TxRunner, users UserStore, deposits DepositCreator, withdrawals WithdrawalCreator, audit AuditStore, mail Notifier, log *zap.Logger) *RequestService {
	return &RequestService{
		txRunner:    txRunner,
		users:       users,
		deposits:    deposits,
		withdrawals: withdrawals,
		audit:       audit,
		mail:        mail,
		log:         log,
	}
}

type SubmitDepositInput struct {
	UserID     string
	Amount     int64
	Network    string
	ProofFiles string
	Note       string
}

func (s *RequestService) SubmitDeposit(ctx context.Context, input SubmitDepositInput) (string, error) {
	if input.Amount <= 0 {
		return "", ErrNonPositiveAmount
	}
	if !store.ValidNetwork(input.Network) {
		return "", ErrInvalidNetwork
	}

	depositID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.deposits.Create(ctx, tx, store.DepositInput{
			ID:         depositID,
			UserID:     input.UserID,
			Amount:     input.Amount,
			Network:    input.Network,
			ProofFiles: input.ProofFiles,
			Note:       input.Note,
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, input.UserID, "deposit.submit", "deposit", depositID,
			auditAmount(input.Amount, input.Network))
	})
	if err != nil {
		return "", err
	}

	if u, err := s.users.GetByID(ctx, input.UserID); err != nil {
		s.log.Warn("load user for notification", zap.String("user_id", input.UserID), zap.Error(err))
	} else {
		s.mail.DepositSubmitted(u.Email, u.Username, money.FormatMinor(input.Amount), input.Network)
	}
	return depositID, nil
}

type SubmitWithdrawalInput struct {
	UserID          string
	Amount          int64
	Network         string
	Type            string
	Destination     string
	DestinationType string
	Note            string
}

// SubmitWithdrawal records the request without checking the balance; the
// admin sees the requested amount next to the current balance at review time.
func (s *RequestService) SubmitWithdrawal(ctx context.Context, input SubmitWithdrawalInput) (string, error) {
	if input.Amount <= 0 {
		return "", ErrNonPositiveAmount
	}
	if !store.ValidNetwork(input.Network) {
		return "", ErrInvalidNetwork
	}
	if input.Type != store.WithdrawalOnChain && input.Type != store.WithdrawalInternal {
		return "", ErrInvalidWithdrawalType
	}
	if input.Destination == "" {
		return "", ErrMissingDestination
	}
	destinationType := input.DestinationType
	if destinationType == "" {
		if input.Type == store.WithdrawalOnChain {
			destinationType = "address"
		} else {
			destinationType = "email"
		}
	}

	withdrawalID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.withdrawals.Create(ctx, tx, store.WithdrawalInput{
			ID:              withdrawalID,
			UserID:          input.UserID,
			Amount:          input.Amount,
			Network:         input.Network,
			Type:            input.Type,
			Destination:     input.Destination,
			DestinationType: destinationType,
			Note:            input.Note,
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, input.UserID, "withdrawal.submit", "withdrawal", withdrawalID,
			auditAmount(input.Amount, input.Network))
	})
	if err != nil {
		return "", err
	}
	return withdrawalID, nil
}
