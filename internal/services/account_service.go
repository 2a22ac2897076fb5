package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nftmarket/internal/auth"
	"nftmarket/internal/db"
	"nftmarket/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountUserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error
	GetByEmail(ctx context.Context, email string) (store.User, error)
	GetByUsername(ctx context.Context, username string) (store.User, error)
	GetByID(ctx context.Context, userID string) (store.User, error)
	HasAnyAdmin(ctx context.Context) (bool, error)
	SetRole(ctx context.Context, tx store.Execer, userID, role string) error
	UpdateProfile(ctx context.Context, tx store.Execer, userID string, newsletter bool) error
}

type BalanceCreator interface {
	Create(ctx context.Context, tx store.Execer, id, userID, network string, amount int64) error
}

// AccountService covers registration, login and profile changes.
type AccountService struct {
	txRunner db.TxRunner
	users    AccountUserStore
	balances BalanceCreator
	audit    AuditStore
}

func NewAccountService(txRunner db.TxRunner, users AccountUserStore, balances BalanceCreator, audit AuditStore) *AccountService {
	return &AccountService{txRunner: txRunner, users: users, balances: balances, audit: audit}
}

// Register creates the user with zero balances on both networks in one
// transaction. The very first account becomes the bootstrap admin.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (store.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return store.User{}, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return store.User{}, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, err
	}
	role := store.RoleUser
	hasAdmin, err := s.users.HasAnyAdmin(ctx)
	if err != nil {
		return store.User{}, err
	}
	if !hasAdmin {
		role = store.RoleAdmin
	}

	userID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.Create(ctx, tx, userID, username, email, hash, role); err != nil {
			return err
		}
		for _, network := range []string{store.NetworkWETH, store.NetworkETH} {
			if err := s.balances.Create(ctx, tx, uuid.NewString(), userID, network, 0); err != nil {
				return err
			}
		}
		return s.audit.Log(ctx, tx, userID, "user.register", "user", userID,
			fmt.Sprintf(`{"username":%q,"role":%q}`, username, role))
	})
	if err != nil {
		return store.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (store.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return store.User{}, ErrInvalidCredentials
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.audit.Log(ctx, tx, u.ID, "user.login", "user", u.ID, "{}")
	})
	if err != nil {
		return store.User{}, err
	}
	return u, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, newsletter bool) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.UpdateProfile(ctx, tx, userID, newsletter); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, userID, "user.update_profile", "user", userID,
			fmt.Sprintf(`{"newsletter":%t}`, newsletter))
	})
}

// Promote grants admin to an existing user.
func (s *AccountService) Promote(ctx context.Context, adminID, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.SetRole(ctx, tx, userID, store.RoleAdmin); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "user.promote", "user", userID, `{"role":"admin"}`)
	})
}
