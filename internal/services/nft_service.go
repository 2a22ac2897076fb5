package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"nftmarket/internal/db"
	"nftmarket/internal/money"
	"nftmarket/internal/store"
	"nftmarket/internal/websocket"
)

// NFTService handles mint submission and the admin review that lists a piece
// on the marketplace. Approval charges the mint fee snapshotted at submission
// time from the WETH balance.
type NFTService struct {
	txRunner   db.TxRunner
	users      UserStore
	balances   BalanceStore
	nfts       NFTStore
	categories CategoryStore
	audit      AuditStore
	hub        BalanceHub
	mail       Notifier
	log        *zap.Logger
}

type NFTDeps struct {
	TxRunner   db.TxRunner
	Users      UserStore
	Balances   BalanceStore
	NFTs       NFTStore
	Categories CategoryStore
	Audit      AuditStore
	Hub        BalanceHub
	Mail       Notifier
	Log        *zap.Logger
}

func NewNFTService(deps NFTDeps) *NFTService {
	return &NFTService{
		txRunner:   deps.TxRunner,
		users:      deps.Users,
		balances:   deps.Balances,
		nfts:       deps.NFTs,
		categories: deps.Categories,
		audit:      deps.Audit,
		hub:        deps.Hub,
		mail:       deps.Mail,
		log:        deps.Log,
	}
}

type SubmitNFTInput struct {
	OwnerID     string
	Name        string
	Description string
	CategoryID  string
	FloorPrice  int64
	ArtworkURL  string
}

// Submit validates the piece against its category and records it as pending.
// The category's mint fee is copied onto the NFT so later fee changes do not
// reprice submissions already in review.
func (s *NFTService) Submit(ctx context.Context, input SubmitNFTInput) (string, error) {
	cat, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return "", ErrCategoryNotFound
	}
	if !cat.IsActive {
		return "", ErrCategoryInactive
	}
	if input.FloorPrice < cat.MinFloorPrice {
		return "", ErrFloorPriceTooLow
	}

	nftID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.nfts.Create(ctx, tx, store.NFTInput{
			ID:          nftID,
			OwnerID:     input.OwnerID,
			Name:        input.Name,
			Description: input.Description,
			CategoryID:  input.CategoryID,
			FloorPrice:  input.FloorPrice,
			ArtworkURL:  input.ArtworkURL,
			MintFee:     cat.MintFee,
		}); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, input.OwnerID, "nft.submit", "nft", nftID,
			fmt.Sprintf(`{"name":%q,"category_id":%q}`, input.Name, input.CategoryID))
	})
	if err != nil {
		return "", err
	}

	s.notifyOwner(ctx, input.OwnerID, func(u store.User) {
		s.mail.NFTSubmitted(u.Email, u.Username, input.Name)
	})
	return nftID, nil
}

// Approve lists the NFT and debits the snapshotted mint fee from the owner's
// WETH balance. An owner who cannot cover the fee leaves the NFT pending.
func (s *NFTService) Approve(ctx context.Context, adminID, nftID, adminNote string) error {
	var (
		nft      store.NFT
		feeAfter int64
	)
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		nft, err = s.nfts.GetForUpdate(ctx, tx, nftID)
		if err != nil {
			return err
		}
		if nft.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}
		bal, err := s.balances.GetForUpdate(ctx, tx, nft.OwnerID, store.NetworkWETH)
		if err != nil {
			return err
		}
		if bal.Amount < nft.MintFee {
			return ErrInsufficientBalance
		}
		// The fee debit is not written to the transaction log; it shows up
		// only on the balance and in the audit entry.
		feeAfter = bal.Amount - nft.MintFee
		if err := s.balances.UpdateAmount(ctx, tx, bal.ID, feeAfter); err != nil {
			return err
		}
		if err := s.nfts.MarkProcessed(ctx, tx, nft.ID, store.StatusApproved, true, adminNote, adminID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "nft.approve", "nft", nft.ID, auditAmount(nft.MintFee, store.NetworkWETH))
	})
	if err != nil {
		return err
	}

	s.hub.BroadcastBalance(nft.OwnerID, websocket.BalanceUpdate{
		Network: store.NetworkWETH,
		Balance: money.FormatMinor(feeAfter),
	})
	s.notifyOwner(ctx, nft.OwnerID, func(u store.User) {
		s.mail.NFTApproved(u.Email, u.Username, nft.Name, money.FormatMinor(nft.MintFee))
	})
	return nil
}

func (s *NFTService) Decline(ctx context.Context, adminID, nftID, adminNote string) error {
	var nft store.NFT
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		nft, err = s.nfts.GetForUpdate(ctx, tx, nftID)
		if err != nil {
			return err
		}
		if nft.Status != store.StatusPending {
			return ErrAlreadyProcessed
		}
		if err := s.nfts.MarkProcessed(ctx, tx, nft.ID, store.StatusDeclined, false, adminNote, adminID); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, adminID, "nft.decline", "nft", nft.ID, fmt.Sprintf(`{"name":%q}`, nft.Name))
	})
	if err != nil {
		return err
	}

	s.notifyOwner(ctx, nft.OwnerID, func(u store.User) {
		s.mail.NFTDeclined(u.Email, u.Username, nft.Name, adminNote)
	})
	return nil
}

// ToggleActive flips marketplace visibility for an approved NFT. Only the
// owner or an admin may flip it; non-approved NFTs stay as they are.
func (s *NFTService) ToggleActive(ctx context.Context, actorID, actorRole, nftID string) (bool, error) {
	var newState bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		nft, err := s.nfts.GetForUpdate(ctx, tx, nftID)
		if err != nil {
			return err
		}
		if nft.OwnerID != actorID && actorRole != store.RoleAdmin {
			return ErrForbidden
		}
		if nft.Status != store.StatusApproved {
			return ErrNotApproved
		}
		newState = !nft.IsActive
		if err := s.nfts.SetActive(ctx, tx, nft.ID, newState); err != nil {
			return err
		}
		return s.audit.Log(ctx, tx, actorID, "nft.toggle_active", "nft", nft.ID,
			fmt.Sprintf(`{"is_active":%t}`, newState))
	})
	if err != nil {
		return false, err
	}
	return newState, nil
}

func (s *NFTService) notifyOwner(ctx context.Context, ownerID string, fn func(store.User)) {
	u, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		s.log.Warn("load user for notification", zap.String("user_id", ownerID), zap.Error(err))
		return
	}
	fn(u)
}
