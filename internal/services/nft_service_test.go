package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"nftmarket/internal/store"
)

func newNFTFixture() (*NFTService, *stubBalances, *stubNFTs, *stubCategories, *stubHub, *stubMail) {
	users := &stubUsers{
		byID: map[string]store.User{
			"alice": {ID: "alice", Username: "alice", Email: "alice@example.com"},
		},
	}
	balances := &stubBalances{
		rows: map[string]store.Balance{
			"alice/WETH": {ID: "bal-alice-weth", UserID: "alice", Network: "WETH", Amount: unit},
		},
	}
	nfts := &stubNFTs{}
	categories := &stubCategories{
		rows: map[string]store.Category{
			"cat1": {ID: "cat1", Name: "Art", MinFloorPrice: unit, MintFee: unit / 2, IsActive: true},
			"cat2": {ID: "cat2", Name: "Retired", MinFloorPrice: 0, MintFee: 0, IsActive: false},
		},
	}
	hub := &stubHub{}
	mail := &stubMail{}
	svc := NewNFTService(NFTDeps{
		TxRunner:   fakeTxRunner{},
		Users:      users,
		Balances:   balances,
		NFTs:       nfts,
		Categories: categories,
		Audit:      &stubAudit{},
		Hub:        hub,
		Mail:       mail,
		Log:        zap.NewNop(),
	})
	return svc, balances, nfts, categories, hub, mail
}

func TestSubmitSnapshotsMintFee(t *testing.T) {
	svc, _, nfts, _, _, mail := newNFTFixture()

	id, err := svc.Submit(context.Background(), SubmitNFTInput{
		OwnerID: "alice", Name: "Sunset", CategoryID: "cat1", FloorPrice: 2 * unit,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id == "" {
		t.Fatal("Submit returned empty id")
	}
	if len(nfts.created) != 1 {
		t.Fatalf("created = %d, want 1", len(nfts.created))
	}
	if got := nfts.created[0].MintFee; got != unit/2 {
		t.Errorf("mint fee = %d, want category fee %d", got, unit/2)
	}
	if len(mail.calls) != 1 || mail.calls[0].kind != "nft_submitted" {
		t.Errorf("mail calls = %+v", mail.calls)
	}
}

func TestSubmitRejectsInactiveCategory(t *testing.T) {
	svc, _, nfts, _, _, _ := newNFTFixture()

	_, err := svc.Submit(context.Background(), SubmitNFTInput{
		OwnerID: "alice", Name: "Sunset", CategoryID: "cat2", FloorPrice: unit,
	})
	if !errors.Is(err, ErrCategoryInactive) {
		t.Fatalf("err = %v, want ErrCategoryInactive", err)
	}
	if len(nfts.created) != 0 {
		t.Errorf("nft was created despite inactive category")
	}
}

func TestSubmitRejectsUnknownCategory(t *testing.T) {
	svc, _, _, _, _, _ := newNFTFixture()

	_, err := svc.Submit(context.Background(), SubmitNFTInput{
		OwnerID: "alice", Name: "Sunset", CategoryID: "missing", FloorPrice: unit,
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestSubmitRejectsLowFloorPrice(t *testing.T) {
	svc, _, _, _, _, _ := newNFTFixture()

	_, err := svc.Submit(context.Background(), SubmitNFTInput{
		OwnerID: "alice", Name: "Sunset", CategoryID: "cat1", FloorPrice: unit / 4,
	})
	if !errors.Is(err, ErrFloorPriceTooLow) {
		t.Fatalf("err = %v, want ErrFloorPriceTooLow", err)
	}
}

func TestApproveNFTDebitsMintFee(t *testing.T) {
	svc, balances, nfts, _, hub, mail := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Name: "Sunset", MintFee: unit / 2, Status: store.StatusPending}

	if err := svc.Approve(context.Background(), "admin1", "nft1", ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := balances.updated["bal-alice-weth"]; got != unit/2 {
		t.Errorf("balance = %d, want %d", got, unit/2)
	}
	if len(nfts.processed) != 1 || nfts.processed[0].status != store.StatusApproved || !nfts.processed[0].isActive {
		t.Errorf("processed = %+v, want approved and active", nfts.processed)
	}
	if len(hub.calls) != 1 || hub.calls[0].update.Balance != "0.5" {
		t.Errorf("hub calls = %+v", hub.calls)
	}
	if len(mail.calls) != 1 || mail.calls[0].kind != "nft_approved" {
		t.Errorf("mail calls = %+v", mail.calls)
	}
}

func TestApproveNFTInsufficientBalanceLeavesPending(t *testing.T) {
	svc, balances, nfts, _, hub, _ := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Name: "Sunset", MintFee: 2 * unit, Status: store.StatusPending}

	err := svc.Approve(context.Background(), "admin1", "nft1", "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if len(balances.updated) != 0 || len(nfts.processed) != 0 || len(hub.calls) != 0 {
		t.Errorf("failed approval mutated state")
	}
}

func TestApproveNFTAlreadyProcessed(t *testing.T) {
	svc, balances, nfts, _, _, _ := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", MintFee: 0, Status: store.StatusApproved}

	err := svc.Approve(context.Background(), "admin1", "nft1", "")
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("err = %v, want ErrAlreadyProcessed", err)
	}
	if len(balances.updated) != 0 {
		t.Errorf("second approval charged the fee again")
	}
}

func TestDeclineNFTDefaultsNothing(t *testing.T) {
	svc, balances, nfts, _, _, mail := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Name: "Sunset", MintFee: unit / 2, Status: store.StatusPending}

	if err := svc.Decline(context.Background(), "admin1", "nft1", "blurry artwork"); err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if len(balances.updated) != 0 {
		t.Errorf("decline charged a fee")
	}
	if len(nfts.processed) != 1 || nfts.processed[0].status != store.StatusDeclined || nfts.processed[0].isActive {
		t.Errorf("processed = %+v", nfts.processed)
	}
	if len(mail.calls) != 1 || mail.calls[0].detail != "blurry artwork" {
		t.Errorf("mail calls = %+v", mail.calls)
	}
}

func TestToggleActiveFlipsApprovedOnly(t *testing.T) {
	svc, _, nfts, _, _, _ := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Status: store.StatusApproved, IsActive: true}

	state, err := svc.ToggleActive(context.Background(), "alice", store.RoleUser, "nft1")
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if state {
		t.Errorf("state = true, want false after flipping an active NFT")
	}
	if len(nfts.activated) != 1 || nfts.activated[0] {
		t.Errorf("activated = %v", nfts.activated)
	}
}

func TestToggleActiveRejectsPending(t *testing.T) {
	svc, _, nfts, _, _, _ := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Status: store.StatusPending}

	_, err := svc.ToggleActive(context.Background(), "alice", store.RoleUser, "nft1")
	if !errors.Is(err, ErrNotApproved) {
		t.Fatalf("err = %v, want ErrNotApproved", err)
	}
	if len(nfts.activated) != 0 {
		t.Errorf("pending NFT was toggled")
	}
}

func TestToggleActiveForbiddenForStrangers(t *testing.T) {
	svc, _, nfts, _, _, _ := newNFTFixture()
	nfts.row = store.NFT{ID: "nft1", OwnerID: "alice", Status: store.StatusApproved}

	if _, err := svc.ToggleActive(context.Background(), "mallory", store.RoleUser, "nft1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	// Admins may toggle NFTs they do not own.
	if _, err := svc.ToggleActive(context.Background(), "admin1", store.RoleAdmin, "nft1"); err != nil {
		t.Fatalf("admin toggle: %v", err)
	}
}
