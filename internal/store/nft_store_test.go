package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestNFTStoreCreateStartsPendingInactive(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO nfts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "'pending', FALSE") {
				t.Fatalf("expected pending/inactive defaults: %s", query)
			}
			if len(args) != 8 || args[0] != "nft-1" || args[7] != int64(50000000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewNFTStore(stubDB{})
	err := store.Create(ctx, execer, NFTInput{
		ID: "nft-1", OwnerID: "user-1", Name: "Sunset", CategoryID: "cat-1",
		FloorPrice: 100000000, MintFee: 50000000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNFTStoreGetForUpdateLocks(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock in query: %s", query)
			}
			*dest.(*NFT) = NFT{ID: "nft-1", Status: StatusPending}
			return nil
		},
	}
	store := NewNFTStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "nft-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Status != StatusPending {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestNFTStoreMarkProcessed(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE nfts") || !strings.Contains(query, "processed_at = NOW()") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 5 || args[0] != StatusApproved || args[1] != true || args[4] != "nft-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewNFTStore(stubDB{})
	if err := store.MarkProcessed(ctx, execer, "nft-1", StatusApproved, true, "looks good", "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNFTStoreListAllJoinsOwnerAndCategory(t *testing.T) {
	ctx := context.Background()
	store := NewNFTStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "LEFT JOIN users u") {
				t.Fatalf("expected owner join in count: %s", query)
			}
			*dest.(*int) = 7
			return nil
		},
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "n.status = $1") {
				t.Fatalf("expected status filter: %s", query)
			}
			if !strings.Contains(query, "u.username ILIKE $2") {
				t.Fatalf("expected owner search: %s", query)
			}
			if !strings.Contains(query, "ORDER BY n.floor_price DESC") {
				t.Fatalf("expected sort clause: %s", query)
			}
			*dest.(*[]NFT) = []NFT{{ID: "nft-1", OwnerName: stringRef("alice")}}
			return nil
		},
	})
	rows, total, err := store.ListAll(ctx, ListParams{Status: StatusPending, Search: "ali", SortBy: "floor_price"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || len(rows) != 1 || *rows[0].OwnerName != "alice" {
		t.Fatalf("unexpected result: total=%d rows=%#v", total, rows)
	}
}

func TestNFTStoreListByOwnerScopes(t *testing.T) {
	ctx := context.Background()
	store := NewNFTStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "n.owner_id = $1") {
				t.Fatalf("expected owner scope: %s", query)
			}
			if len(args) != 3 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, _, err := store.ListByOwner(ctx, "user-1", ListParams{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func stringRef(value string) *string {
	return &value
}
