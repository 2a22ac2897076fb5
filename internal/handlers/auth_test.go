package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nftmarket/internal/auth"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
)

func TestRegisterSuccess(t *testing.T) {
	var gotUsername, gotEmail string
	h := newTestHandler(Deps{
		Accounts: stubAccountService{
			registerFn: func(ctx context.Context, username, email, password string) (store.User, error) {
				gotUsername = username
				gotEmail = email
				return store.User{ID: "user-1", Username: username, Email: email, Role: store.RoleUser}, nil
			},
		},
	})

	body := `{"username":"alice","email":"Alice@Example.com","password":"hunter2hunter2"}`
	req := jsonRequest(http.MethodPost, "/api/auth/register", body)
	rr := serve(h, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotUsername != "alice" {
		t.Fatalf("expected username alice, got %q", gotUsername)
	}
	if gotEmail != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", gotEmail)
	}
	payload := decodeBody(t, rr)
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}
	claims, err := auth.ParseToken("secret", token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected token subject user-1, got %q", claims.UserID)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h := newTestHandler(Deps{})
	body := `{"username":"alice","email":"alice@example.com","password":"short"}`
	rr := serve(h, jsonRequest(http.MethodPost, "/api/auth/register", body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newTestHandler(Deps{
		Accounts: stubAccountService{
			registerFn: func(ctx context.Context, username, email, password string) (store.User, error) {
				return store.User{}, services.ErrEmailTaken
			},
		},
	})
	body := `{"username":"alice","email":"alice@example.com","password":"hunter2hunter2"}`
	rr := serve(h, jsonRequest(http.MethodPost, "/api/auth/register", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newTestHandler(Deps{
		Accounts: stubAccountService{
			loginFn: func(ctx context.Context, email, password string) (store.User, error) {
				return store.User{}, services.ErrInvalidCredentials
			},
		},
	})
	body := `{"email":"alice@example.com","password":"wrongwrong"}`
	rr := serve(h, jsonRequest(http.MethodPost, "/api/auth/login", body))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMeIncludesBalances(t *testing.T) {
	h := newTestHandler(Deps{
		Users: stubUserStore{
			getByIDFn: func(ctx context.Context, userID string) (store.User, error) {
				return store.User{ID: userID, Username: "alice", Email: "alice@example.com", Role: store.RoleUser}, nil
			},
		},
		Balances: stubBalanceStore{
			getByUserFn: func(ctx context.Context, userID string) ([]store.Balance, error) {
				return []store.Balance{
					{UserID: userID, Network: store.NetworkWETH, Amount: 150000000},
					{UserID: userID, Network: store.NetworkETH, Amount: 0},
				}, nil
			},
		},
	})

	rr := serve(h, authedRequest(t, http.MethodGet, "/api/auth/me", nil, "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	balances, ok := payload["balances"].(map[string]any)
	if !ok {
		t.Fatalf("expected a balances map, got %T", payload["balances"])
	}
	if balances["WETH"] != "1.5" {
		t.Fatalf("expected WETH balance 1.5, got %v", balances["WETH"])
	}
	if balances["ETH"] != "0" {
		t.Fatalf("expected ETH balance 0, got %v", balances["ETH"])
	}
}

func TestMeRequiresToken(t *testing.T) {
	h := newTestHandler(Deps{})
	req := jsonRequest(http.MethodGet, "/api/auth/me", "")
	rr := serve(h, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func jsonRequest(method, target, body string) *http.Request {
	return httptest.NewRequest(method, target, strings.NewReader(body))
}
