package handlers

import (
	"context"
	"net/http"
	"testing"

	"nftmarket/internal/store"
)

func TestNewsletterSubscribe(t *testing.T) {
	var gotEmail, gotName string
	h := newTestHandler(Deps{
		Newsletter: stubNewsletterStore{
			subscribeFn: func(ctx context.Context, tx store.Execer, id, email, name string) error {
				gotEmail, gotName = email, name
				return nil
			},
		},
	})

	body := `{"email":"carol@example.com","name":"Carol"}`
	rr := serve(h, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotEmail != "carol@example.com" || gotName != "Carol" {
		t.Fatalf("unexpected subscription: %q %q", gotEmail, gotName)
	}
}

func TestNewsletterSubscribeRejectsBadEmail(t *testing.T) {
	h := newTestHandler(Deps{})
	rr := serve(h, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", `{"email":"not-an-email"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestNewsletterUnsubscribeUnknownEmail(t *testing.T) {
	h := newTestHandler(Deps{
		Newsletter: stubNewsletterStore{
			unsubscribeFn: func(ctx context.Context, tx store.Execer, email string) (int64, error) {
				return 0, nil
			},
		},
	})

	rr := serve(h, jsonRequest(http.MethodPost, "/api/newsletter/unsubscribe", `{"email":"carol@example.com"}`))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}
