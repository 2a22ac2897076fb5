package services

import (
	"context"
	"errors"
	"testing"

	"nftmarket/internal/auth"
	"nftmarket/internal/store"
)

type stubAccountUsers struct {
	stubUsers
	hasAdmin bool
	roles    map[string]string
	profiles map[string]bool
}

func (s *stubAccountUsers) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash, role string) error {
	u := store.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, Role: role}
	if s.byID == nil {
		s.byID = make(map[string]store.User)
		s.byEmail = make(map[string]store.User)
		s.byUsername = make(map[string]store.User)
	}
	s.byID[id] = u
	s.byEmail[email] = u
	s.byUsername[username] = u
	return nil
}

func (s *stubAccountUsers) HasAnyAdmin(ctx context.Context) (bool, error) {
	return s.hasAdmin, nil
}

func (s *stubAccountUsers) SetRole(ctx context.Context, tx store.Execer, userID, role string) error {
	if s.roles == nil {
		s.roles = make(map[string]string)
	}
	s.roles[userID] = role
	return nil
}

func (s *stubAccountUsers) UpdateProfile(ctx context.Context, tx store.Execer, userID string, newsletter bool) error {
	if s.profiles == nil {
		s.profiles = make(map[string]bool)
	}
	s.profiles[userID] = newsletter
	return nil
}

type stubBalanceCreator struct {
	created []string // userID+"/"+network
}

func (s *stubBalanceCreator) Create(ctx context.Context, tx store.Execer, id, userID, network string, amount int64) error {
	s.created = append(s.created, userID+"/"+network)
	return nil
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	users := &stubAccountUsers{}
	creator := &stubBalanceCreator{}
	svc := NewAccountService(fakeTxRunner{}, users, creator, &stubAudit{})

	u, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != store.RoleAdmin {
		t.Errorf("role = %q, want admin bootstrap", u.Role)
	}
	if len(creator.created) != 2 {
		t.Fatalf("balances created = %v, want WETH and ETH", creator.created)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Error("password stored in the clear")
	}
}

func TestRegisterAfterBootstrapIsPlainUser(t *testing.T) {
	users := &stubAccountUsers{hasAdmin: true}
	svc := NewAccountService(fakeTxRunner{}, users, &stubBalanceCreator{}, &stubAudit{})

	u, err := svc.Register(context.Background(), "bob", "bob@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != store.RoleUser {
		t.Errorf("role = %q, want user", u.Role)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &stubAccountUsers{
		stubUsers: stubUsers{
			byEmail:    map[string]store.User{"alice@example.com": {ID: "alice"}},
			byUsername: map[string]store.User{},
			byID:       map[string]store.User{},
		},
	}
	svc := NewAccountService(fakeTxRunner{}, users, &stubBalanceCreator{}, &stubAudit{})

	if _, err := svc.Register(context.Background(), "alice2", "alice@example.com", "s3cret-pass"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := &stubAccountUsers{
		stubUsers: stubUsers{
			byEmail:    map[string]store.User{},
			byUsername: map[string]store.User{"alice": {ID: "alice"}},
			byID:       map[string]store.User{},
		},
	}
	svc := NewAccountService(fakeTxRunner{}, users, &stubBalanceCreator{}, &stubAudit{})

	if _, err := svc.Register(context.Background(), "alice", "other@example.com", "s3cret-pass"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	users := &stubAccountUsers{
		stubUsers: stubUsers{
			byEmail: map[string]store.User{
				"alice@example.com": {ID: "alice", Email: "alice@example.com", PasswordHash: hash},
			},
		},
	}
	svc := NewAccountService(fakeTxRunner{}, users, &stubBalanceCreator{}, &stubAudit{})

	if _, err := svc.Login(context.Background(), "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestPromoteSetsAdminRole(t *testing.T) {
	users := &stubAccountUsers{
		stubUsers: stubUsers{
			byID: map[string]store.User{"bob": {ID: "bob", Role: store.RoleUser}},
		},
	}
	audit := &stubAudit{}
	svc := NewAccountService(fakeTxRunner{}, users, &stubBalanceCreator{}, audit)

	if err := svc.Promote(context.Background(), "admin1", "bob"); err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if users.roles["bob"] != store.RoleAdmin {
		t.Errorf("role = %q, want admin", users.roles["bob"])
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "user.promote" {
		t.Errorf("audit = %+v", audit.entries)
	}
}
