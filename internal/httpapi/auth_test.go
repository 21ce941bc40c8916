package httpapi

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"printcost/internal/domain"
)

type userStoreStub struct {
	mu      sync.Mutex
	users   map[string]domain.UserAccount
	updates int
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users == nil {
		s.users = make(map[string]domain.UserAccount)
	}
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	return out, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.users[username]
	user.Password = password
	s.users[username] = user
	s.updates++
	return nil
}

func TestAuthManagerUpgradesLegacyPlainPassword(t *testing.T) {
	store := &userStoreStub{
		users: map[string]domain.UserAccount{
			"admin": {
				Username:  "admin",
				Password:  "admin123",
				Role:      domain.RoleAdmin,
				Active:    true,
				CreatedAt: time.Now().UTC(),
			},
		},
	}

	manager := NewAuthManager("test-secret", time.Hour, store)
	_, err := manager.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].Password == "admin123" {
		t.Fatalf("expected password to be upgraded from plain-text")
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt password hash, got %s", users[0].Password)
	}
}

func TestCreatePartnerAccountCarriesPartnerClaim(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{}}
	manager := NewAuthManager("test-secret", time.Hour, store)

	account, err := manager.CreateAccount(context.Background(), domain.AccountCreateRequest{
		Username:  "Studio-Aoi",
		Password:  "pass1234",
		Role:      domain.RolePartner,
		PartnerID: "pt-aoi",
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if account.Username != "studio-aoi" || account.Password != "" {
		t.Fatalf("unexpected account %+v", account)
	}

	saved := store.users["studio-aoi"]
	if !strings.HasPrefix(saved.Password, "$2") {
		t.Fatalf("expected bcrypt hash in store, got %s", saved.Password)
	}

	resp, err := manager.Login(context.Background(), domain.LoginRequest{Username: "studio-aoi", Password: "pass1234"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	actor, err := manager.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Role != domain.RolePartner || actor.PartnerID != "pt-aoi" || !actor.Privileged() {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	manager := NewAuthManager("test-secret", time.Hour, &userStoreStub{})

	cases := []domain.AccountCreateRequest{
		{Username: "abc", Password: "pass1234", Role: domain.RoleCustomer},
		{Username: "has space", Password: "pass1234", Role: domain.RoleCustomer},
		{Username: "shortpw", Password: "123", Role: domain.RoleCustomer},
		{Username: "nopartner", Password: "pass1234", Role: domain.RolePartner},
		{Username: "badrole", Password: "pass1234", Role: "cashier"},
	}
	for _, req := range cases {
		if _, err := manager.CreateAccount(context.Background(), req); err == nil {
			t.Fatalf("expected %+v to be rejected", req)
		}
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	store := &userStoreStub{users: map[string]domain.UserAccount{
		"customer": {Username: "customer", Password: "customer123", Role: domain.RoleCustomer, Active: true},
	}}
	issuer := NewAuthManager("secret-one", time.Hour, store)
	verifier := NewAuthManager("secret-two", time.Hour, store)

	resp, err := issuer.Login(context.Background(), domain.LoginRequest{Username: "customer", Password: "customer123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := verifier.ParseToken(resp.AccessToken); err == nil {
		t.Fatalf("expected token signed with another secret to be rejected")
	}
}
