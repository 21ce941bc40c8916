package memory

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"printcost/internal/domain"
	"printcost/internal/store"
	"printcost/internal/store/seed"
	"printcost/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	products        map[string]domain.Product
	pricing         domain.PricingData
	stock           map[string]int
	dtf             domain.DtfData
	settings        domain.PrintSettings
	partners        map[string]domain.Partner
	quotesByID      map[string]domain.Quote
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// New builds a store holding dataset and no users.
func New(dataset seed.Dataset) *Store {
	s := &Store{
		products:        make(map[string]domain.Product, len(dataset.Products)),
		pricing:         dataset.Pricing,
		stock:           make(map[string]int, len(dataset.Stock)),
		dtf:             dataset.Dtf,
		settings:        dataset.PrintSettings,
		partners:        make(map[string]domain.Partner, len(dataset.Partners)),
		quotesByID:      make(map[string]domain.Quote),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: make(map[string]domain.UserAccount),
	}
	for _, p := range dataset.Products {
		s.products[p.ID] = p
	}
	for k, v := range dataset.Stock {
		s.stock[k] = v
	}
	for _, p := range dataset.Partners {
		s.partners[p.ID] = p
	}
	return s
}

// NewSeeded returns a store with the demo dataset and demo accounts.
func NewSeeded(logger *zap.Logger) *Store {
	s := New(seed.Default())
	users, err := seed.Users(logger)
	if err != nil {
		if logger != nil {
			logger.Error("failed to seed users", zap.Error(err))
		}
		return s
	}
	for _, u := range users {
		s.usersByUsername[u.Username] = u
	}
	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.CategoryID == b.CategoryID {
			return strings.Compare(a.Code, b.Code)
		}
		return strings.Compare(a.CategoryID, b.CategoryID)
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

// GetPricingData returns a deep copy so callers cannot mutate the stored rules.
func (s *Store) GetPricingData(_ context.Context) (domain.PricingData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out domain.PricingData
	return out, deepCopy(s.pricing, &out)
}

func (s *Store) GetStock(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.stock))
	for k, v := range s.stock {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SetStock(_ context.Context, key string, qty int) error {
	if strings.TrimSpace(key) == "" || qty < 0 {
		return store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[key] = qty
	return nil
}

func (s *Store) GetDtfData(_ context.Context) (domain.DtfData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out domain.DtfData
	return out, deepCopy(s.dtf, &out)
}

func (s *Store) GetPrintSettings(_ context.Context) (domain.PrintSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) GetPartner(_ context.Context, id string) (*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partner, exists := s.partners[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &partner, nil
}

func (s *Store) CreateQuote(_ context.Context, quote domain.Quote) (*domain.Quote, error) {
	if strings.TrimSpace(quote.Customer.Name) == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quote.ID == "" {
		quote.ID = xid.New("quote")
	}
	if _, exists := s.quotesByID[quote.ID]; exists {
		return nil, store.ErrInvalidInput
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}

	var stored domain.Quote
	if err := deepCopy(quote, &stored); err != nil {
		return nil, err
	}
	s.quotesByID[quote.ID] = stored
	return &quote, nil
}

func (s *Store) GetQuote(_ context.Context, id string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, exists := s.quotesByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	var out domain.Quote
	if err := deepCopy(quote, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListQuotes(_ context.Context, limit int) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Quote, 0, len(s.quotesByID))
	for _, q := range s.quotesByID {
		result = append(result, q)
	}
	slices.SortFunc(result, func(a, b domain.Quote) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(b.ID, a.ID)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(b.ID, a.ID)
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidInput
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return strings.Compare(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

// deepCopy clones nested slices and maps through a JSON round trip.
func deepCopy(src any, dst any) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dst)
}
