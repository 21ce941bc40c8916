package store

import (
	"context"
	"errors"
	"time"

	"printcost/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the catalog, pricing-rule and quote persistence used by the service.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetPricingData(ctx context.Context) (domain.PricingData, error)
	GetStock(ctx context.Context) (map[string]int, error)
	SetStock(ctx context.Context, key string, qty int) error
	GetDtfData(ctx context.Context) (domain.DtfData, error)
	GetPrintSettings(ctx context.Context) (domain.PrintSettings, error)
	GetPartner(ctx context.Context, id string) (*domain.Partner, error)
	CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error)
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error)
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
