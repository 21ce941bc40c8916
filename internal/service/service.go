package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"printcost/internal/cache"
	"printcost/internal/domain"
	"printcost/internal/notify"
	"printcost/internal/session"
	"printcost/internal/store"
	"printcost/internal/xid"
)

var (
	ErrAdminRequired        = errors.New("admin role required")
	ErrPriceNotFound        = errors.New("no price for this color and size")
	ErrOutOfStock           = errors.New("color and size are out of stock")
	ErrLocationNotAvailable = errors.New("print location is not available for this order")
	ErrSizeNotAvailable     = errors.New("print size is not available at this location")
)

const (
	pricingCacheKey  = "pricing"
	dtfCacheKey      = "dtf"
	settingsCacheKey = "print_settings"
	productsCacheKey = "products"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

func actorOrAnonymous(ctx context.Context) domain.Actor {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor
	}
	return domain.Actor{Username: "anonymous", Role: domain.RoleCustomer}
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Sessions *session.Store
	Notifier notify.Notifier
	Logger   *zap.Logger

	// NotifyTimeout bounds quote notifications. Defaults to 15s.
	NotifyTimeout time.Duration
}

type Service struct {
	repo          store.Repository
	cache         cache.Cache
	cacheTTL      time.Duration
	sessions      *session.Store
	notifier      notify.Notifier
	notifyTimeout time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

func New(repo store.Repository, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.NoopCache{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Sessions == nil {
		mem := cache.NewMemorySnapshotStore()
		opts.Sessions = session.New(session.Persistence{Load: mem.Load, Save: mem.Save, Delete: mem.Delete})
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Service{
		repo:          repo,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		sessions:      opts.Sessions,
		notifier:      opts.Notifier,
		notifyTimeout: opts.NotifyTimeout,
		logger:        opts.Logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// cached reads key through the cache, falling back to load on a miss. Cache
// failures are logged and never fail the call.
func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	hit, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s *Service) pricingData(ctx context.Context) (domain.PricingData, error) {
	return cached(ctx, s, pricingCacheKey, s.repo.GetPricingData)
}

func (s *Service) dtfData(ctx context.Context) (domain.DtfData, error) {
	return cached(ctx, s, dtfCacheKey, s.repo.GetDtfData)
}

func (s *Service) printSettings(ctx context.Context) (domain.PrintSettings, error) {
	return cached(ctx, s, settingsCacheKey, s.repo.GetPrintSettings)
}

func (s *Service) products(ctx context.Context) ([]domain.Product, error) {
	return cached(ctx, s, productsCacheKey, s.repo.ListProducts)
}

// InvalidateCache drops every cached catalog and pricing document.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, pricingCacheKey, dtfCacheKey, settingsCacheKey, productsCacheKey); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	s.logAudit(ctx, "cache_invalidate", "cache", "pricing", "")
	return nil
}

func (s *Service) partnerFor(ctx context.Context, actor domain.Actor) (*domain.Partner, error) {
	if actor.PartnerID == "" {
		return nil, nil
	}
	partner, err := s.repo.GetPartner(ctx, actor.PartnerID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("actor references unknown partner",
			zap.String("username", actor.Username),
			zap.String("partner_id", actor.PartnerID))
		return nil, nil
	}
	return partner, err
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     s.now(),
	}); err != nil {
		s.logger.Warn("failed to write audit log",
			zap.String("action", action),
			zap.String("entity", entityType+"/"+entityID),
			zap.Error(err))
	}
}
