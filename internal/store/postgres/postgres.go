package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"printcost/internal/domain"
	"printcost/internal/store"
	"printcost/internal/store/seed"
	"printcost/internal/xid"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	docPricing       = "pricing"
	docDtf           = "dtf"
	docPrintSettings = "print_settings"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// New connects with exponential backoff until opts.ConnectTimeout elapses.
func New(ctx context.Context, databaseURL string, opts Options, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = opts.ConnectTimeout
	retryPolicy.MaxInterval = 5 * time.Second

	var db *sqlx.DB
	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "pgx", databaseURL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("postgres connection failed, retrying",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect after retries: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	s.logger.Info("postgres migrations applied")
	return nil
}

// Seed loads dataset and users into an empty database. A database that
// already has products is left untouched.
func (s *Store) Seed(ctx context.Context, dataset seed.Dataset, users []domain.UserAccount) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM products`); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range dataset.Products {
		row, err := toProductRow(p)
		if err != nil {
			return false, err
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO products (id, code, name, variant_name, brand, category_id, tags, colors, prices, jan_code, description)
			VALUES (:id, :code, :name, :variant_name, :brand, :category_id, :tags, :colors, :prices, :jan_code, :description)
		`, row); err != nil {
			return false, fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}

	docs := map[string]any{
		docPricing:       dataset.Pricing,
		docDtf:           dataset.Dtf,
		docPrintSettings: dataset.PrintSettings,
	}
	for name, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pricing_documents (name, payload, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
		`, name, payload); err != nil {
			return false, fmt.Errorf("seed document %s: %w", name, err)
		}
	}

	for key, qty := range dataset.Stock {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_levels (stock_key, qty, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (stock_key) DO NOTHING
		`, key, qty); err != nil {
			return false, fmt.Errorf("seed stock %s: %w", key, err)
		}
	}

	for _, p := range dataset.Partners {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO partners (id, name, rate) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, p.ID, p.Name, p.Rate); err != nil {
			return false, fmt.Errorf("seed partner %s: %w", p.ID, err)
		}
	}

	for _, u := range users {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO app_users (username, password, role, partner_id, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (username) DO NOTHING
		`, u.Username, u.Password, u.Role, u.PartnerID, u.Active, u.CreatedAt); err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

type productRow struct {
	ID          string `db:"id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
	VariantName string `db:"variant_name"`
	Brand       string `db:"brand"`
	CategoryID  string `db:"category_id"`
	Tags        []byte `db:"tags"`
	Colors      []byte `db:"colors"`
	Prices      []byte `db:"prices"`
	JANCode     string `db:"jan_code"`
	Description string `db:"description"`
}

func toProductRow(p domain.Product) (productRow, error) {
	row := productRow{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		VariantName: p.VariantName,
		Brand:       p.Brand,
		CategoryID:  p.CategoryID,
		JANCode:     p.JANCode,
		Description: p.Description,
	}
	var err error
	if row.Tags, err = marshalList(p.Tags); err != nil {
		return row, err
	}
	if row.Colors, err = marshalList(p.Colors); err != nil {
		return row, err
	}
	if row.Prices, err = marshalList(p.Prices); err != nil {
		return row, err
	}
	return row, nil
}

func marshalList[T any](values []T) ([]byte, error) {
	if values == nil {
		values = []T{}
	}
	return json.Marshal(values)
}

func (r productRow) toDomain() (domain.Product, error) {
	p := domain.Product{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		VariantName: r.VariantName,
		Brand:       r.Brand,
		CategoryID:  r.CategoryID,
		JANCode:     r.JANCode,
		Description: r.Description,
	}
	if err := json.Unmarshal(r.Tags, &p.Tags); err != nil {
		return p, fmt.Errorf("product %s tags: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Colors, &p.Colors); err != nil {
		return p, fmt.Errorf("product %s colors: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Prices, &p.Prices); err != nil {
		return p, fmt.Errorf("product %s prices: %w", r.ID, err)
	}
	return p, nil
}

const productColumns = `id, code, name, variant_name, brand, category_id, tags, colors, prices, jan_code, description`

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT `+productColumns+`
		FROM products
		ORDER BY category_id, code
	`); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) getDocument(ctx context.Context, name string, dst any) error {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM pricing_documents WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s document: %w", name, err)
	}
	return nil
}

func (s *Store) GetPricingData(ctx context.Context) (domain.PricingData, error) {
	var data domain.PricingData
	return data, s.getDocument(ctx, docPricing, &data)
}

func (s *Store) GetDtfData(ctx context.Context) (domain.DtfData, error) {
	var data domain.DtfData
	return data, s.getDocument(ctx, docDtf, &data)
}

func (s *Store) GetPrintSettings(ctx context.Context) (domain.PrintSettings, error) {
	var settings domain.PrintSettings
	return settings, s.getDocument(ctx, docPrintSettings, &settings)
}

func (s *Store) GetStock(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Key string `db:"stock_key"`
		Qty int    `db:"qty"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT stock_key, qty FROM stock_levels`); err != nil {
		return nil, err
	}
	stock := make(map[string]int, len(rows))
	for _, row := range rows {
		stock[row.Key] = row.Qty
	}
	return stock, nil
}

func (s *Store) SetStock(ctx context.Context, key string, qty int) error {
	if strings.TrimSpace(key) == "" || qty < 0 {
		return store.ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_levels (stock_key, qty, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (stock_key) DO UPDATE SET qty = EXCLUDED.qty, updated_at = now()
	`, key, qty)
	return err
}

func (s *Store) GetPartner(ctx context.Context, id string) (*domain.Partner, error) {
	var partner domain.Partner
	err := s.db.QueryRowxContext(ctx, `SELECT id, name, rate FROM partners WHERE id = $1`, id).
		Scan(&partner.ID, &partner.Name, &partner.Rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

func (s *Store) CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error) {
	if strings.TrimSpace(quote.Customer.Name) == "" {
		return nil, store.ErrInvalidInput
	}
	if quote.ID == "" {
		quote.ID = xid.New("quote")
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, customer_name, customer_email, total_cost_with_tax, payload, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, quote.ID, quote.Customer.Name, quote.Customer.Email, quote.Cost.TotalCostWithTax, payload, quote.CreatedBy, quote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	return &quote, nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM quotes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	var quote domain.Quote
	if err := json.Unmarshal(payload, &quote); err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", id, err)
	}
	return &quote, nil
}

func (s *Store) ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	if limit < 1 {
		limit = 100
	}
	var payloads [][]byte
	if err := s.db.SelectContext(ctx, &payloads, `
		SELECT payload FROM quotes
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit); err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(payloads))
	for _, payload := range payloads {
		var quote domain.Quote
		if err := json.Unmarshal(payload, &quote); err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

type auditRow struct {
	ID            string    `db:"id"`
	ActorUsername string    `db:"actor_username"`
	ActorRole     string    `db:"actor_role"`
	Action        string    `db:"action"`
	EntityType    string    `db:"entity_type"`
	EntityID      string    `db:"entity_id"`
	Detail        string    `db:"detail"`
	CreatedAt     time.Time `db:"created_at"`
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES (:id, :actor_username, :actor_role, :action, :entity_type, :entity_id, :detail, :created_at)
	`, auditRow(entry))
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	var rows []auditRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, from, to, limit); err != nil {
		return nil, err
	}

	logs := make([]domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		entry := domain.AuditLog(row)
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, partner_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, now())
	`, username, user.Password, user.Role, user.PartnerID, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	var rows []struct {
		Username  string    `db:"username"`
		Password  string    `db:"password"`
		Role      string    `db:"role"`
		PartnerID string    `db:"partner_id"`
		Active    bool      `db:"active"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT username, password, role, partner_id, active, created_at
		FROM app_users
		ORDER BY username ASC
	`); err != nil {
		return nil, err
	}

	users := make([]domain.UserAccount, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.UserAccount{
			Username:  row.Username,
			Password:  row.Password,
			Role:      row.Role,
			PartnerID: row.PartnerID,
			Active:    row.Active,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
