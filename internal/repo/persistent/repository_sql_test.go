package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"stackvault/internal/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errNoDatabase = errors.New("dry run: no database")

// noConnPool satisfies gorm's pool interfaces without a server. DryRun
// never executes statements, but transactions still need a Begin.
type noConnPool struct{}

func (noConnPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (noConnPool) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoDatabase
}

func (noConnPool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (noConnPool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (noConnPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &noConnTx{}, nil
}

type noConnTx struct {
	noConnPool
}

func (*noConnTx) Commit() error   { return nil }
func (*noConnTx) Rollback() error { return nil }

// sqlRecorder keeps every statement gorm builds, with vars inlined.
type sqlRecorder struct {
	mu         sync.Mutex
	statements []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})     {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{})    {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	stmt, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = append(r.statements, stmt)
}

func (r *sqlRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.statements...)
}

func (r *sqlRecorder) withPrefix(prefix string) []string {
	var out []string
	for _, s := range r.all() {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	return out
}

func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: noConnPool{}}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return db, rec
}

var sqlNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestCouponRepository_CreateKeepsInactiveFlag(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewCouponRepository(db)

	coupon := &entity.Coupon{
		Code:           "SPRING5",
		Description:    "Spring sale",
		DiscountAmount: 5,
		ExpiryDate:     sqlNow.AddDate(0, 1, 0),
		IsActive:       false,
		CreatedAt:      sqlNow,
		UpdatedAt:      sqlNow,
	}
	require.NoError(t, repo.Create(context.Background(), coupon))

	assert.False(t, coupon.IsActive)
	assert.NotEmpty(t, coupon.ID)

	inserts := rec.withPrefix(`INSERT INTO "coupons"`)
	require.Len(t, inserts, 1)
	assert.Contains(t, inserts[0], `"is_active"`)
	assert.Contains(t, inserts[0], "false")
	assert.NotContains(t, inserts[0], "true")
}

func TestCouponRepository_RedeemIsConditional(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewCouponRepository(db)

	redeemed, err := repo.Redeem(context.Background(), "WELCOME10", sqlNow)
	require.NoError(t, err)
	assert.False(t, redeemed, "dry run touches no rows")

	updates := rec.withPrefix(`UPDATE "coupons"`)
	require.Len(t, updates, 1)
	stmt := updates[0]
	assert.Contains(t, stmt, `"used_count"=used_count + 1`)
	assert.Contains(t, stmt, "WHERE code = 'WELCOME10' AND is_active AND expiry_date > ")
	assert.Contains(t, stmt, "AND (max_uses IS NULL OR max_uses <= 0 OR used_count < max_uses)")
}

func TestProductRepository_CreateWithQuotaLocksOwner(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	product := &entity.Product{
		Name:        "CLI",
		Image:       "https://img.example.com/cli.png",
		Description: "A command line tool",
		Tags:        []string{"cli"},
		Owner:       entity.Owner{Name: "Ada", Email: "ada@example.com"},
		Status:      entity.ProductPending,
		CreatedAt:   sqlNow,
		UpdatedAt:   sqlNow,
	}

	checked := false
	err := repo.CreateWithQuota(context.Background(), product, func(owner *entity.User, count int64) error {
		checked = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, checked)

	stmts := rec.all()
	require.Len(t, stmts, 3)
	assert.True(t, strings.HasPrefix(stmts[0], `SELECT * FROM "users" WHERE email = 'ada@example.com'`), stmts[0])
	assert.True(t, strings.HasSuffix(stmts[0], "FOR UPDATE"), stmts[0])
	assert.Contains(t, stmts[1], `SELECT count(*) FROM "products" WHERE owner_email = 'ada@example.com'`)
	assert.True(t, strings.HasPrefix(stmts[2], `INSERT INTO "products"`), stmts[2])
}

func TestProductRepository_CreateWithQuotaRejected(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	quota := &entity.QuotaError{}
	err := repo.CreateWithQuota(context.Background(), &entity.Product{
		Owner: entity.Owner{Email: "ada@example.com"},
	}, func(*entity.User, int64) error {
		return quota
	})
	assert.ErrorIs(t, err, quota)
	assert.Empty(t, rec.withPrefix("INSERT"))
}

func TestProductRepository_DeleteRemovesReviewsFirst(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	_, err := repo.Delete(context.Background(), "prod-1")
	assert.ErrorIs(t, err, entity.ErrNotFound, "dry run deletes no product row")

	deletes := rec.withPrefix("DELETE")
	require.Len(t, deletes, 2)
	assert.Equal(t, `DELETE FROM "reviews" WHERE product_id = 'prod-1'`, deletes[0])
	assert.Equal(t, `DELETE FROM "products" WHERE id = 'prod-1'`, deletes[1])
}

func TestProductRepository_ModerateIsOneUpdate(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	accepted, featured := entity.ProductAccepted, true
	_, err := repo.Moderate(context.Background(), "prod-1", entity.ProductModeration{
		Status:   &accepted,
		Featured: &featured,
	}, sqlNow)
	require.NoError(t, err)

	updates := rec.withPrefix(`UPDATE "products"`)
	require.Len(t, updates, 1)
	assert.Contains(t, updates[0], `"featured"=true`)
	assert.Contains(t, updates[0], `"status"='accepted'`)
	assert.Contains(t, updates[0], `"reviewed_at"=`)
	assert.True(t, strings.HasSuffix(updates[0], "WHERE id = 'prod-1'"), updates[0])
}

func TestProductRepository_ModerateFeaturedOnlyRequiresAccepted(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	featured := true
	updated, err := repo.Moderate(context.Background(), "prod-1", entity.ProductModeration{Featured: &featured}, sqlNow)
	require.NoError(t, err)
	assert.False(t, updated)

	updates := rec.withPrefix(`UPDATE "products"`)
	require.Len(t, updates, 1)
	assert.NotContains(t, updates[0], `"status"=`)
	assert.Contains(t, updates[0], "WHERE id = 'prod-1' AND status = 'accepted'")
}

func TestProductRepository_ListAcceptedGroupsSearch(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewProductRepository(db)

	_, _, err := repo.ListAccepted(context.Background(), entity.ProductQuery{Page: 1, Limit: 6, Search: "cli"}.Normalize())
	require.NoError(t, err)

	counts := rec.withPrefix("SELECT count(*)")
	require.Len(t, counts, 1)
	assert.Contains(t, counts[0], "WHERE status = 'accepted' AND (name ~* 'cli' OR description ~* 'cli' OR EXISTS")
}

func TestTranslate_InvalidRegex(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "2201B", Message: `invalid regular expression: invalid escape \ sequence`}

	err := translate(fmt.Errorf("list products: %w", pgErr), productNotFound)
	require.ErrorIs(t, err, entity.ErrValidation)

	var e *entity.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "Invalid search pattern", e.Message)

	other := &pgconn.PgError{Code: "57014"}
	assert.Same(t, other, translate(other, productNotFound))
}
