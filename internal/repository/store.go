package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medicart/internal/domain"
)

// Store wraps the gorm handle shared by all repositories
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *gorm.DB { return s.db }

// Open connects to SQLite at dsn. Writes are serialized through a single
// connection and every transaction begins IMMEDIATE so stock checks and
// decrements cannot interleave between requests.
func Open(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withPragmas(dsn)), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(&log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Medicine{},
		&domain.Prescription{},
		&domain.PrescriptionMedicine{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Consultation{},
	); err != nil {
		return err
	}
	return backfillNameLower(db)
}

// rows written before name_lower existed get it filled once
func backfillNameLower(db *gorm.DB) error {
	var stale []domain.Medicine
	if err := db.Select("id", "name").Where("(name_lower IS NULL OR name_lower = ?) AND name <> ?", "", "").Find(&stale).Error; err != nil {
		return err
	}
	for _, m := range stale {
		err := db.Model(&domain.Medicine{}).Where("id = ?", m.ID).
			UpdateColumn("name_lower", domain.SearchKey(m.Name)).Error
		if err != nil {
			return fmt.Errorf("backfill name_lower for medicine %d: %w", m.ID, err)
		}
	}
	return nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_busy_timeout=5000&_txlock=immediate"
}

// transaction-aware connection lookup
type txKey struct{}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// Tx runs functions inside a gorm transaction
type Tx struct{ store *Store }

func NewTx(store *Store) *Tx { return &Tx{store: store} }

var _ TxManager = (*Tx)(nil)

func (t *Tx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// already inside a transaction, join it
		return fn(ctx)
	}
	return t.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
