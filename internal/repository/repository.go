package repository

import (
	"context"
	"errors"
	"strings"

	"medicart/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate")
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// MedicineFilter параметры фильтрации каталога
type MedicineFilter struct {
	Skip          int
	Limit         int
	Category      string
	NameSubstring string
	FeaturedOnly  bool
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// MedicineRepository интерфейс репозитория каталога
type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	GetByID(ctx context.Context, id uint) (*domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error)
	Count(ctx context.Context) (int64, error)
	// DecrementStock takes qty units only if at least qty are available.
	// It reports false when the stock was short and nothing changed.
	DecrementStock(ctx context.Context, id uint, qty int64) (bool, error)
	IncrementStock(ctx context.Context, id uint, qty int64) error
}

// PrescriptionRepository интерфейс репозитория рецептов
type PrescriptionRepository interface {
	Create(ctx context.Context, p *domain.Prescription) error
	GetByID(ctx context.Context, id uint) (*domain.Prescription, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Prescription, error)
	Update(ctx context.Context, p *domain.Prescription) error
	ReplaceMedicines(ctx context.Context, prescriptionID uint, items []domain.PrescriptionMedicine) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uint) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
}

// ConsultationRepository интерфейс репозитория консультаций
type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) error
	GetByID(ctx context.Context, id uint) (*domain.Consultation, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Consultation, error)
	List(ctx context.Context) ([]domain.Consultation, error)
	Update(ctx context.Context, c *domain.Consultation) error
}

// TxManager абстракция транзакции. Repositories called with the ctx passed to fn
// run inside the same transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern over name_lower matching substr literally
func containsPattern(substr string) string {
	return "%" + likeEscaper.Replace(domain.SearchKey(substr)) + "%"
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
