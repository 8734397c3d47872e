package repository

import (
	"context"

	"gorm.io/gorm"

	"medicart/internal/domain"
)

// Medicines is the gorm implementation of MedicineRepository
type Medicines struct{ store *Store }

func NewMedicines(store *Store) *Medicines { return &Medicines{store: store} }

var _ MedicineRepository = (*Medicines)(nil)

func (r *Medicines) Create(ctx context.Context, m *domain.Medicine) error {
	return translate(r.store.conn(ctx).Create(m).Error)
}

func (r *Medicines) GetByID(ctx context.Context, id uint) (*domain.Medicine, error) {
	var m domain.Medicine
	if err := r.store.conn(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *Medicines) Update(ctx context.Context, m *domain.Medicine) error {
	res := r.store.conn(ctx).Model(&domain.Medicine{ID: m.ID}).Updates(map[string]any{
		"name":                  m.Name,
		"name_lower":            domain.SearchKey(m.Name),
		"description":           m.Description,
		"price":                 m.Price,
		"category":              m.Category,
		"manufacturer":          m.Manufacturer,
		"stock":                 m.Stock,
		"requires_prescription": m.RequiresPrescription,
		"image_url":             m.ImageURL,
		"is_featured":           m.IsFeatured,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Medicines) Delete(ctx context.Context, id uint) error {
	res := r.store.conn(ctx).Delete(&domain.Medicine{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Medicines) List(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error) {
	q := r.store.conn(ctx).Model(&domain.Medicine{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.NameSubstring != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, containsPattern(f.NameSubstring))
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}
	out := make([]domain.Medicine, 0)
	err := q.Order("id").Offset(skip).Limit(normalizeLimit(f.Limit)).Find(&out).Error
	return out, translate(err)
}

func (r *Medicines) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.conn(ctx).Model(&domain.Medicine{}).Count(&n).Error
	return n, translate(err)
}

func (r *Medicines) DecrementStock(ctx context.Context, id uint, qty int64) (bool, error) {
	res := r.store.conn(ctx).Model(&domain.Medicine{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *Medicines) IncrementStock(ctx context.Context, id uint, qty int64) error {
	res := r.store.conn(ctx).Model(&domain.Medicine{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
