package repository

import (
	"context"

	"medicart/internal/domain"
)

type Consultations struct{ store *Store }

func NewConsultations(store *Store) *Consultations { return &Consultations{store: store} }

var _ ConsultationRepository = (*Consultations)(nil)

func (r *Consultations) Create(ctx context.Context, c *domain.Consultation) error {
	return translate(r.store.conn(ctx).Create(c).Error)
}

func (r *Consultations) GetByID(ctx context.Context, id uint) (*domain.Consultation, error) {
	var c domain.Consultation
	if err := r.store.conn(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *Consultations) ListByUser(ctx context.Context, userID uint) ([]domain.Consultation, error) {
	out := make([]domain.Consultation, 0)
	err := r.store.conn(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, translate(err)
}

func (r *Consultations) List(ctx context.Context) ([]domain.Consultation, error) {
	out := make([]domain.Consultation, 0)
	err := r.store.conn(ctx).Order("id DESC").Find(&out).Error
	return out, translate(err)
}

func (r *Consultations) Update(ctx context.Context, c *domain.Consultation) error {
	res := r.store.conn(ctx).Model(&domain.Consultation{ID: c.ID}).Updates(map[string]any{
		"response":      c.Response,
		"pharmacist_id": c.PharmacistID,
		"status":        c.Status,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
