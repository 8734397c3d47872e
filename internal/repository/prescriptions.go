package repository

import (
	"context"

	"medicart/internal/domain"
)

type Prescriptions struct{ store *Store }

func NewPrescriptions(store *Store) *Prescriptions { return &Prescriptions{store: store} }

var _ PrescriptionRepository = (*Prescriptions)(nil)

func (r *Prescriptions) Create(ctx context.Context, p *domain.Prescription) error {
	return translate(r.store.conn(ctx).Omit("Medicines").Create(p).Error)
}

func (r *Prescriptions) GetByID(ctx context.Context, id uint) (*domain.Prescription, error) {
	var p domain.Prescription
	if err := r.store.conn(ctx).Preload("Medicines.Medicine").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *Prescriptions) ListByUser(ctx context.Context, userID uint) ([]domain.Prescription, error) {
	out := make([]domain.Prescription, 0)
	err := r.store.conn(ctx).Preload("Medicines").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	return out, translate(err)
}

func (r *Prescriptions) Update(ctx context.Context, p *domain.Prescription) error {
	res := r.store.conn(ctx).Model(&domain.Prescription{ID: p.ID}).Updates(map[string]any{
		"status":             p.Status,
		"verified_by":        p.VerifiedBy,
		"verification_notes": p.VerificationNotes,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceMedicines swaps the prescribed medicine list for the given one
func (r *Prescriptions) ReplaceMedicines(ctx context.Context, prescriptionID uint, items []domain.PrescriptionMedicine) error {
	conn := r.store.conn(ctx)
	if err := conn.Where("prescription_id = ?", prescriptionID).Delete(&domain.PrescriptionMedicine{}).Error; err != nil {
		return translate(err)
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PrescriptionID = prescriptionID
	}
	return translate(conn.Omit("Medicine").Create(&items).Error)
}
