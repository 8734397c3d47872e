package repository

import (
	"context"

	"medicart/internal/domain"
)

// Orders stores orders together with their line items
type Orders struct{ store *Store }

func NewOrders(store *Store) *Orders { return &Orders{store: store} }

var _ OrderRepository = (*Orders)(nil)

// Create inserts the order and every item in o.Items
func (r *Orders) Create(ctx context.Context, o *domain.Order) error {
	return translate(r.store.conn(ctx).Create(o).Error)
}

func (r *Orders) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.store.conn(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *Orders) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	err := r.store.conn(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	return out, translate(err)
}

// Update persists status fields; items are immutable after creation
func (r *Orders) Update(ctx context.Context, o *domain.Order) error {
	res := r.store.conn(ctx).Model(&domain.Order{ID: o.ID}).Updates(map[string]any{
		"status":           o.Status,
		"payment_status":   o.PaymentStatus,
		"shipping_address": o.ShippingAddress,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
