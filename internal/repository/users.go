package repository

import (
	"context"

	"medicart/internal/domain"
)

type Users struct{ store *Store }

func NewUsers(store *Store) *Users { return &Users{store: store} }

var _ UserRepository = (*Users)(nil)

func (r *Users) Create(ctx context.Context, u *domain.User) error {
	return translate(r.store.conn(ctx).Create(u).Error)
}

func (r *Users) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.store.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.store.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
