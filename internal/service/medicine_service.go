package service

import (
	"context"
	"errors"
	"strings"

	"medicart/internal/domain"
	"medicart/internal/repository"
)

const featuredLimit = 10

// MedicineService инкапсулирует бизнес-логику каталога
type MedicineService struct {
	repo repository.MedicineRepository
}

func NewMedicineService(repo repository.MedicineRepository) *MedicineService {
	return &MedicineService{repo: repo}
}

// MedicineInput is the full set of fields for a new catalog entry
type MedicineInput struct {
	Name                 string
	Description          string
	Price                float64
	Category             string
	Manufacturer         string
	Stock                int64
	RequiresPrescription bool
	ImageURL             string
	IsFeatured           bool
}

// MedicineUpdate changes only the fields that are set
type MedicineUpdate struct {
	Name                 *string
	Description          *string
	Price                *float64
	Category             *string
	Manufacturer         *string
	Stock                *int64
	RequiresPrescription *bool
	ImageURL             *string
	IsFeatured           *bool
}

func (s *MedicineService) List(ctx context.Context, f repository.MedicineFilter) ([]domain.Medicine, error) {
	if f.Skip < 0 || f.Limit < 0 {
		return nil, invalid("skip and limit must not be negative")
	}
	return s.repo.List(ctx, f)
}

func (s *MedicineService) Featured(ctx context.Context) ([]domain.Medicine, error) {
	return s.repo.List(ctx, repository.MedicineFilter{FeaturedOnly: true, Limit: featuredLimit})
}

func (s *MedicineService) Get(ctx context.Context, id uint) (*domain.Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Medicine", id)
	}
	return m, err
}

func (s *MedicineService) Create(ctx context.Context, caller *domain.User, in MedicineInput) (*domain.Medicine, error) {
	if !isAdmin(caller) {
		return nil, ErrForbidden
	}
	m := domain.Medicine{
		Name:                 strings.TrimSpace(in.Name),
		Description:          in.Description,
		Price:                in.Price,
		Category:             in.Category,
		Manufacturer:         in.Manufacturer,
		Stock:                in.Stock,
		RequiresPrescription: in.RequiresPrescription,
		ImageURL:             in.ImageURL,
		IsFeatured:           in.IsFeatured,
	}
	if err := validateMedicine(&m); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MedicineService) Update(ctx context.Context, caller *domain.User, id uint, in MedicineUpdate) (*domain.Medicine, error) {
	if !isAdmin(caller) {
		return nil, ErrForbidden
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.Manufacturer != nil {
		m.Manufacturer = *in.Manufacturer
	}
	if in.Stock != nil {
		m.Stock = *in.Stock
	}
	if in.RequiresPrescription != nil {
		m.RequiresPrescription = *in.RequiresPrescription
	}
	if in.ImageURL != nil {
		m.ImageURL = *in.ImageURL
	}
	if in.IsFeatured != nil {
		m.IsFeatured = *in.IsFeatured
	}
	if err := validateMedicine(m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Medicine", id)
		}
		return nil, err
	}
	return m, nil
}

func (s *MedicineService) Delete(ctx context.Context, caller *domain.User, id uint) error {
	if !isAdmin(caller) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Medicine", id)
		}
		return err
	}
	return nil
}

func validateMedicine(m *domain.Medicine) error {
	switch {
	case m.Name == "":
		return invalid("name is required")
	case m.Price < 0:
		return invalid("price must not be negative")
	case m.Stock < 0:
		return invalid("stock must not be negative")
	}
	return nil
}

func isAdmin(u *domain.User) bool { return u != nil && u.Role == domain.RoleAdmin }

func isStaff(u *domain.User) bool { return u != nil && u.Role.IsStaff() }
