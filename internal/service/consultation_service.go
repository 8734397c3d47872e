package service

import (
	"context"
	"errors"
	"strings"

	"medicart/internal/domain"
	"medicart/internal/repository"
)

type ConsultationService struct {
	repo repository.ConsultationRepository
}

func NewConsultationService(repo repository.ConsultationRepository) *ConsultationService {
	return &ConsultationService{repo: repo}
}

// Create opens a pending consultation for the caller
func (s *ConsultationService) Create(ctx context.Context, caller *domain.User, question, category string) (*domain.Consultation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, invalid("question is required")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.DefaultConsultationCategory
	}
	c := domain.Consultation{
		UserID:   caller.ID,
		Question: question,
		Status:   domain.ConsultationPending,
		Category: category,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ConsultationService) ListMine(ctx context.Context, caller *domain.User) ([]domain.Consultation, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, caller.ID)
}

// ListAll is the staff queue of every consultation
func (s *ConsultationService) ListAll(ctx context.Context, caller *domain.User) ([]domain.Consultation, error) {
	if !isStaff(caller) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *ConsultationService) Respond(ctx context.Context, caller *domain.User, id uint, response string) (*domain.Consultation, error) {
	if !isStaff(caller) {
		return nil, ErrForbidden
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, invalid("response is required")
	}
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Consultation", id)
	}
	if err != nil {
		return nil, err
	}
	pharmacist := caller.ID
	c.Response = response
	c.PharmacistID = &pharmacist
	c.Status = domain.ConsultationAnswered
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
