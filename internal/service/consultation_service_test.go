package service

import (
	"context"
	"errors"
	"testing"

	"medicart/internal/domain"
	"medicart/internal/repository"
)

func TestConsultationWorkflow(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	alice := env.user(t, "alice@x.io", domain.RoleCustomer)
	bob := env.user(t, "bob@x.io", domain.RoleCustomer)
	pharmacist := env.user(t, "p@x.io", domain.RolePharmacist)

	if _, err := env.consults.Create(ctx, alice, "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty question: expected invalid input, got %v", err)
	}
	c, err := env.consults.Create(ctx, alice, "Can I take Napa with tea?", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Category != domain.DefaultConsultationCategory || c.Status != domain.ConsultationPending {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if _, err := env.consults.Create(ctx, bob, "Dosage for kids?", "pediatrics"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	mine, err := env.consults.ListMine(ctx, alice)
	if err != nil || len(mine) != 1 || mine[0].ID != c.ID {
		t.Fatalf("alice should see only her consultation: %v %+v", err, mine)
	}
	if _, err := env.consults.ListAll(ctx, alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer list all: expected forbidden, got %v", err)
	}
	all, err := env.consults.ListAll(ctx, pharmacist)
	if err != nil || len(all) != 2 {
		t.Fatalf("staff should see all: %v %d", err, len(all))
	}

	if _, err := env.consults.Respond(ctx, bob, c.ID, "yes"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("customer respond: expected forbidden, got %v", err)
	}
	if _, err := env.consults.Respond(ctx, pharmacist, c.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty response: expected invalid input, got %v", err)
	}
	if _, err := env.consults.Respond(ctx, pharmacist, 999, "yes"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	answered, err := env.consults.Respond(ctx, pharmacist, c.ID, "Yes, that is fine.")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if answered.Status != domain.ConsultationAnswered || answered.PharmacistID == nil || *answered.PharmacistID != pharmacist.ID {
		t.Fatalf("response not stored: %+v", answered)
	}
	mine, _ = env.consults.ListMine(ctx, alice)
	if mine[0].Response != "Yes, that is fine." {
		t.Fatalf("response not persisted: %+v", mine[0])
	}
}
