// Package seed inserts the sample catalog and the initial admin account.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"medicart/internal/domain"
	"medicart/internal/repository"
)

type Admin struct {
	Email    string
	Password string
}

// SampleMedicines is the starter catalog used on an empty database
var SampleMedicines = []domain.Medicine{
	{Name: "Napa", Description: "Pain reliever and fever reducer", Price: 200.00, Category: "tablet", Manufacturer: "Beximco", Stock: 100, IsFeatured: true},
	{Name: "Disprin", Description: "Pain reliever tablet", Price: 250.00, Category: "tablet", Manufacturer: "Square", Stock: 50, IsFeatured: true},
	{Name: "Levofox", Description: "Antibiotic medication", Price: 500.00, Category: "tablet", Manufacturer: "Incepta", Stock: 30, RequiresPrescription: true, IsFeatured: true},
}

// Run seeds medicines when the catalog is empty (and withSamples is set) and
// creates the admin account when no user has its email. It is safe to call on every start.
func Run(ctx context.Context, medicines repository.MedicineRepository, users repository.UserRepository, tx repository.TxManager, admin Admin, withSamples bool, log zerolog.Logger) error {
	return tx.WithTransaction(ctx, func(ctx context.Context) error {
		if withSamples {
			n, err := medicines.Count(ctx)
			if err != nil {
				return fmt.Errorf("count medicines: %w", err)
			}
			if n == 0 {
				for _, m := range SampleMedicines {
					if err := medicines.Create(ctx, &m); err != nil {
						return fmt.Errorf("insert medicine %s: %w", m.Name, err)
					}
				}
				log.Info().Int("count", len(SampleMedicines)).Msg("sample medicines created")
			}
		}

		email := strings.ToLower(strings.TrimSpace(admin.Email))
		if email == "" {
			return nil
		}
		_, err := users.GetByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("look up admin: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		u := &domain.User{
			Name:     "Admin User",
			Email:    email,
			Password: string(hash),
			Phone:    "+8801000000000",
			Role:     domain.RoleAdmin,
		}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Str("email", email).Msg("admin user created")
		return nil
	})
}
