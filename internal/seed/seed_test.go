package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medicart/internal/domain"
	"medicart/internal/repository"
	"medicart/internal/testutil"
)

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	meds := repository.NewMedicines(store)
	users := repository.NewUsers(store)
	tx := repository.NewTx(store)
	admin := Admin{Email: "admin@medicart.com", Password: "admin123"}

	require.NoError(t, Run(ctx, meds, users, tx, admin, true, zerolog.Nop()))
	require.NoError(t, Run(ctx, meds, users, tx, admin, true, zerolog.Nop()))

	n, err := meds.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	napa, err := meds.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Napa", napa.Name)
	assert.Equal(t, 200.00, napa.Price)
	assert.EqualValues(t, 100, napa.Stock)

	levofox, err := meds.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, levofox.RequiresPrescription)

	u, err := users.GetByEmail(ctx, "admin@medicart.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("admin123")))
}

func TestRun_KeepsExistingCatalog(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.NewDB(t))
	meds := repository.NewMedicines(store)
	require.NoError(t, meds.Create(ctx, &domain.Medicine{Name: "Custom", Price: 1}))

	require.NoError(t, Run(ctx, meds, repository.NewUsers(store), repository.NewTx(store), Admin{}, true, zerolog.Nop()))

	n, err := meds.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
