package repository_test

import (
	"context"
	"errors"
	"testing"

	"medicart/internal/domain"
	"medicart/internal/repository"
	"medicart/internal/testutil"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(testutil.NewDB(t))
}

func TestMedicines_CRUD(t *testing.T) {
	ctx := context.Background()
	meds := repository.NewMedicines(newStore(t))

	m := domain.Medicine{Name: "Napa", Price: 200, Category: "tablet", Stock: 5}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == 0 {
		t.Fatalf("no id")
	}

	got, err := meds.GetByID(ctx, m.ID)
	if err != nil || got.Name != "Napa" {
		t.Fatalf("get: %v", err)
	}

	m.Price = 210
	m.IsFeatured = true
	if err := meds.Update(ctx, &m); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = meds.GetByID(ctx, m.ID)
	if got.Price != 210 || !got.IsFeatured {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := meds.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := meds.GetByID(ctx, m.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := meds.Delete(ctx, m.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if err := meds.Update(ctx, &m); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestMedicines_ListFiltering(t *testing.T) {
	ctx := context.Background()
	meds := repository.NewMedicines(newStore(t))
	add := func(name, category string, featured bool) {
		m := domain.Medicine{Name: name, Category: category, Price: 1, Stock: 1, IsFeatured: featured}
		if err := meds.Create(ctx, &m); err != nil {
			t.Fatal(err)
		}
	}
	add("Napa Extra", "tablet", true)
	add("NAPA Syrup", "liquid", false)
	add("Disprin", "tablet", true)
	add("100% Pure", "liquid", false)
	add("Парацетамол Форте", "syrup", false)

	// name contains, any case
	list, _ := meds.List(ctx, repository.MedicineFilter{NameSubstring: "nApA"})
	if len(list) != 2 {
		t.Fatalf("name filter: expected 2, got %d", len(list))
	}

	// non-ASCII names fold the same way as the search term
	for _, term := range []string{"парацетамол", "ПАРАЦЕТАМОЛ", "Парацетамол", "форте"} {
		list, _ = meds.List(ctx, repository.MedicineFilter{NameSubstring: term})
		if len(list) != 1 || list[0].Name != "Парацетамол Форте" {
			t.Fatalf("search %q: %+v", term, list)
		}
	}

	// category is exact
	list, _ = meds.List(ctx, repository.MedicineFilter{Category: "tablet"})
	if len(list) != 2 {
		t.Fatalf("category filter: expected 2, got %d", len(list))
	}
	list, _ = meds.List(ctx, repository.MedicineFilter{Category: "Tablet"})
	if len(list) != 0 {
		t.Fatalf("category must match exactly, got %d", len(list))
	}

	// wildcard characters in search are literal
	list, _ = meds.List(ctx, repository.MedicineFilter{NameSubstring: "%"})
	if len(list) != 1 || list[0].Name != "100% Pure" {
		t.Fatalf("literal %% search failed: %+v", list)
	}

	// pagination keeps id order
	list, _ = meds.List(ctx, repository.MedicineFilter{Skip: 1, Limit: 2})
	if len(list) != 2 || list[0].Name != "NAPA Syrup" || list[1].Name != "Disprin" {
		t.Fatalf("pagination: %+v", list)
	}

	list, _ = meds.List(ctx, repository.MedicineFilter{FeaturedOnly: true})
	if len(list) != 2 {
		t.Fatalf("featured: expected 2, got %d", len(list))
	}

	n, err := meds.Count(ctx)
	if err != nil || n != 5 {
		t.Fatalf("count: %d %v", n, err)
	}
}

func TestMedicines_DecrementStock(t *testing.T) {
	ctx := context.Background()
	meds := repository.NewMedicines(newStore(t))
	m := domain.Medicine{Name: "Napa", Price: 200, Stock: 3}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}

	ok, err := meds.DecrementStock(ctx, m.ID, 2)
	if err != nil || !ok {
		t.Fatalf("decrement: %v %v", ok, err)
	}
	ok, err = meds.DecrementStock(ctx, m.ID, 2)
	if err != nil || ok {
		t.Fatalf("expected short stock, got %v %v", ok, err)
	}
	got, _ := meds.GetByID(ctx, m.ID)
	if got.Stock != 1 {
		t.Fatalf("stock expected 1, got %d", got.Stock)
	}

	if err := meds.IncrementStock(ctx, m.ID, 4); err != nil {
		t.Fatal(err)
	}
	got, _ = meds.GetByID(ctx, m.ID)
	if got.Stock != 5 {
		t.Fatalf("stock expected 5, got %d", got.Stock)
	}
	if err := meds.IncrementStock(ctx, 999, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMedicines_RenameKeepsSearchInStep(t *testing.T) {
	ctx := context.Background()
	meds := repository.NewMedicines(newStore(t))
	m := domain.Medicine{Name: "Napa", Price: 1, Stock: 1}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}
	m.Name = "Ибупрофен"
	if err := meds.Update(ctx, &m); err != nil {
		t.Fatal(err)
	}
	if list, _ := meds.List(ctx, repository.MedicineFilter{NameSubstring: "ИБУ"}); len(list) != 1 {
		t.Fatalf("renamed medicine not found: %+v", list)
	}
	if list, _ := meds.List(ctx, repository.MedicineFilter{NameSubstring: "napa"}); len(list) != 0 {
		t.Fatalf("old name still matches: %+v", list)
	}
}

func TestMigrate_BackfillsSearchColumn(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	meds := repository.NewMedicines(repository.NewStore(db))
	m := domain.Medicine{Name: "Ёлка Сироп", Price: 1, Stock: 1}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("UPDATE medicines SET name_lower = NULL").Error; err != nil {
		t.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if list, _ := meds.List(ctx, repository.MedicineFilter{NameSubstring: "ёлка"}); len(list) != 1 {
		t.Fatalf("backfilled row not found: %+v", list)
	}
}

func TestMedicines_DecrementStockAfterStaleRead(t *testing.T) {
	ctx := context.Background()
	meds := repository.NewMedicines(newStore(t))
	m := domain.Medicine{Name: "Napa", Price: 200, Stock: 3}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}
	seen, err := meds.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}

	// another buyer takes two units after our read
	if ok, err := meds.DecrementStock(ctx, m.ID, 2); err != nil || !ok {
		t.Fatalf("concurrent decrement: %v %v", ok, err)
	}

	ok, err := meds.DecrementStock(ctx, m.ID, seen.Stock)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatalf("decrement of %d must be refused", seen.Stock)
	}
	got, _ := meds.GetByID(ctx, m.ID)
	if got.Stock != 1 {
		t.Fatalf("stock expected 1, got %d", got.Stock)
	}
}

func TestTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	tx := repository.NewTx(store)
	meds := repository.NewMedicines(store)
	orders := repository.NewOrders(store)

	m := domain.Medicine{Name: "A", Price: 10, Stock: 5}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := meds.DecrementStock(ctx, m.ID, 3); err != nil {
			return err
		}
		o := domain.Order{UserID: 1, Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentPending,
			Items: []domain.OrderItem{{MedicineID: m.ID, Quantity: 3, Price: 10}}}
		if err := orders.Create(ctx, &o); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := meds.GetByID(ctx, m.ID)
	if got.Stock != 5 {
		t.Fatalf("stock must be restored by rollback, got %d", got.Stock)
	}
	list, _ := orders.ListByUser(ctx, 1)
	if len(list) != 0 {
		t.Fatalf("order must be rolled back, got %d", len(list))
	}
}

func TestTx_CommitOrderWithItems(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	tx := repository.NewTx(store)
	orders := repository.NewOrders(store)

	var id uint
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		o := domain.Order{UserID: 7, TotalAmount: 30, Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentPending,
			Items: []domain.OrderItem{{MedicineID: 1, Quantity: 1, Price: 10}, {MedicineID: 2, Quantity: 2, Price: 10}}}
		if err := orders.Create(ctx, &o); err != nil {
			return err
		}
		id = o.ID
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	got, err := orders.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 || got.Items[0].OrderID != id {
		t.Fatalf("items not stored: %+v", got.Items)
	}
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers(newStore(t))
	u := domain.User{Name: "A", Email: "a@x.io", Password: "h", Phone: "1", Role: domain.RoleCustomer}
	if err := users.Create(ctx, &u); err != nil {
		t.Fatal(err)
	}
	dup := domain.User{Name: "B", Email: "a@x.io", Password: "h", Phone: "2", Role: domain.RoleCustomer}
	if err := users.Create(ctx, &dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	got, err := users.GetByEmail(ctx, "a@x.io")
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by email: %v", err)
	}
}

func TestPrescriptions_ReplaceMedicines(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	meds := repository.NewMedicines(store)
	prescriptions := repository.NewPrescriptions(store)

	m := domain.Medicine{Name: "Levofox", Price: 500, Stock: 30, RequiresPrescription: true}
	if err := meds.Create(ctx, &m); err != nil {
		t.Fatal(err)
	}
	p := domain.Prescription{UserID: 1, ImageURL: "/uploads/prescriptions/x.png", Status: domain.PrescriptionPending}
	if err := prescriptions.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	if err := prescriptions.ReplaceMedicines(ctx, p.ID, []domain.PrescriptionMedicine{{MedicineID: m.ID, Quantity: 2}}); err != nil {
		t.Fatal(err)
	}
	got, err := prescriptions.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Medicines) != 1 || got.Medicines[0].Quantity != 2 || got.Medicines[0].Medicine == nil {
		t.Fatalf("medicines not linked: %+v", got.Medicines)
	}
	if err := prescriptions.ReplaceMedicines(ctx, p.ID, nil); err != nil {
		t.Fatal(err)
	}
	got, _ = prescriptions.GetByID(ctx, p.ID)
	if len(got.Medicines) != 0 {
		t.Fatalf("expected cleared list, got %+v", got.Medicines)
	}
}
