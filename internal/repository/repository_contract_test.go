package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

// testMenuRepository exercises the MenuRepository contract against any implementation.
func testMenuRepository(t *testing.T, repo MenuRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := models.MenuItem{ID: "dish-1", Name: "Chorba", Price: 350, Available: true, Reviews: []string{}, CreatedAt: now, UpdatedAt: now}
	second := models.MenuItem{ID: "dish-2", Name: "Couscous", Price: 900, Available: true, Reviews: []string{}, CreatedAt: now.Add(time.Second), UpdatedAt: now.Add(time.Second)}

	for _, item := range []models.MenuItem{first, second} {
		if err := repo.Insert(ctx, models.KindDish, item); err != nil {
			t.Fatalf("Insert(%s) error = %v", item.ID, err)
		}
	}

	items, err := repo.List(ctx, models.KindDish)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "dish-1" || items[1].ID != "dish-2" {
		t.Fatalf("List() = %+v, want dish-1 then dish-2", items)
	}

	drinks, err := repo.List(ctx, models.KindDrink)
	if err != nil {
		t.Fatalf("List(drinks) error = %v", err)
	}
	if len(drinks) != 0 {
		t.Errorf("collections leak: got %d drinks", len(drinks))
	}

	second.Price = 950
	if err := repo.Replace(ctx, models.KindDish, second); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := repo.Get(ctx, models.KindDish, "dish-2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Price != 950 {
		t.Errorf("Price = %v, want 950", got.Price)
	}

	if err := repo.Replace(ctx, models.KindDish, models.MenuItem{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replace(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, models.KindDrink, "dish-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(wrong kind) error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, models.KindDish, "dish-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, models.KindDish, "dish-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func testOrderRepository(t *testing.T, repo OrderRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	table := 4

	pending := models.Order{ID: "order-1", OrderType: models.OrderDineIn, TableNumber: &table, Status: models.StatusPending,
		Items: []models.OrderItem{{Name: "Chorba", Price: 350, Quantity: 2}}, TotalPrice: 700, CreatedAt: &now, UpdatedAt: &now}
	ready := models.Order{ID: "order-2", OrderType: models.OrderTakeaway, CustomerName: "Amine", CustomerPhone: "0550", Status: models.StatusReady,
		Items: []models.OrderItem{{Name: "Couscous", Price: 900, Quantity: 1}}, TotalPrice: 900}

	for _, order := range []models.Order{pending, ready} {
		if err := repo.Insert(ctx, order); err != nil {
			t.Fatalf("Insert(%s) error = %v", order.ID, err)
		}
	}

	all, err := repo.List(ctx, models.OrderFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() returned %d orders, want 2", len(all))
	}

	onlyReady, err := repo.List(ctx, models.OrderFilter{Status: models.StatusReady})
	if err != nil {
		t.Fatalf("List(ready) error = %v", err)
	}
	if len(onlyReady) != 1 || onlyReady[0].ID != "order-2" {
		t.Errorf("List(ready) = %+v, want order-2 only", onlyReady)
	}

	got, err := repo.Get(ctx, "order-2")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CreatedAt != nil {
		t.Errorf("CreatedAt = %v, want nil", got.CreatedAt)
	}

	pending.Status = models.StatusPreparing
	if err := repo.Replace(ctx, pending); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err = repo.Get(ctx, "order-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.StatusPreparing || got.TableNumber == nil || *got.TableNumber != 4 {
		t.Errorf("Get() = %+v", got)
	}

	if err := repo.Delete(ctx, "order-3"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func testSettingsRepository(t *testing.T, repo SettingsRepository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() before save error = %v, want ErrNotFound", err)
	}

	if err := repo.Save(ctx, models.Settings{PickupTime: 30, DeliveryTime: 45}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := repo.Save(ctx, models.Settings{PickupTime: 20, DeliveryTime: 40}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PickupTime != 20 || got.DeliveryTime != 40 {
		t.Errorf("Get() = %+v, want 20/40", got)
	}
}
