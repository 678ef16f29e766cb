package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"grubz/internal/testutil"
	"grubz/models"
)

func TestListByPartyScoping(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "order_lists")
	repo, customer, restaurant, driver := newOrderFixture(t, d)
	otherCustomer := testutil.CreateUser(t, d, "other@example.com", "Olly Other", models.RoleCustomer)
	ctx := context.Background()

	mine, err := repo.Create(ctx, buildOrder(customer, restaurant, models.OrderStatusPending))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	theirs := buildOrder(otherCustomer, restaurant, models.OrderStatusReadyForPickup)
	theirs.Number = "GRB-000002-TEST"
	created, err := repo.Create(ctx, theirs)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := repo.Claim(ctx, created.ID, models.DriverRef{ID: driver.ID, Name: driver.Name, Phone: driver.Phone}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	byCustomer, err := repo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(byCustomer) != 1 || byCustomer[0].ID != mine.ID {
		t.Errorf("customer list = %d orders", len(byCustomer))
	}

	byRestaurant, err := repo.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("list by restaurant: %v", err)
	}
	if len(byRestaurant) != 2 {
		t.Errorf("restaurant list = %d orders, want 2", len(byRestaurant))
	}

	byDriver, err := repo.ListByDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("list by driver: %v", err)
	}
	if len(byDriver) != 1 || byDriver[0].ID != created.ID {
		t.Errorf("driver list = %d orders", len(byDriver))
	}
}

func TestListAvailableOnlyUnclaimedReady(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "order_available")
	repo, customer, restaurant, driver := newOrderFixture(t, d)
	ctx := context.Background()

	pending := buildOrder(customer, restaurant, models.OrderStatusPending)
	if _, err := repo.Create(ctx, pending); err != nil {
		t.Fatalf("create pending: %v", err)
	}

	ready := buildOrder(customer, restaurant, models.OrderStatusReadyForPickup)
	ready.Number = "GRB-000002-TEST"
	readyCreated, err := repo.Create(ctx, ready)
	if err != nil {
		t.Fatalf("create ready: %v", err)
	}

	claimedIn := buildOrder(customer, restaurant, models.OrderStatusReadyForPickup)
	claimedIn.Number = "GRB-000003-TEST"
	claimedCreated, err := repo.Create(ctx, claimedIn)
	if err != nil {
		t.Fatalf("create claimed: %v", err)
	}
	if _, err := repo.Claim(ctx, claimedCreated.ID, models.DriverRef{ID: driver.ID, Name: driver.Name, Phone: driver.Phone}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	available, err := repo.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 || available[0].ID != readyCreated.ID {
		t.Errorf("available = %d orders, want only the unclaimed ready one", len(available))
	}
}

func TestListAdminFiltersAndPagination(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "order_admin")
	repo, customer, restaurant, _ := newOrderFixture(t, d)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		o := buildOrder(customer, restaurant, models.OrderStatusPending)
		o.Number = fmt.Sprintf("GRB-0001%02d-TEST", i)
		o.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		o.UpdatedAt = o.CreatedAt
		if i >= 3 {
			o.Status = models.OrderStatusDelivered
		}
		if _, err := repo.Create(ctx, o); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	delivered, err := repo.ListAdmin(ctx, ListOrdersAdminParams{
		Statuses: []models.OrderStatus{models.OrderStatusDelivered},
	})
	if err != nil {
		t.Fatalf("list delivered: %v", err)
	}
	if len(delivered) != 2 {
		t.Errorf("delivered = %d, want 2", len(delivered))
	}

	byCustomer, err := repo.ListAdmin(ctx, ListOrdersAdminParams{CustomerID: &customer.ID})
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(byCustomer) != 5 {
		t.Errorf("customer filter = %d, want 5", len(byCustomer))
	}

	// Page through in twos; every order shows up exactly once.
	seen := map[int64]bool{}
	var afterSeconds, afterID int64
	for {
		page, err := repo.ListAdmin(ctx, ListOrdersAdminParams{
			PageSize:     2,
			AfterSeconds: afterSeconds,
			AfterID:      afterID,
		})
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		if len(page) == 0 {
			break
		}
		for _, o := range page {
			if seen[o.ID] {
				t.Fatalf("order %d returned twice", o.ID)
			}
			seen[o.ID] = true
		}
		last := page[len(page)-1]
		afterSeconds = last.CreatedAt.Unix()
		afterID = last.ID
	}
	if len(seen) != 5 {
		t.Errorf("paged through %d orders, want 5", len(seen))
	}
}
