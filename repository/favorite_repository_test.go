package repository

import (
	"context"
	"testing"

	"grubz/internal/testutil"
	"grubz/models"
)

func TestFavoriteAddIdempotent(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "favorite_add")
	repo := NewFavoriteRepository(d)
	customer := testutil.CreateUser(t, d, "fav@example.com", "Fay", models.RoleCustomer)
	restaurant := testutil.CreateUser(t, d, "favr@example.com", "Soup Spot", models.RoleRestaurant)
	ctx := context.Background()

	first, err := repo.Add(ctx, customer.ID, restaurant.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := repo.Add(ctx, customer.ID, restaurant.ID)
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("repeat add created a new row: %d vs %d", first.ID, second.ID)
	}

	favs, err := repo.ListByUser(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(favs) != 1 {
		t.Errorf("favorites = %d, want 1", len(favs))
	}
}

func TestFavoriteRemove(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "favorite_remove")
	repo := NewFavoriteRepository(d)
	customer := testutil.CreateUser(t, d, "rm@example.com", "Remy", models.RoleCustomer)
	restaurant := testutil.CreateUser(t, d, "rmr@example.com", "Grill Stop", models.RoleRestaurant)
	ctx := context.Background()

	if _, err := repo.Add(ctx, customer.ID, restaurant.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Remove(ctx, customer.ID, restaurant.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	favs, err := repo.ListByUser(ctx, customer.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("favorites = %d after remove, want 0", len(favs))
	}

	// Removing a favorite that is not there is not an error.
	if err := repo.Remove(ctx, customer.ID, restaurant.ID); err != nil {
		t.Errorf("repeat remove: %v", err)
	}
}
