package repository

import (
	"context"
	"errors"
	"testing"

	"grubz/internal/testutil"
	"grubz/models"
)

func TestUserCreateAndLookup(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "user_create")
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{
		Email:        "pat@example.com",
		Name:         "Pat",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != models.RoleCustomer {
		t.Errorf("role = %s, want default customer", u.Role)
	}

	byEmail, err := repo.GetByEmail(ctx, "pat@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("get by email = %+v", byEmail)
	}

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing email, got %+v", missing)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "user_dup")
	repo := NewUserRepository(d)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &models.User{Email: "dup@example.com", Name: "First", PasswordHash: "x"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.Create(ctx, &models.User{Email: "dup@example.com", Name: "Second", PasswordHash: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate create: err = %v, want ErrEmailTaken", err)
	}
}

func TestUserUpdateRoleAndProfile(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "user_update")
	repo := NewUserRepository(d)
	ctx := context.Background()

	u, err := repo.Create(ctx, &models.User{Email: "role@example.com", Name: "Robin", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateRole(ctx, u.ID, models.RoleDriver); err != nil {
		t.Fatalf("update role: %v", err)
	}
	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != models.RoleDriver {
		t.Errorf("role = %s, want driver", got.Role)
	}

	got.Phone = "+1-555-0199"
	got.Address = "9 Elm Street"
	if err := repo.UpdateProfile(ctx, got); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	again, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Phone != "+1-555-0199" || again.Address != "9 Elm Street" {
		t.Errorf("profile = %q %q", again.Phone, again.Address)
	}
}

func TestListRestaurants(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "user_restaurants")
	repo := NewUserRepository(d)
	ctx := context.Background()

	testutil.CreateUser(t, d, "c@example.com", "Customer", models.RoleCustomer)
	testutil.CreateUser(t, d, "r1@example.com", "Burger Barn", models.RoleRestaurant)
	testutil.CreateUser(t, d, "r2@example.com", "Pizza Place", models.RoleRestaurant)

	rs, err := repo.ListRestaurants(ctx)
	if err != nil {
		t.Fatalf("list restaurants: %v", err)
	}
	if len(rs) != 2 {
		t.Errorf("restaurants = %d, want 2", len(rs))
	}
	for _, r := range rs {
		if r.Role != models.RoleRestaurant {
			t.Errorf("non-restaurant in list: %+v", r)
		}
	}
}
