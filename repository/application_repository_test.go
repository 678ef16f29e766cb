package repository

import (
	"context"
	"testing"

	"grubz/internal/testutil"
	"grubz/models"
)

func TestApplicationReviewFlow(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "app_review")
	repo := NewApplicationRepository(d)
	user := testutil.CreateUser(t, d, "applicant@example.com", "Avery", models.RoleCustomer)
	ctx := context.Background()

	app, err := repo.Create(ctx, &models.PartnerApplication{
		UserID:        user.ID,
		Email:         user.Email,
		RequestedRole: models.RoleRestaurant,
		BusinessName:  "Avery's Arepas",
		Status:        models.ApplicationStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != app.ID {
		t.Fatalf("pending = %d", len(pending))
	}

	if err := repo.SetStatus(ctx, app.ID, models.ApplicationStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, err := repo.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.ApplicationStatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	if got.ReviewedAt == nil {
		t.Error("reviewedAt not stamped")
	}

	pending, err = repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending again: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after review = %d, want 0", len(pending))
	}
}

func TestApplicationSoftDeleteHidesFromPending(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "app_softdelete")
	repo := NewApplicationRepository(d)
	user := testutil.CreateUser(t, d, "gone@example.com", "Gil", models.RoleCustomer)
	ctx := context.Background()

	app, err := repo.Create(ctx, &models.PartnerApplication{
		UserID:        user.ID,
		Email:         user.Email,
		RequestedRole: models.RoleDriver,
		Status:        models.ApplicationStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SoftDelete(ctx, app.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d after soft delete, want 0", len(pending))
	}

	// The row itself survives.
	got, err := repo.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || !got.Deleted {
		t.Errorf("soft-deleted row = %+v", got)
	}
}
