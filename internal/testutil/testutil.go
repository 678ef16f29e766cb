package testutil

import (
	"database/sql"
	"testing"
	"time"

	"grubz/internal/auth"
	"grubz/internal/db"
	"grubz/models"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// Caller is responsible for closing the DB, typically via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// We use a shared cache memory database so that multiple connections share the same DB if needed.
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// CreateUser inserts a user row with the given role and returns it. The row
// is seeded directly so this helper stays usable from any package's tests.
func CreateUser(t *testing.T, d *sql.DB, email, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		Name:         name,
		Phone:        "+1-555-0100",
		Address:      "1 Test Street",
		Role:         role,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	res, err := d.Exec(`INSERT INTO users (email, name, phone, address, role, password_hash, avatar_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.Name, u.Phone, u.Address, string(u.Role), u.PasswordHash, u.AvatarURL, u.CreatedAt)
	if err != nil {
		t.Fatalf("create %s user: %v", role, err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		t.Fatalf("create %s user: %v", role, err)
	}
	return u
}

// IssueToken returns a signed bearer token for the given user.
func IssueToken(t *testing.T, secret string, u *models.User) string {
	t.Helper()
	token, err := auth.Issue(secret, u, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
