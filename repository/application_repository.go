package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"grubz/models"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, user_id, email, requested_role, business_name, message, status, deleted, created_at, reviewed_at`

func scanApplication(row rowScanner) (*models.PartnerApplication, error) {
	var a models.PartnerApplication
	var role, status string
	var reviewedAt sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.Email, &role, &a.BusinessName, &a.Message, &status, &a.Deleted, &a.CreatedAt, &reviewedAt)
	if err != nil {
		return nil, err
	}
	a.RequestedRole = models.Role(role)
	a.Status = models.ApplicationStatus(status)
	if reviewedAt.Valid {
		v := reviewedAt.Time
		a.ReviewedAt = &v
	}
	return &a, nil
}

// Create inserts a new partner application with status 'pending'.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.PartnerApplication) (*models.PartnerApplication, error) {
	if a == nil {
		return nil, errors.New("application is nil")
	}
	if a.Status == "" {
		a.Status = models.ApplicationStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	a.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO partner_applications
(user_id, email, requested_role, business_name, message, status, deleted, created_at)
VALUES (?,?,?,?,?,?,?,?)`,
		a.UserID, a.Email, string(a.RequestedRole), a.BusinessName, a.Message, string(a.Status), a.Deleted, a.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	a.ID = id
	return a, nil
}

// GetByID fetches an application. Returns (nil, nil) when missing.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.PartnerApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	a, err := scanApplication(r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM partner_applications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// SetStatus records the admin decision and stamps reviewed_at.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`UPDATE partner_applications SET status = ?, reviewed_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete hides an application from listings without removing the row.
func (r *ApplicationRepository) SoftDelete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE partner_applications SET deleted = 1 WHERE id = ?`, id)
	return err
}

// ListPending returns undeleted pending applications, oldest first so admins
// review in arrival order.
func (r *ApplicationRepository) ListPending(ctx context.Context) ([]models.PartnerApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM partner_applications
WHERE status = ? AND deleted = 0 ORDER BY created_at ASC, id ASC`, string(models.ApplicationStatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.PartnerApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
