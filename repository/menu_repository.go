package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"grubz/models"
)

type MenuItemRepository struct {
	db *sql.DB
}

func NewMenuItemRepository(db *sql.DB) *MenuItemRepository {
	return &MenuItemRepository{db: db}
}

const menuColumns = `id, restaurant_id, name, description, price, category, prep_time_min, image_url, available, created_at, updated_at`

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.Category,
		&m.PrepTimeMin, &m.ImageURL, &m.Available, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new menu item for a restaurant.
func (r *MenuItemRepository) Create(ctx context.Context, m *models.MenuItem) (*models.MenuItem, error) {
	if m == nil {
		return nil, errors.New("menu item is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.db.ExecContext(ctx, `INSERT INTO menu_items
(restaurant_id, name, description, price, category, prep_time_min, image_url, available, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.RestaurantID, m.Name, m.Description, m.Price, m.Category, m.PrepTimeMin, m.ImageURL, m.Available, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

// GetByID fetches a menu item. Returns (nil, nil) when missing.
func (r *MenuItemRepository) GetByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	m, err := scanMenuItem(r.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Update rewrites the editable fields of a menu item.
func (r *MenuItemRepository) Update(ctx context.Context, m *models.MenuItem) error {
	if m == nil {
		return errors.New("menu item is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	m.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE menu_items SET
name = ?, description = ?, price = ?, category = ?, prep_time_min = ?, image_url = ?, available = ?, updated_at = ?
WHERE id = ?`,
		m.Name, m.Description, m.Price, m.Category, m.PrepTimeMin, m.ImageURL, m.Available, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a menu item by ID.
func (r *MenuItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// ListByRestaurant returns a restaurant's menu ordered by category then name.
func (r *MenuItemRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE restaurant_id = ? ORDER BY category, name, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
