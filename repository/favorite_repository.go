package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"grubz/models"
)

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add records a favorite. Adding the same restaurant twice is a no-op that
// returns the existing row.
func (r *FavoriteRepository) Add(ctx context.Context, userID, restaurantID int64) (*models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, restaurant_id, created_at) VALUES (?,?,?)`, userID, restaurantID, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return r.get(ctx, userID, restaurantID)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Favorite{ID: id, UserID: userID, RestaurantID: restaurantID, CreatedAt: now}, nil
}

func (r *FavoriteRepository) get(ctx context.Context, userID, restaurantID int64) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, restaurant_id, created_at FROM favorites WHERE user_id = ? AND restaurant_id = ?`,
		userID, restaurantID).Scan(&f.ID, &f.UserID, &f.RestaurantID, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Remove deletes a favorite. Removing a missing favorite is not an error.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, restaurantID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND restaurant_id = ?`, userID, restaurantID)
	return err
}

// ListByUser returns a user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, restaurant_id, created_at FROM favorites WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.RestaurantID, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
