package favorites

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"grubz/models"
)

// Cache is a small local SQLite file standing in for the browser key-value
// store the storefront used as a favorites fallback. It never overrules the
// primary store; see Service for the reconciliation rules.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the local cache file.
func OpenCache(path string) (*Cache, error) {
	if path == "" {
		path = "grubz-favorites.db"
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(`CREATE TABLE IF NOT EXISTS favorites_cache (
        user_id INTEGER NOT NULL,
        restaurant_id INTEGER NOT NULL,
        created_at DATETIME NOT NULL,
        PRIMARY KEY (user_id, restaurant_id)
    )`); err != nil {
		_ = d.Close()
		return nil, err
	}
	return &Cache{db: d}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Put upserts one cached favorite.
func (c *Cache) Put(ctx context.Context, f models.Favorite) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO favorites_cache (user_id, restaurant_id, created_at) VALUES (?,?,?)`,
		f.UserID, f.RestaurantID, f.CreatedAt)
	return err
}

// Delete removes one cached favorite.
func (c *Cache) Delete(ctx context.Context, userID, restaurantID int64) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM favorites_cache WHERE user_id = ? AND restaurant_id = ?`, userID, restaurantID)
	return err
}

// ReplaceAll overwrites a user's cached favorites with the authoritative set.
func (c *Cache) ReplaceAll(ctx context.Context, userID int64, favs []models.Favorite) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites_cache WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, f := range favs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO favorites_cache (user_id, restaurant_id, created_at) VALUES (?,?,?)`,
			f.UserID, f.RestaurantID, f.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns a user's cached favorites, newest first.
func (c *Cache) List(ctx context.Context, userID int64) ([]models.Favorite, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT user_id, restaurant_id, created_at FROM favorites_cache WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Favorite
	for rows.Next() {
		var f models.Favorite
		var created time.Time
		if err := rows.Scan(&f.UserID, &f.RestaurantID, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = created
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
