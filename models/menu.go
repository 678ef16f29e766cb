package models

import "time"

// MenuItem is a dish offered by a restaurant. The owning restaurant is a user
// with the restaurant role.
type MenuItem struct {
	ID           int64     `db:"id" json:"id"`
	RestaurantID int64     `db:"restaurant_id" json:"restaurant_id"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description,omitempty"`
	Price        float64   `db:"price" json:"price"`
	Category     string    `db:"category" json:"category,omitempty"`
	PrepTimeMin  int64     `db:"prep_time_min" json:"prep_time_min,omitempty"`
	ImageURL     string    `db:"image_url" json:"image_url,omitempty"`
	Available    bool      `db:"available" json:"available"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
