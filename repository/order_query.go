package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"grubz/models"
)

// ListByCustomer returns all orders placed by a customer, newest first.
// The id tiebreak keeps ordering stable for orders created in the same second.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	return r.listBy(ctx, `customer_id = ?`, customerID)
}

// ListByRestaurant returns all orders addressed to a restaurant, newest first.
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.Order, error) {
	return r.listBy(ctx, `restaurant_id = ?`, restaurantID)
}

// ListByDriver returns all orders a driver has claimed, newest first.
func (r *OrderRepository) ListByDriver(ctx context.Context, driverID int64) ([]models.Order, error) {
	return r.listBy(ctx, `driver_id = ?`, driverID)
}

func (r *OrderRepository) listBy(ctx context.Context, where string, arg any) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY created_at DESC, id DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// ListAvailable returns the orders a driver may claim: ready for pickup and
// unassigned, most recently readied first. The partial index on orders makes
// this the compound query the managed store needed client-side filtering for.
func (r *OrderRepository) ListAvailable(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders
WHERE status = ? AND driver_id IS NULL
ORDER BY ready_at DESC, id DESC`, string(models.OrderStatusReadyForPickup))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

// ListOrdersAdminParams represents filters and pagination for ListAdmin.
type ListOrdersAdminParams struct {
	Statuses     []models.OrderStatus
	CustomerID   *int64
	RestaurantID *int64
	DriverID     *int64
	CreatedFrom  *time.Time // optional inclusive lower bound on created_at
	CreatedTo    *time.Time // optional inclusive upper bound on created_at
	PageSize     int
	AfterSeconds int64 // keyset cursor: created_at unix seconds
	AfterID      int64 // keyset cursor: order id
}

// ListAdmin returns orders matching filters ordered by created_at desc, id desc
// with keyset pagination.
func (r *OrderRepository) ListAdmin(ctx context.Context, p ListOrdersAdminParams) ([]models.Order, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any

	if len(p.Statuses) > 0 {
		placeholders := make([]string, len(p.Statuses))
		for i, s := range p.Statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ",")+")")
	}
	if p.CustomerID != nil {
		where = append(where, "customer_id = ?")
		args = append(args, *p.CustomerID)
	}
	if p.RestaurantID != nil {
		where = append(where, "restaurant_id = ?")
		args = append(args, *p.RestaurantID)
	}
	if p.DriverID != nil {
		where = append(where, "driver_id = ?")
		args = append(args, *p.DriverID)
	}
	if p.CreatedFrom != nil {
		where = append(where, "created_at >= ?")
		args = append(args, *p.CreatedFrom)
	}
	if p.CreatedTo != nil {
		where = append(where, "created_at <= ?")
		args = append(args, *p.CreatedTo)
	}
	if p.AfterSeconds > 0 && p.AfterID > 0 {
		where = append(where, "(CAST(strftime('%s', created_at) AS INTEGER) < ? OR (CAST(strftime('%s', created_at) AS INTEGER) = ? AND id < ?))")
		args = append(args, p.AfterSeconds, p.AfterSeconds, p.AfterID)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderRows(rows)
}

func scanOrderRows(rows *sql.Rows) ([]models.Order, error) {
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
