package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grubz/models"
)

// OrderRepository is the core repository for Order entities.
// Line items are persisted as a JSON column; the rest of the record is flat.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, number, customer_id, customer_name, customer_email, customer_phone, delivery_address,
restaurant_id, restaurant_name, restaurant_phone, restaurant_address,
driver_id, driver_name, driver_phone, items,
subtotal, delivery_fee, tax, total, status, instructions,
payment_method, payment_status, payment_ref,
created_at, updated_at, estimated_delivery_time, accepted_at, ready_at, assigned_at, delivered_at, actual_delivery_time`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var status, method, payStatus, itemsJSON string
	var driverID sql.NullInt64
	var acceptedAt, readyAt, assignedAt, deliveredAt, actualAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.DeliveryAddress,
		&o.RestaurantID, &o.RestaurantName, &o.RestaurantPhone, &o.RestaurantAddress,
		&driverID, &o.DriverName, &o.DriverPhone, &itemsJSON,
		&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Total, &status, &o.Instructions,
		&method, &payStatus, &o.PaymentRef,
		&o.CreatedAt, &o.UpdatedAt, &o.EstimatedDeliveryTime, &acceptedAt, &readyAt, &assignedAt, &deliveredAt, &actualAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.PaymentMethod = models.PaymentMethod(method)
	o.PaymentStatus = models.PaymentStatus(payStatus)
	if driverID.Valid {
		v := driverID.Int64
		o.DriverID = &v
	}
	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if acceptedAt.Valid {
		v := acceptedAt.Time
		o.AcceptedAt = &v
	}
	if readyAt.Valid {
		v := readyAt.Time
		o.ReadyAt = &v
	}
	if assignedAt.Valid {
		v := assignedAt.Time
		o.AssignedAt = &v
	}
	if deliveredAt.Valid {
		v := deliveredAt.Time
		o.DeliveredAt = &v
	}
	if actualAt.Valid {
		v := actualAt.Time
		o.ActualDeliveryTime = &v
	}
	return &o, nil
}

// Create inserts a new order. Status defaults to 'pending' if empty; items are
// serialized to JSON. Returns the stored record with its generated ID.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	var driverID any
	if o.DriverID != nil {
		driverID = *o.DriverID
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO orders (
number, customer_id, customer_name, customer_email, customer_phone, delivery_address,
restaurant_id, restaurant_name, restaurant_phone, restaurant_address,
driver_id, driver_name, driver_phone, items,
subtotal, delivery_fee, tax, total, status, instructions,
payment_method, payment_status, payment_ref,
created_at, updated_at, estimated_delivery_time, accepted_at, ready_at, assigned_at, delivered_at, actual_delivery_time
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.Number, o.CustomerID, o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.DeliveryAddress,
		o.RestaurantID, o.RestaurantName, o.RestaurantPhone, o.RestaurantAddress,
		driverID, o.DriverName, o.DriverPhone, string(itemsJSON),
		o.Subtotal, o.DeliveryFee, o.Tax, o.Total, string(o.Status), o.Instructions,
		string(o.PaymentMethod), string(o.PaymentStatus), o.PaymentRef,
		o.CreatedAt, o.UpdatedAt, o.EstimatedDeliveryTime, o.AcceptedAt, o.ReadyAt, o.AssignedAt, o.DeliveredAt, o.ActualDeliveryTime,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o2 == nil {
		return nil, fmt.Errorf("created order not found: id=%d", id)
	}
	return o2, nil
}

// GetByID fetches an order by its ID. Returns (nil, nil) when missing.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// GetByNumber fetches an order by its human-readable order number.
// Numbers are only practically unique; the most recent match wins.
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE number = ? ORDER BY id DESC LIMIT 1`, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// Update persists the mutable fields of an order, including status and the
// per-transition timestamps stamped by the state machine.
func (r *OrderRepository) Update(ctx context.Context, o *models.Order) error {
	if o == nil {
		return errors.New("order is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	var driverID any
	if o.DriverID != nil {
		driverID = *o.DriverID
	}
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET
driver_id = ?, driver_name = ?, driver_phone = ?, items = ?,
status = ?, instructions = ?, payment_status = ?, payment_ref = ?,
updated_at = ?, accepted_at = ?, ready_at = ?, assigned_at = ?, delivered_at = ?, actual_delivery_time = ?
WHERE id = ?`,
		driverID, o.DriverName, o.DriverPhone, string(itemsJSON),
		string(o.Status), o.Instructions, string(o.PaymentStatus), o.PaymentRef,
		o.UpdatedAt, o.AcceptedAt, o.ReadyAt, o.AssignedAt, o.DeliveredAt, o.ActualDeliveryTime,
		o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Claim atomically assigns a ready-for-pickup order to the given driver.
// The guarded UPDATE is the atomic read-check-write: of any number of
// concurrent claims on the same order at most one affects a row; the rest
// observe ErrOrderClaimed, ErrOrderNotReady or ErrOrderNotFound.
func (r *OrderRepository) Claim(ctx context.Context, orderID int64, driver models.DriverRef) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	st, drvSet, found, err := r.claimState(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	if drvSet {
		return nil, ErrOrderClaimed
	}
	if st != models.OrderStatusReadyForPickup {
		return nil, ErrOrderNotReady
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET
status = ?, driver_id = ?, driver_name = ?, driver_phone = ?, assigned_at = ?, updated_at = ?
WHERE id = ? AND status = ? AND driver_id IS NULL`,
		string(models.OrderStatusAssigned), driver.ID, driver.Name, driver.Phone, now, now,
		orderID, string(models.OrderStatusReadyForPickup))
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race between the read above and the write. Re-read to
		// keep the failure classification accurate.
		st, drvSet, found, err = r.claimState(ctx, orderID)
		if err != nil {
			return nil, err
		}
		switch {
		case !found:
			return nil, ErrOrderNotFound
		case st != models.OrderStatusReadyForPickup && !drvSet:
			return nil, ErrOrderNotReady
		default:
			return nil, ErrOrderClaimed
		}
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID))
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) claimState(ctx context.Context, orderID int64) (models.OrderStatus, bool, bool, error) {
	var status string
	var driverID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT status, driver_id FROM orders WHERE id = ?`, orderID).Scan(&status, &driverID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, false, nil
	}
	if err != nil {
		return "", false, false, err
	}
	return models.OrderStatus(status), driverID.Valid, true, nil
}
