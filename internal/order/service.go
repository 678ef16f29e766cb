package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"grubz/models"
	"grubz/repository"
)

// DeliveryEstimate is the fixed window promised at creation. It is not
// re-estimated later and does not account for restaurant load or distance.
const DeliveryEstimate = 45 * time.Minute

var (
	ErrRestaurantMismatch = errors.New("order does not belong to this restaurant")
	ErrDriverMismatch     = errors.New("order is not assigned to this driver")
	ErrCustomerMismatch   = errors.New("order does not belong to this customer")
	ErrNoItems            = errors.New("order has no items")
)

// EventPublisher pushes order events beyond the in-process hub, e.g. to a
// message broker for external consumers. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt Event) error
}

// PaymentIntents opens a payment with an external provider for non-cash
// orders and returns a provider reference.
type PaymentIntents interface {
	CreateIntent(ctx context.Context, amount float64, receipt string) (string, error)
}

// Service owns the order lifecycle: creation, restaurant and driver status
// moves, and the claim hand-off. All writes go through the repository; every
// successful write is republished on the hub.
type Service struct {
	orders    repository.OrderRepositoryI
	users     repository.UserRepositoryI
	hub       *Hub
	publisher EventPublisher // optional
	payments  PaymentIntents // optional
}

func NewService(orders repository.OrderRepositoryI, users repository.UserRepositoryI, hub *Hub) *Service {
	return &Service{orders: orders, users: users, hub: hub}
}

// WithPublisher attaches an external event publisher.
func (s *Service) WithPublisher(p EventPublisher) *Service {
	s.publisher = p
	return s
}

// WithPayments attaches a payment provider used for card and wallet orders.
func (s *Service) WithPayments(p PaymentIntents) *Service {
	s.payments = p
	return s
}

// PlaceInput materializes a new order from a customer's checkout state.
// Money totals are supplied by the caller and persisted as-is.
type PlaceInput struct {
	CustomerID      int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	RestaurantID    int64
	Items           []models.OrderItem
	Subtotal        float64
	DeliveryFee     float64
	Tax             float64
	Total           float64
	PaymentMethod   models.PaymentMethod
	Instructions    string
}

// Place creates an order in status pending with paymentStatus pending and
// an estimated delivery time of now plus DeliveryEstimate. Missing contact
// fields are filled from the stored profiles; every remaining optional field
// is coerced to its zero value before persistence.
func (s *Service) Place(ctx context.Context, in PlaceInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}

	customer, err := s.users.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d not found", in.CustomerID)
	}
	restaurant, err := s.users.GetByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}
	if restaurant == nil || restaurant.Role != models.RoleRestaurant {
		return nil, fmt.Errorf("restaurant %d not found", in.RestaurantID)
	}

	if in.CustomerName == "" {
		in.CustomerName = customer.Name
	}
	if in.CustomerEmail == "" {
		in.CustomerEmail = customer.Email
	}
	if in.CustomerPhone == "" {
		in.CustomerPhone = customer.Phone
	}
	if in.DeliveryAddress == "" {
		in.DeliveryAddress = customer.Address
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodCash
	}

	items := make([]models.OrderItem, len(in.Items))
	copy(items, in.Items)

	now := time.Now().UTC()
	o := &models.Order{
		Number:                NewNumber(),
		CustomerID:            customer.ID,
		CustomerName:          in.CustomerName,
		CustomerEmail:         in.CustomerEmail,
		CustomerPhone:         in.CustomerPhone,
		DeliveryAddress:       in.DeliveryAddress,
		RestaurantID:          restaurant.ID,
		RestaurantName:        restaurant.Name,
		RestaurantPhone:       restaurant.Phone,
		RestaurantAddress:     restaurant.Address,
		Items:                 items,
		Subtotal:              in.Subtotal,
		DeliveryFee:           in.DeliveryFee,
		Tax:                   in.Tax,
		Total:                 in.Total,
		Status:                models.OrderStatusPending,
		Instructions:          in.Instructions,
		PaymentMethod:         in.PaymentMethod,
		PaymentStatus:         models.PaymentStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
		EstimatedDeliveryTime: now.Add(DeliveryEstimate),
	}

	if s.payments != nil && in.PaymentMethod != models.PaymentMethodCash {
		ref, err := s.payments.CreateIntent(ctx, in.Total, o.Number)
		if err != nil {
			return nil, fmt.Errorf("create payment intent: %w", err)
		}
		o.PaymentRef = ref
	}

	created, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Kind: EventAdded, Order: *created})
	return created, nil
}

// Accept moves an order to accepted on behalf of its restaurant.
func (s *Service) Accept(ctx context.Context, orderID, restaurantID int64) (*models.Order, error) {
	return s.restaurantMove(ctx, orderID, restaurantID, models.OrderStatusAccepted)
}

// Reject moves an order to rejected on behalf of its restaurant.
func (s *Service) Reject(ctx context.Context, orderID, restaurantID int64) (*models.Order, error) {
	return s.restaurantMove(ctx, orderID, restaurantID, models.OrderStatusRejected)
}

// MarkPreparing moves an order to preparing on behalf of its restaurant.
func (s *Service) MarkPreparing(ctx context.Context, orderID, restaurantID int64) (*models.Order, error) {
	return s.restaurantMove(ctx, orderID, restaurantID, models.OrderStatusPreparing)
}

// MarkReady moves an order to readyForPickup, making it claimable by drivers.
func (s *Service) MarkReady(ctx context.Context, orderID, restaurantID int64) (*models.Order, error) {
	return s.restaurantMove(ctx, orderID, restaurantID, models.OrderStatusReadyForPickup)
}

func (s *Service) restaurantMove(ctx context.Context, orderID, restaurantID int64, status models.OrderStatus) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	if o.RestaurantID != restaurantID {
		return nil, ErrRestaurantMismatch
	}
	Transition(o, status)
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Kind: EventModified, Order: *o})
	return o, nil
}

// Claim lets a driver take ownership of a ready order. The repository runs
// the atomic precondition check; claim-conflict errors pass through untouched
// so callers can tell "already claimed" from "not ready" from "not found".
func (s *Service) Claim(ctx context.Context, orderID int64, driver models.DriverRef) (*models.Order, error) {
	o, err := s.orders.Claim(ctx, orderID, driver)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Kind: EventModified, Order: *o})
	return o, nil
}

// MarkOutForDelivery moves a claimed order to out_for_delivery.
func (s *Service) MarkOutForDelivery(ctx context.Context, orderID, driverID int64) (*models.Order, error) {
	return s.driverMove(ctx, orderID, driverID, models.OrderStatusOutForDelivery)
}

// MarkDelivered completes the delivery.
func (s *Service) MarkDelivered(ctx context.Context, orderID, driverID int64) (*models.Order, error) {
	return s.driverMove(ctx, orderID, driverID, models.OrderStatusDelivered)
}

func (s *Service) driverMove(ctx context.Context, orderID, driverID int64, status models.OrderStatus) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	if o.DriverID == nil || *o.DriverID != driverID {
		return nil, ErrDriverMismatch
	}
	Transition(o, status)
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Kind: EventModified, Order: *o})
	return o, nil
}

// Cancel moves an order to cancelled on behalf of its customer. Admins pass
// the order's own customer id after their own authorization check.
func (s *Service) Cancel(ctx context.Context, orderID, customerID int64) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	if o.CustomerID != customerID {
		return nil, ErrCustomerMismatch
	}
	Transition(o, models.OrderStatusCancelled)
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Kind: EventModified, Order: *o})
	return o, nil
}

// Get fetches a single order.
func (s *Service) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) publish(ctx context.Context, evt Event) {
	if s.hub != nil {
		s.hub.Publish(evt)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(ctx, evt); err != nil {
			// External fan-out is best effort; the write already happened.
			log.Printf("order service: publish event order=%d: %v", evt.Order.ID, err)
		}
	}
}
