package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"grubz/internal/auth"
	"grubz/internal/order"
	"grubz/models"
)

type placeOrderRequest struct {
	RestaurantID    int64              `json:"restaurant_id" binding:"required"`
	Items           []models.OrderItem `json:"items" binding:"required"`
	Subtotal        float64            `json:"subtotal"`
	DeliveryFee     float64            `json:"delivery_fee"`
	Tax             float64            `json:"tax"`
	Total           float64            `json:"total"`
	PaymentMethod   string             `json:"payment_method"`
	DeliveryAddress string             `json:"delivery_address"`
	Phone           string             `json:"phone"`
	Instructions    string             `json:"instructions"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := s.orders.Place(c.Request.Context(), order.PlaceInput{
		CustomerID:      p.UserID,
		CustomerPhone:   req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		RestaurantID:    req.RestaurantID,
		Items:           req.Items,
		Subtotal:        req.Subtotal,
		DeliveryFee:     req.DeliveryFee,
		Tax:             req.Tax,
		Total:           req.Total,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		Instructions:    req.Instructions,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// handleMyOrders returns the caller's orders, scoped by role: customers see
// orders they placed, restaurants orders placed with them, drivers orders
// assigned to them.
func (s *Server) handleMyOrders(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var (
		orders []models.Order
		lerr   error
	)
	switch p.Role {
	case models.RoleRestaurant:
		orders, lerr = s.orderRepo.ListByRestaurant(c.Request.Context(), p.UserID)
	case models.RoleDriver:
		orders, lerr = s.orderRepo.ListByDriver(c.Request.Context(), p.UserID)
	default:
		orders, lerr = s.orderRepo.ListByCustomer(c.Request.Context(), p.UserID)
	}
	if lerr != nil {
		writeError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) handleAvailableOrders(c *gin.Context) {
	orders, err := s.orderRepo.ListAvailable(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !canSeeOrder(p, o) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order", "code": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func canSeeOrder(p *auth.Principal, o *models.Order) bool {
	switch p.Role {
	case models.RoleAdmin:
		return true
	case models.RoleRestaurant:
		return o.RestaurantID == p.UserID
	case models.RoleDriver:
		if o.DriverID != nil && *o.DriverID == p.UserID {
			return true
		}
		// Drivers may inspect unclaimed ready orders before claiming.
		return o.Status == models.OrderStatusReadyForPickup && o.DriverID == nil
	default:
		return o.CustomerID == p.UserID
	}
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	customerID := p.UserID
	if p.Role == models.RoleAdmin {
		o, err := s.orders.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		customerID = o.CustomerID
	}
	o, err := s.orders.Cancel(c.Request.Context(), id, customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// orderMove adapts a service status move into a handler. The second argument
// of every move is the acting party's user id, checked against the order
// inside the service.
func (s *Server) orderMove(move func(ctx context.Context, orderID, actorID int64) (*models.Order, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := auth.RequirePrincipal(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthorized"})
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		o, err := move(c.Request.Context(), id, p.UserID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func (s *Server) handleClaimOrder(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	driver, err := s.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if driver == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "driver account not found", "code": "unauthorized"})
		return
	}
	o, err := s.orders.Claim(c.Request.Context(), id, models.DriverRef{
		ID:    driver.ID,
		Name:  driver.Name,
		Phone: driver.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleListRestaurants(c *gin.Context) {
	rs, err := s.users.ListRestaurants(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurants": rs})
}

func (s *Server) handleRestaurantMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	items, err := s.menus.ListByRestaurant(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type verifyPaymentRequest struct {
	OrderID   int64  `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// handleVerifyPayment confirms a provider checkout for the caller's own
// order and marks the payment as paid.
func (s *Server) handleVerifyPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if s.payments == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "payments are not configured", "code": "unavailable"})
		return
	}
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	o, err := s.orders.Get(c.Request.Context(), req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}
	if o.CustomerID != p.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your order", "code": "forbidden"})
		return
	}
	if o.PaymentRef == "" {
		badRequest(c, "order has no provider payment")
		return
	}
	if !s.payments.VerifySignature(o.PaymentRef, req.PaymentID, req.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature mismatch", "code": "invalid_signature"})
		return
	}
	o.PaymentStatus = models.PaymentStatusPaid
	if err := s.orderRepo.Update(c.Request.Context(), o); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
