package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grubz/internal/order"
	"grubz/models"
	"grubz/repository"
)

// handleOrderFeed streams the caller's orders as server-sent events: one
// snapshot event with the current list, then one event per change. Clients
// fold the changes into the snapshot to keep a live view.
func (s *Server) handleOrderFeed(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		scope    order.Scope
		snapshot []models.Order
		err      error
	)
	switch p.Role {
	case models.RoleAdmin:
		scope = order.Scope{Kind: order.ScopeAll}
		snapshot, err = s.orderRepo.ListAdmin(ctx, repository.ListOrdersAdminParams{PageSize: 100})
	case models.RoleRestaurant:
		scope = order.Scope{Kind: order.ScopeRestaurant, ID: p.UserID}
		snapshot, err = s.orderRepo.ListByRestaurant(ctx, p.UserID)
	case models.RoleDriver:
		scope = order.Scope{Kind: order.ScopeDriver, ID: p.UserID}
		snapshot, err = s.orderRepo.ListByDriver(ctx, p.UserID)
	default:
		scope = order.Scope{Kind: order.ScopeCustomer, ID: p.UserID}
		snapshot, err = s.orderRepo.ListByCustomer(ctx, p.UserID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	s.streamFeed(c, scope, snapshot)
}

// handleAvailableFeed streams the unclaimed ready-for-pickup pool to a
// driver. Orders that leave the pool arrive as removals, so the client list
// converges without refetching.
func (s *Server) handleAvailableFeed(c *gin.Context) {
	snapshot, err := s.orderRepo.ListAvailable(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	s.streamFeed(c, order.Scope{Kind: order.ScopeAvailable}, snapshot)
}

func (s *Server) streamFeed(c *gin.Context, scope order.Scope, snapshot []models.Order) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported", "code": "internal"})
		return
	}

	events, cancel := s.hub.Subscribe(scope)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	writeSSE(c, "snapshot", snapshot)
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt, open := <-events:
			if !open {
				// Dropped by the hub for falling behind.
				return
			}
			writeSSE(c, string(evt.Kind), evt.Order)
			flusher.Flush()
		case <-heartbeat.C:
			c.Writer.WriteString(": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeSSE(c *gin.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.Writer.WriteString("event: " + event + "\n")
	c.Writer.WriteString("data: " + string(data) + "\n\n")
}
