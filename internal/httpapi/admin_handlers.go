package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"grubz/models"
	"grubz/repository"
)

// handleAdminOrders lists orders across all parties with optional filters.
// Pagination is keyset based: pass the last row's created-at seconds and id
// back as after_seconds and after_id.
func (s *Server) handleAdminOrders(c *gin.Context) {
	var p repository.ListOrdersAdminParams

	if raw := c.Query("statuses"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				p.Statuses = append(p.Statuses, models.OrderStatus(part))
			}
		}
	}
	p.CustomerID = queryID(c, "customer_id")
	p.RestaurantID = queryID(c, "restaurant_id")
	p.DriverID = queryID(c, "driver_id")
	if from, ok := queryTime(c, "from"); ok {
		p.CreatedFrom = &from
	}
	if to, ok := queryTime(c, "to"); ok {
		p.CreatedTo = &to
	}
	p.PageSize, _ = strconv.Atoi(c.Query("page_size"))
	p.AfterSeconds, _ = strconv.ParseInt(c.Query("after_seconds"), 10, 64)
	p.AfterID, _ = strconv.ParseInt(c.Query("after_id"), 10, 64)

	orders, err := s.orderRepo.ListAdmin(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func queryID(c *gin.Context, name string) *int64 {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func queryTime(c *gin.Context, name string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, c.Query(name))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Server) handleAdminUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	users, err := s.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleAdminApplications(c *gin.Context) {
	apps, err := s.applications.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// handleApproveApplication grants the requested role and records the review.
// The notification email is best effort; a send failure does not undo the
// role change.
func (s *Server) handleApproveApplication(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, ok := s.pendingApplication(c, id)
	if !ok {
		return
	}
	if err := s.users.UpdateRole(c.Request.Context(), app.UserID, app.RequestedRole); err != nil {
		writeError(c, err)
		return
	}
	if err := s.applications.SetStatus(c.Request.Context(), id, models.ApplicationStatusApproved); err != nil {
		writeError(c, err)
		return
	}
	s.notifyApplicant(app, "Your application was approved",
		fmt.Sprintf("Your %s application has been approved. Sign in again to use your new dashboard.", app.RequestedRole))
	c.JSON(http.StatusOK, gin.H{"status": models.ApplicationStatusApproved})
}

func (s *Server) handleRejectApplication(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, ok := s.pendingApplication(c, id)
	if !ok {
		return
	}
	if err := s.applications.SetStatus(c.Request.Context(), id, models.ApplicationStatusRejected); err != nil {
		writeError(c, err)
		return
	}
	s.notifyApplicant(app, "Your application was not approved",
		fmt.Sprintf("Your %s application was reviewed and not approved at this time.", app.RequestedRole))
	c.JSON(http.StatusOK, gin.H{"status": models.ApplicationStatusRejected})
}

func (s *Server) handleDeleteApplication(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := s.applications.SoftDelete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) pendingApplication(c *gin.Context, id int64) (*models.PartnerApplication, bool) {
	app, err := s.applications.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	if app == nil || app.Deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found", "code": "not_found"})
		return nil, false
	}
	if app.Status != models.ApplicationStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "application already reviewed", "code": "already_reviewed"})
		return nil, false
	}
	return app, true
}

func (s *Server) notifyApplicant(app *models.PartnerApplication, subject, body string) {
	if err := s.email.Send(app.Email, subject, body); err != nil {
		log.Printf("httpapi: application %d notification to %s: %v", app.ID, app.Email, err)
	}
}

type testEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

func (s *Server) handleTestEmail(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.email.Send(req.To, "Grubz delivery test", "Email delivery from the admin dashboard works."); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
