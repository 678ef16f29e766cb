package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grubz/models"
)

func (s *Server) handleListFavorites(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	favs, err := s.favorites.List(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favs})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	restaurantID, ok := idParam(c, "restaurantID")
	if !ok {
		return
	}
	r, err := s.users.GetByID(c.Request.Context(), restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	if r == nil || r.Role != models.RoleRestaurant {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found", "code": "not_found"})
		return
	}
	f, err := s.favorites.Add(c.Request.Context(), p.UserID, restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	restaurantID, ok := idParam(c, "restaurantID")
	if !ok {
		return
	}
	if err := s.favorites.Remove(c.Request.Context(), p.UserID, restaurantID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type applyRequest struct {
	RequestedRole string `json:"requested_role" binding:"required"`
	BusinessName  string `json:"business_name"`
	Message       string `json:"message"`
}

// handleApply files a partner application asking for the restaurant or
// driver role. Review happens on the admin dashboard.
func (s *Server) handleApply(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	role := models.Role(req.RequestedRole)
	if role != models.RoleRestaurant && role != models.RoleDriver {
		badRequest(c, "requested_role must be restaurant or driver")
		return
	}
	u, err := s.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not found", "code": "unauthorized"})
		return
	}
	app, err := s.applications.Create(c.Request.Context(), &models.PartnerApplication{
		UserID:        u.ID,
		Email:         u.Email,
		RequestedRole: role,
		BusinessName:  req.BusinessName,
		Message:       req.Message,
		Status:        models.ApplicationStatusPending,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}
