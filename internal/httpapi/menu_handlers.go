package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grubz/models"
)

type menuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
	PrepTimeMin int64   `json:"prep_time_min"`
	ImageURL    string  `json:"image_url"`
	Available   *bool   `json:"available"`
}

func (s *Server) handleOwnMenu(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := s.menus.ListByRestaurant(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) handleCreateMenuItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item, err := s.menus.Create(c.Request.Context(), &models.MenuItem{
		RestaurantID: p.UserID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		PrepTimeMin:  req.PrepTimeMin,
		ImageURL:     req.ImageURL,
		Available:    available,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := s.ownedMenuItem(c, id, p.UserID)
	if err != nil || item == nil {
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.PrepTimeMin = req.PrepTimeMin
	item.ImageURL = req.ImageURL
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := s.menus.Update(c.Request.Context(), item); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleDeleteMenuItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := s.ownedMenuItem(c, id, p.UserID)
	if err != nil || item == nil {
		return
	}
	if err := s.menus.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedMenuItem loads a menu item and checks the caller owns it. The error
// response has already been written when it returns nil.
func (s *Server) ownedMenuItem(c *gin.Context, id, restaurantID int64) (*models.MenuItem, error) {
	item, err := s.menus.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return nil, err
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "menu item not found", "code": "not_found"})
		return nil, nil
	}
	if item.RestaurantID != restaurantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your menu item", "code": "forbidden"})
		return nil, nil
	}
	return item, nil
}
