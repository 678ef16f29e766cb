package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"grubz/internal/auth"
	"grubz/internal/order"
	"grubz/repository"
)

// writeError maps domain errors to HTTP statuses with a machine-readable
// code, so driver clients can tell "already claimed" from "not ready" from
// "not found".
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, repository.ErrOrderNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "not_ready"})
	case errors.Is(err, repository.ErrOrderClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "already_claimed"})
	case errors.Is(err, repository.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "email_taken"})
	case errors.Is(err, order.ErrRestaurantMismatch),
		errors.Is(err, order.ErrDriverMismatch),
		errors.Is(err, order.ErrCustomerMismatch):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "forbidden"})
	case errors.Is(err, order.ErrNoItems):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "invalid"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "internal"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid"})
}

// principal fetches the authenticated caller, answering 401 itself when the
// middleware did not run or the token was rejected.
func principal(c *gin.Context) (*auth.Principal, bool) {
	p, err := auth.RequirePrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthorized"})
		return nil, false
	}
	return p, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
