package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grubz/internal/auth"
	"grubz/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	u, err := s.users.Create(c.Request.Context(), &models.User{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         models.RoleCustomer,
		PasswordHash: hash,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := s.issueToken(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": "unauthorized"})
		return
	}
	token, err := s.issueToken(u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

func (s *Server) issueToken(u *models.User) (string, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLMin) * time.Minute
	return auth.Issue(s.cfg.Auth.JWTSecret, u, ttl)
}

func (s *Server) handleMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := s.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found", "code": "not_found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type changePasswordRequest struct {
	Current string `json:"current_password" binding:"required"`
	New     string `json:"new_password" binding:"required,min=6"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Current) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is wrong", "code": "unauthorized"})
		return
	}
	hash, err := auth.HashPassword(req.New)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.users.UpdatePassword(c.Request.Context(), u.ID, hash); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": true})
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AvatarURL string `json:"avatar_url"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	u, err := s.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found", "code": "not_found"})
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Address != "" {
		u.Address = req.Address
	}
	if req.AvatarURL != "" {
		u.AvatarURL = req.AvatarURL
	}
	if err := s.users.UpdateProfile(c.Request.Context(), u); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
