package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"grubz/internal/auth"
	"grubz/internal/config"
	"grubz/internal/email"
	"grubz/internal/favorites"
	"grubz/internal/order"
	"grubz/internal/payments"
	"grubz/internal/storage"
	"grubz/models"
	"grubz/repository"
)

// Server wires the HTTP surface for the four role dashboards over the order
// core and repositories.
type Server struct {
	cfg          *config.Config
	users        *repository.UserRepository
	orderRepo    *repository.OrderRepository
	orders       *order.Service
	menus        *repository.MenuItemRepository
	favorites    *favorites.Service
	applications *repository.ApplicationRepository
	hub          *order.Hub
	blobs        *storage.Store
	email        email.Sender
	payments     *payments.Client // nil when unconfigured

	engine *gin.Engine
}

// Deps collects the collaborators a Server needs.
type Deps struct {
	Config       *config.Config
	Users        *repository.UserRepository
	OrderRepo    *repository.OrderRepository
	Orders       *order.Service
	Menus        *repository.MenuItemRepository
	Favorites    *favorites.Service
	Applications *repository.ApplicationRepository
	Hub          *order.Hub
	Blobs        *storage.Store
	Email        email.Sender
	Payments     *payments.Client
}

// NewServer builds the gin engine and registers all routes.
func NewServer(d Deps) *Server {
	s := &Server{
		cfg:          d.Config,
		users:        d.Users,
		orderRepo:    d.OrderRepo,
		orders:       d.Orders,
		menus:        d.Menus,
		favorites:    d.Favorites,
		applications: d.Applications,
		hub:          d.Hub,
		blobs:        d.Blobs,
		email:        d.Email,
		payments:     d.Payments,
	}
	if s.email == nil {
		s.email = email.LogSender{}
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.routes(engine)
	s.engine = engine
	return s
}

func (s *Server) routes(engine *gin.Engine) {
	engine.POST("/api/register", s.handleRegister)
	engine.POST("/api/login", s.handleLogin)
	engine.GET("/files/*path", s.handleDownload)

	api := engine.Group("/api", auth.Middleware(s.cfg.Auth.JWTSecret))

	api.GET("/me", s.handleMe)
	api.PUT("/me", s.handleUpdateProfile)
	api.PUT("/me/password", s.handleChangePassword)

	api.GET("/restaurants", s.handleListRestaurants)
	api.GET("/restaurants/:id/menu", s.handleRestaurantMenu)

	api.POST("/orders", auth.RequireRole(models.RoleCustomer), s.handlePlaceOrder)
	api.GET("/orders/mine", s.handleMyOrders)
	api.GET("/orders/available", auth.RequireRole(models.RoleDriver), s.handleAvailableOrders)
	api.GET("/orders/:id", s.handleGetOrder)
	api.POST("/orders/:id/cancel", auth.RequireRole(models.RoleCustomer, models.RoleAdmin), s.handleCancelOrder)

	restaurant := auth.RequireRole(models.RoleRestaurant)
	api.POST("/orders/:id/accept", restaurant, s.orderMove(s.orders.Accept))
	api.POST("/orders/:id/reject", restaurant, s.orderMove(s.orders.Reject))
	api.POST("/orders/:id/preparing", restaurant, s.orderMove(s.orders.MarkPreparing))
	api.POST("/orders/:id/ready", restaurant, s.orderMove(s.orders.MarkReady))

	driver := auth.RequireRole(models.RoleDriver)
	api.POST("/orders/:id/claim", driver, s.handleClaimOrder)
	api.POST("/orders/:id/pickup", driver, s.orderMove(s.orders.MarkOutForDelivery))
	api.POST("/orders/:id/delivered", driver, s.orderMove(s.orders.MarkDelivered))

	api.GET("/feed/orders", s.handleOrderFeed)
	api.GET("/feed/available", driver, s.handleAvailableFeed)

	customer := auth.RequireRole(models.RoleCustomer)
	api.GET("/favorites", customer, s.handleListFavorites)
	api.POST("/favorites/:restaurantID", customer, s.handleAddFavorite)
	api.DELETE("/favorites/:restaurantID", customer, s.handleRemoveFavorite)

	api.GET("/menu", restaurant, s.handleOwnMenu)
	api.POST("/menu", restaurant, s.handleCreateMenuItem)
	api.PUT("/menu/:id", restaurant, s.handleUpdateMenuItem)
	api.DELETE("/menu/:id", restaurant, s.handleDeleteMenuItem)

	api.POST("/applications", s.handleApply)
	api.POST("/payments/verify", s.handleVerifyPayment)
	api.POST("/uploads", s.handleUpload)

	admin := api.Group("/admin", auth.RequireRole(models.RoleAdmin))
	admin.GET("/orders", s.handleAdminOrders)
	admin.GET("/users", s.handleAdminUsers)
	admin.GET("/applications", s.handleAdminApplications)
	admin.POST("/applications/:id/approve", s.handleApproveApplication)
	admin.POST("/applications/:id/reject", s.handleRejectApplication)
	admin.DELETE("/applications/:id", s.handleDeleteApplication)
	admin.POST("/email/test", s.handleTestEmail)
}

// Handler exposes the engine for tests and for the HTTP server.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.HTTP.Address,
		Handler: s.engine,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
