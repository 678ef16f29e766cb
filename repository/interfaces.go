package repository

import (
	"context"

	"grubz/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	ListRestaurants(ctx context.Context) ([]models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Claim(ctx context.Context, orderID int64, driver models.DriverRef) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.Order, error)
	ListByDriver(ctx context.Context, driverID int64) ([]models.Order, error)
	ListAvailable(ctx context.Context) ([]models.Order, error)
}

// MenuItemRepositoryI defines operations on MenuItem entities.
type MenuItemRepositoryI interface {
	Create(ctx context.Context, m *models.MenuItem) (*models.MenuItem, error)
	GetByID(ctx context.Context, id int64) (*models.MenuItem, error)
	Update(ctx context.Context, m *models.MenuItem) error
	Delete(ctx context.Context, id int64) error
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]models.MenuItem, error)
}

// FavoriteRepositoryI defines operations on Favorite entities.
type FavoriteRepositoryI interface {
	Add(ctx context.Context, userID, restaurantID int64) (*models.Favorite, error)
	Remove(ctx context.Context, userID, restaurantID int64) error
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
}

// ApplicationRepositoryI defines operations on PartnerApplication entities.
type ApplicationRepositoryI interface {
	Create(ctx context.Context, a *models.PartnerApplication) (*models.PartnerApplication, error)
	GetByID(ctx context.Context, id int64) (*models.PartnerApplication, error)
	SetStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	SoftDelete(ctx context.Context, id int64) error
	ListPending(ctx context.Context) ([]models.PartnerApplication, error)
}
