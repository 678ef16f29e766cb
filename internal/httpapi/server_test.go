package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"grubz/internal/config"
	"grubz/internal/email"
	"grubz/internal/favorites"
	"grubz/internal/order"
	"grubz/internal/storage"
	"grubz/internal/testutil"
	"grubz/models"
	"grubz/repository"
)

const testSecret = "test-secret"

type apiFixture struct {
	t      *testing.T
	db     *sql.DB
	server *Server

	customer   *models.User
	restaurant *models.User
	driver     *models.User
	admin      *models.User
}

func newAPIFixture(t *testing.T, name string) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	d := testutil.OpenInMemoryDB(t, name)
	users := repository.NewUserRepository(d)
	orderRepo := repository.NewOrderRepository(d)
	hub := order.NewHub()

	blobs, err := storage.NewStore(t.TempDir(), 64)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	cfg.Auth.TokenTTLMin = 60
	cfg.HTTP.Address = ":0"

	srv := NewServer(Deps{
		Config:       cfg,
		Users:        users,
		OrderRepo:    orderRepo,
		Orders:       order.NewService(orderRepo, users, hub),
		Menus:        repository.NewMenuItemRepository(d),
		Favorites:    favorites.NewService(repository.NewFavoriteRepository(d), nil),
		Applications: repository.NewApplicationRepository(d),
		Hub:          hub,
		Blobs:        blobs,
		Email:        email.LogSender{},
	})

	return &apiFixture{
		t:          t,
		db:         d,
		server:     srv,
		customer:   testutil.CreateUser(t, d, "customer@example.com", "Cass", models.RoleCustomer),
		restaurant: testutil.CreateUser(t, d, "kitchen@example.com", "Taco Haven", models.RoleRestaurant),
		driver:     testutil.CreateUser(t, d, "driver@example.com", "Dana", models.RoleDriver),
		admin:      testutil.CreateUser(t, d, "admin@example.com", "Ada", models.RoleAdmin),
	}
}

func (f *apiFixture) do(method, path string, as *models.User, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+testutil.IssueToken(f.t, testSecret, as))
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func (f *apiFixture) placeBody() map[string]any {
	return map[string]any{
		"restaurant_id": f.restaurant.ID,
		"items": []map[string]any{
			{"id": 1, "name": "Carnitas Taco", "price": 12.99, "quantity": 2},
			{"id": 2, "name": "Horchata", "price": 5.99, "quantity": 1},
		},
		"subtotal":     31.97,
		"delivery_fee": 3.99,
		"tax":          2.56,
		"total":        38.52,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newAPIFixture(t, "api_register")

	w := f.do(http.MethodPost, "/api/register", nil, map[string]any{
		"email":    "new@example.com",
		"password": "hunter22",
		"name":     "Newt",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	if created["token"] == "" {
		t.Error("no token in register response")
	}

	w = f.do(http.MethodPost, "/api/login", nil, map[string]any{
		"email":    "new@example.com",
		"password": "hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(http.MethodPost, "/api/login", nil, map[string]any{
		"email":    "new@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login = %d, want 401", w.Code)
	}

	w = f.do(http.MethodPost, "/api/register", nil, map[string]any{
		"email":    "new@example.com",
		"password": "hunter22",
		"name":     "Dup",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register = %d, want 409", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t, "api_auth")

	w := f.do(http.MethodGet, "/api/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated /api/me = %d, want 401", w.Code)
	}

	w = f.do(http.MethodGet, "/api/me", f.customer, nil)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated /api/me = %d: %s", w.Code, w.Body.String())
	}
}

func TestRoleGating(t *testing.T) {
	f := newAPIFixture(t, "api_roles")

	// Drivers cannot place orders.
	w := f.do(http.MethodPost, "/api/orders", f.driver, f.placeBody())
	if w.Code != http.StatusForbidden {
		t.Errorf("driver placing order = %d, want 403", w.Code)
	}

	// Customers cannot accept them.
	w = f.do(http.MethodPost, "/api/orders/1/accept", f.customer, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer accepting order = %d, want 403", w.Code)
	}

	// Customers cannot reach the admin dashboard.
	w = f.do(http.MethodGet, "/api/admin/orders", f.customer, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("customer on admin routes = %d, want 403", w.Code)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	f := newAPIFixture(t, "api_lifecycle")

	w := f.do(http.MethodPost, "/api/orders", f.customer, f.placeBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("place = %d: %s", w.Code, w.Body.String())
	}
	placed := decode[models.Order](t, w)
	if placed.Status != models.OrderStatusPending {
		t.Fatalf("status = %s", placed.Status)
	}
	base := fmt.Sprintf("/api/orders/%d", placed.ID)

	steps := []struct {
		path string
		as   *models.User
		want models.OrderStatus
	}{
		{base + "/accept", f.restaurant, models.OrderStatusAccepted},
		{base + "/preparing", f.restaurant, models.OrderStatusPreparing},
		{base + "/ready", f.restaurant, models.OrderStatusReadyForPickup},
		{base + "/claim", f.driver, models.OrderStatusAssigned},
		{base + "/pickup", f.driver, models.OrderStatusOutForDelivery},
		{base + "/delivered", f.driver, models.OrderStatusDelivered},
	}
	for _, step := range steps {
		w := f.do(http.MethodPost, step.path, step.as, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s = %d: %s", step.path, w.Code, w.Body.String())
		}
		o := decode[models.Order](t, w)
		if o.Status != step.want {
			t.Fatalf("%s: status = %s, want %s", step.path, o.Status, step.want)
		}
	}
}

func TestClaimConflictCodes(t *testing.T) {
	f := newAPIFixture(t, "api_claim")

	w := f.do(http.MethodPost, "/api/orders", f.customer, f.placeBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("place = %d", w.Code)
	}
	placed := decode[models.Order](t, w)
	base := fmt.Sprintf("/api/orders/%d", placed.ID)

	// Not ready yet.
	w = f.do(http.MethodPost, base+"/claim", f.driver, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("claim pending = %d, want 409", w.Code)
	}
	if body := decode[map[string]any](t, w); body["code"] != "not_ready" {
		t.Errorf("code = %v, want not_ready", body["code"])
	}

	f.do(http.MethodPost, base+"/accept", f.restaurant, nil)
	f.do(http.MethodPost, base+"/ready", f.restaurant, nil)

	if w = f.do(http.MethodPost, base+"/claim", f.driver, nil); w.Code != http.StatusOK {
		t.Fatalf("claim ready = %d: %s", w.Code, w.Body.String())
	}

	driverB := testutil.CreateUser(t, f.db, "driverb@example.com", "Blake", models.RoleDriver)
	w = f.do(http.MethodPost, base+"/claim", driverB, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second claim = %d, want 409", w.Code)
	}
	if body := decode[map[string]any](t, w); body["code"] != "already_claimed" {
		t.Errorf("code = %v, want already_claimed", body["code"])
	}

	w = f.do(http.MethodPost, "/api/orders/99999/claim", f.driver, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("claim missing = %d, want 404", w.Code)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	f := newAPIFixture(t, "api_visibility")

	w := f.do(http.MethodPost, "/api/orders", f.customer, f.placeBody())
	placed := decode[models.Order](t, w)
	path := fmt.Sprintf("/api/orders/%d", placed.ID)

	if w := f.do(http.MethodGet, path, f.customer, nil); w.Code != http.StatusOK {
		t.Errorf("owner get = %d", w.Code)
	}
	if w := f.do(http.MethodGet, path, f.restaurant, nil); w.Code != http.StatusOK {
		t.Errorf("restaurant get = %d", w.Code)
	}
	if w := f.do(http.MethodGet, path, f.admin, nil); w.Code != http.StatusOK {
		t.Errorf("admin get = %d", w.Code)
	}
	// A pending order is not visible to an unrelated driver.
	if w := f.do(http.MethodGet, path, f.driver, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign driver get = %d, want 403", w.Code)
	}

	other := testutil.CreateUser(t, f.db, "other@example.com", "Olly", models.RoleCustomer)
	if w := f.do(http.MethodGet, path, other, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign customer get = %d, want 403", w.Code)
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	f := newAPIFixture(t, "api_favorites")
	path := fmt.Sprintf("/api/favorites/%d", f.restaurant.ID)

	if w := f.do(http.MethodPost, path, f.customer, nil); w.Code != http.StatusCreated {
		t.Fatalf("add favorite = %d: %s", w.Code, w.Body.String())
	}
	w := f.do(http.MethodGet, "/api/favorites", f.customer, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list favorites = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), fmt.Sprintf(`"restaurant_id":%d`, f.restaurant.ID)) {
		t.Errorf("favorite missing from %s", w.Body.String())
	}
	if w := f.do(http.MethodDelete, path, f.customer, nil); w.Code != http.StatusNoContent {
		t.Errorf("remove favorite = %d", w.Code)
	}

	// Favoriting a non-restaurant fails.
	bad := fmt.Sprintf("/api/favorites/%d", f.driver.ID)
	if w := f.do(http.MethodPost, bad, f.customer, nil); w.Code != http.StatusNotFound {
		t.Errorf("favorite a driver = %d, want 404", w.Code)
	}
}

func TestApplicationApprovalGrantsRole(t *testing.T) {
	f := newAPIFixture(t, "api_applications")

	w := f.do(http.MethodPost, "/api/applications", f.customer, map[string]any{
		"requested_role": "driver",
		"message":        "I have a bike.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("apply = %d: %s", w.Code, w.Body.String())
	}
	app := decode[models.PartnerApplication](t, w)

	w = f.do(http.MethodPost, fmt.Sprintf("/api/admin/applications/%d/approve", app.ID), f.admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve = %d: %s", w.Code, w.Body.String())
	}

	users := repository.NewUserRepository(f.db)
	u, err := users.GetByID(context.Background(), f.customer.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if u.Role != models.RoleDriver {
		t.Errorf("role after approval = %s, want driver", u.Role)
	}

	// Approving twice is a conflict.
	w = f.do(http.MethodPost, fmt.Sprintf("/api/admin/applications/%d/approve", app.ID), f.admin, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("second approve = %d, want 409", w.Code)
	}
}

func TestMenuCRUDOverHTTP(t *testing.T) {
	f := newAPIFixture(t, "api_menu")

	w := f.do(http.MethodPost, "/api/menu", f.restaurant, map[string]any{
		"name":  "Dan Dan Noodles",
		"price": 13.50,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu item = %d: %s", w.Code, w.Body.String())
	}
	item := decode[models.MenuItem](t, w)

	// The public menu for that restaurant shows it.
	w = f.do(http.MethodGet, fmt.Sprintf("/api/restaurants/%d/menu", f.restaurant.ID), f.customer, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Dan Dan Noodles") {
		t.Errorf("public menu = %d: %s", w.Code, w.Body.String())
	}

	// Another restaurant cannot edit it.
	other := testutil.CreateUser(t, f.db, "other-rest@example.com", "Rival", models.RoleRestaurant)
	w = f.do(http.MethodPut, fmt.Sprintf("/api/menu/%d", item.ID), other, map[string]any{
		"name":  "Stolen Dish",
		"price": 1.00,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign menu edit = %d, want 403", w.Code)
	}

	if w := f.do(http.MethodDelete, fmt.Sprintf("/api/menu/%d", item.ID), f.restaurant, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete menu item = %d", w.Code)
	}
}

func TestAvailableOrdersEndpoint(t *testing.T) {
	f := newAPIFixture(t, "api_available")

	w := f.do(http.MethodPost, "/api/orders", f.customer, f.placeBody())
	placed := decode[models.Order](t, w)
	base := fmt.Sprintf("/api/orders/%d", placed.ID)
	f.do(http.MethodPost, base+"/accept", f.restaurant, nil)
	f.do(http.MethodPost, base+"/ready", f.restaurant, nil)

	w = f.do(http.MethodGet, "/api/orders/available", f.driver, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("available = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), placed.Number) {
		t.Errorf("ready order missing from available pool: %s", w.Body.String())
	}

	f.do(http.MethodPost, base+"/claim", f.driver, nil)
	w = f.do(http.MethodGet, "/api/orders/available", f.driver, nil)
	if strings.Contains(w.Body.String(), placed.Number) {
		t.Errorf("claimed order still in available pool: %s", w.Body.String())
	}
}
