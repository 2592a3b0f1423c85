package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/internal/auth"
	"github.com/reelbites/reelbites-backend/internal/catalog"
	"github.com/reelbites/reelbites-backend/internal/follows"
	"github.com/reelbites/reelbites-backend/internal/interactions"
	"github.com/reelbites/reelbites-backend/internal/notifications"
	"github.com/reelbites/reelbites-backend/internal/orders"
	"github.com/reelbites/reelbites-backend/internal/ratings"
	pkgauth "github.com/reelbites/reelbites-backend/pkg/auth"
	"github.com/reelbites/reelbites-backend/pkg/auth/session"
	"github.com/reelbites/reelbites-backend/pkg/config"
	"github.com/reelbites/reelbites-backend/pkg/db/models"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) RegisterUser(ctx context.Context, dto auth.RegisterUserDTO) (auth.AuthResultDTO, error) {
	return auth.AuthResultDTO{}, nil
}

func (stubAuthService) RegisterPartner(ctx context.Context, dto auth.RegisterPartnerDTO) (auth.AuthResultDTO, error) {
	return auth.AuthResultDTO{}, nil
}

func (stubAuthService) LoginUser(ctx context.Context, email, password string) (auth.AuthResultDTO, error) {
	return auth.AuthResultDTO{}, nil
}

func (stubAuthService) LoginPartner(ctx context.Context, email, password string) (auth.AuthResultDTO, error) {
	return auth.AuthResultDTO{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (auth.TokenPairDTO, error) {
	return auth.TokenPairDTO{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateFoodItem(ctx context.Context, dto catalog.CreateFoodItemDTO) (*models.FoodItem, error) {
	return &models.FoodItem{}, nil
}

func (stubCatalogService) Feed(ctx context.Context, viewerID uuid.UUID, cursor string, limit int) (catalog.FeedPageDTO, error) {
	return catalog.FeedPageDTO{Items: []catalog.FeedItemDTO{}}, nil
}

func (stubCatalogService) ListPartnerItems(ctx context.Context, partnerID uuid.UUID) ([]models.FoodItem, error) {
	return nil, nil
}

type stubInteractionsService struct{}

func (stubInteractionsService) ToggleLike(ctx context.Context, userID, foodID uuid.UUID) (interactions.ToggleResultDTO, error) {
	return interactions.ToggleResultDTO{Active: true, Count: 1}, nil
}

func (stubInteractionsService) ToggleSave(ctx context.Context, userID, foodID uuid.UUID) (interactions.ToggleResultDTO, error) {
	return interactions.ToggleResultDTO{}, nil
}

func (stubInteractionsService) Annotate(ctx context.Context, userID uuid.UUID, foodIDs []uuid.UUID) (map[uuid.UUID]catalog.InteractionFlags, error) {
	return map[uuid.UUID]catalog.InteractionFlags{}, nil
}

type stubFollowsService struct{}

func (stubFollowsService) ToggleFollow(ctx context.Context, userID, partnerID uuid.UUID) (follows.ToggleResultDTO, error) {
	return follows.ToggleResultDTO{}, nil
}

func (stubFollowsService) IsFollowing(ctx context.Context, userID, partnerID uuid.UUID) (bool, error) {
	return false, nil
}

type stubRatingsService struct{}

func (stubRatingsService) Submit(ctx context.Context, userID, partnerID uuid.UUID, score int, comment *string) (ratings.SummaryDTO, error) {
	return ratings.SummaryDTO{Score: score, RatingCount: 1, RatingAverage: float64(score)}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) PlaceOrder(ctx context.Context, dto orders.PlaceOrderDTO) (orders.OrderDTO, error) {
	return orders.OrderDTO{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, role enums.ActorRole) (orders.OrderDTO, error) {
	return orders.OrderDTO{}, nil
}

func (stubOrdersService) ListUserOrders(ctx context.Context, userID uuid.UUID, cursor string, limit int) (orders.OrderPageDTO, error) {
	return orders.OrderPageDTO{Orders: []orders.OrderDTO{}}, nil
}

func (stubOrdersService) ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, cursor string, limit int) (orders.OrderPageDTO, error) {
	return orders.OrderPageDTO{Orders: []orders.OrderDTO{}}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID, partnerID uuid.UUID, next enums.OrderStatus) (orders.OrderDTO, error) {
	return orders.OrderDTO{}, nil
}

type stubNotificationsService struct{}

func (stubNotificationsService) List(ctx context.Context, userID uuid.UUID, cursor string, limit int) (notifications.PageDTO, error) {
	return notifications.PageDTO{Notifications: []notifications.NotificationDTO{}}, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return nil
}

func (stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) NotifyOrderStatus(ctx context.Context, userID, orderID uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             stubPinger{},
		Sessions:       stubSessions{},
		AuthService:    stubAuthService{},
		CatalogService: stubCatalogService{},
		Interactions:   stubInteractionsService{},
		Follows:        stubFollowsService{},
		Ratings:        stubRatingsService{},
		Orders:         stubOrdersService{},
		Notifications:  stubNotificationsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		PrincipalID: uuid.New(),
		Role:        role,
		JTI:         session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestFeedServesAnonymousViewers(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for anonymous feed got %d", resp.Code)
	}
}

func TestUserRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestUserRoutesRejectPartnerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRolePartner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for partner on user route got %d", resp.Code)
	}
}

func TestUserRoutesAcceptUserRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for user orders got %d", resp.Code)
	}
}

func TestPartnerRoutesRequirePartnerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	user := httptest.NewRequest(http.MethodGet, "/api/v1/partner/orders", nil)
	user.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, user)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user on partner route got %d", resp.Code)
	}

	partner := httptest.NewRequest(http.MethodGet, "/api/v1/partner/orders", nil)
	partner.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRolePartner))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, partner)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for partner orders got %d", resp.Code)
	}
}

func TestRegisterRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestRegisterAcceptsGoodJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	body := `{"full_name":"Asha Rao","email":"asha@example.com","password":"hunter2hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/user/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for valid register got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"status":"teleported"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/partner/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRolePartner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status got %d", resp.Code)
	}
}
