package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sanctuary/backend/internal/auth"
	"github.com/sanctuary/backend/internal/handlers"
	"github.com/sanctuary/backend/internal/live"
	"github.com/sanctuary/backend/internal/middleware"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/platform/metrics"
	"github.com/sanctuary/backend/internal/repository/memory"
	"github.com/sanctuary/backend/internal/storage"
)

type testApp struct {
	router *gin.Engine
	jwt    *auth.JWTService
	users  *memory.UserStore
	lives  *memory.LiveVideoStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService("test-secret-key", 1)
	m := metrics.New()

	users := memory.NewUserStore()
	events := memory.NewEventStore()
	videos := memory.NewVideoStore()
	lives := memory.NewLiveVideoStore()
	liveSvc := live.NewService(lives, nil, nil, m, 0)

	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	router := NewRouter(Deps{
		Logger:         zerolog.Nop(),
		Metrics:        m,
		Tokens:         jwtService,
		Users:          users,
		AllowedOrigins: []string{"http://localhost:3000"},
		FormLimiter:    middleware.NewRateLimiter(60, 2),
		Auth:           handlers.NewAuthHandler(users, jwtService, handlers.NewLocalThrottle(60, 10), false),
		Home:           handlers.NewHomeHandler(events, videos, liveSvc),
		Events:         handlers.NewEventHandler(events),
		Donation:       handlers.NewDonationHandler(memory.NewDonationStore()),
		Gallery:        handlers.NewGalleryHandler(memory.NewGalleryStore(), files, 1<<20),
		Videos:         handlers.NewVideoHandler(videos),
		Live:           handlers.NewLiveHandler(lives, liveSvc),
		Contact:        handlers.NewContactHandler(memory.NewContactStore()),
		Admin:          handlers.NewAdminHandler(users),
		LocalUploads:   &StaticDir{Prefix: "/uploads", Root: files.BasePath()},
	})

	return &testApp{router: router, jwt: jwtService, users: users, lives: lives}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) user(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", DisplayName: "Tester", Role: role}
	if err := a.users.Create(u); err != nil {
		t.Fatal(err)
	}
	token, err := a.jwt.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatal(err)
	}
	return u, token
}

func (a *testApp) token(t *testing.T, role string) string {
	t.Helper()
	_, token := a.user(t, role)
	return token
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	rec := app.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sanctuary_http_requests_total") {
		t.Error("expected request counter in exposition")
	}
}

func TestRouter_AdminGate(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "Anonymous", token: "", wantCode: http.StatusUnauthorized},
		{name: "Member", token: app.token(t, models.RoleMember), wantCode: http.StatusForbidden},
		{name: "Admin", token: app.token(t, models.RoleAdmin), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, "/api/v1/admin/events", tt.token, nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_DemotedAdminLosesAccess(t *testing.T) {
	app := newTestApp(t)
	target, targetToken := app.user(t, models.RoleAdmin)
	root := app.token(t, models.RoleAdmin)

	if rec := app.do(t, http.MethodGet, "/api/v1/admin/users", targetToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("before demotion: expected 200, got %d", rec.Code)
	}

	rec := app.do(t, http.MethodPut, "/api/v1/admin/users/"+target.ID.String()+"/role", root,
		models.UpdateRoleRequest{Role: models.RoleMember})
	if rec.Code != http.StatusOK {
		t.Fatalf("demote: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := app.do(t, http.MethodGet, "/api/v1/admin/users", targetToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("after demotion: expected 403, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/api/v1/me", targetToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("demoted user should still reach /me, got %d", rec.Code)
	}
}

func TestRouter_BrowserRedirectToLogin(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/donations", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirect=%2Fapi%2Fv1%2Fadmin%2Fdonations" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRouter_LiveOverlayFlow(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, models.RoleAdmin)

	if rec := app.do(t, http.MethodGet, "/api/v1/live", "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("empty: expected 204, got %d", rec.Code)
	}

	rec := app.do(t, http.MethodPost, "/api/v1/admin/live-videos", admin, models.CreateLiveVideoRequest{
		Title: "Midnight Mass", SourceURL: "https://youtu.be/MASS24?si=x", IsActive: true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodGet, "/api/v1/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	var embed models.LiveEmbed
	if err := json.Unmarshal(rec.Body.Bytes(), &embed); err != nil {
		t.Fatal(err)
	}
	if embed.EmbedURL != "https://www.youtube.com/embed/MASS24?autoplay=1&rel=0" {
		t.Errorf("EmbedURL = %q", embed.EmbedURL)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/home", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "MASS24") {
		t.Errorf("home = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_FormsAreRateLimited(t *testing.T) {
	app := newTestApp(t)
	msg := models.CreateContactRequest{Name: "Lydia", Email: "lydia@example.com", Subject: "Hello", Body: "Hi"}

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, app.do(t, http.MethodPost, "/api/v1/contact", "", msg).Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestRouter_RegisterThenSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/register", "", models.CreateUserRequest{
		Email: "new@example.com", Password: "password123", DisplayName: "Newcomer",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	var resp models.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	rec = app.do(t, http.MethodGet, "/api/v1/session?path=/admin", resp.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"decision":"redirect"`) {
		t.Errorf("members are redirected away from admin: %s", rec.Body.String())
	}

	if rec := app.do(t, http.MethodGet, "/api/v1/session", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous session lookup: expected 401, got %d", rec.Code)
	}
}

