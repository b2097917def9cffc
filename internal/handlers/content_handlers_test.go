package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/live"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository/memory"
)

func TestEventHandler_PublicAndAdmin(t *testing.T) {
	events := memory.NewEventStore()
	h := NewEventHandler(events)
	now := time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/api/v1/events", h.ListEvents)
	r.GET("/api/v1/events/:id", h.GetEvent)
	admin := r.Group("/api/v1/admin/events", asUser(uuid.New(), models.RoleAdmin))
	admin.GET("", h.AdminListEvents)
	admin.POST("", h.CreateEvent)
	admin.PUT("/:id", h.UpdateEvent)
	admin.DELETE("/:id", h.DeleteEvent)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/admin/events", models.CreateEventRequest{
		Title:     "Advent Concert",
		StartsAt:  now.Add(48 * time.Hour),
		Published: false,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var draft models.Event
	decode(t, rec, &draft)

	// Drafts are hidden from the public site
	if rec := doJSON(t, r, http.MethodGet, "/api/v1/events/"+draft.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("draft: expected 404, got %d", rec.Code)
	}

	published := true
	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/events/"+draft.ID.String(), models.UpdateEventRequest{Published: &published})
	if rec.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/events", nil)
	var list struct {
		Events []models.Event `json:"events"`
	}
	decode(t, rec, &list)
	if len(list.Events) != 1 || list.Events[0].Title != "Advent Concert" {
		t.Errorf("events = %+v", list.Events)
	}

	before := now.Add(-time.Hour)
	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/events/"+draft.ID.String(), models.UpdateEventRequest{EndsAt: &before})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ends before start: expected 400, got %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/v1/admin/events/"+draft.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodDelete, "/api/v1/admin/events/"+draft.ID.String(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestDonationHandler(t *testing.T) {
	donations := memory.NewDonationStore()
	h := NewDonationHandler(donations)

	r := gin.New()
	r.POST("/api/v1/donations", h.CreateDonation)
	r.GET("/api/v1/admin/donations", h.ListDonations)

	tests := []struct {
		name     string
		req      models.CreateDonationRequest
		wantCode int
	}{
		{
			name:     "Valid pledge",
			req:      models.CreateDonationRequest{DonorName: "Ruth", Email: "ruth@example.com", AmountCents: 5000, Currency: "eur"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "Zero amount",
			req:      models.CreateDonationRequest{DonorName: "Ruth", Email: "ruth@example.com"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Unknown fund",
			req:      models.CreateDonationRequest{DonorName: "Ruth", Email: "ruth@example.com", AmountCents: 100, Fund: "casino"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/v1/donations", tt.req)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	rec := doJSON(t, r, http.MethodGet, "/api/v1/admin/donations", nil)
	var body struct {
		Donations []models.Donation        `json:"donations"`
		Summary   []models.DonationSummary `json:"summary"`
	}
	decode(t, rec, &body)
	if len(body.Donations) != 1 {
		t.Fatalf("donations = %+v", body.Donations)
	}
	d := body.Donations[0]
	if d.Currency != "EUR" || d.Fund != models.FundGeneral || d.Status != models.DonationStatusPledged {
		t.Errorf("donation not normalized: %+v", d)
	}
	if len(body.Summary) != 1 || body.Summary[0].TotalCents != 5000 {
		t.Errorf("summary = %+v", body.Summary)
	}
}

func TestContactHandler(t *testing.T) {
	h := NewContactHandler(memory.NewContactStore())

	r := gin.New()
	r.POST("/api/v1/contact", h.CreateMessage)
	r.GET("/api/v1/admin/contact", h.ListMessages)
	r.PUT("/api/v1/admin/contact/:id/handled", h.MarkHandled)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/contact", models.CreateContactRequest{
		Name: "Martha", Email: "martha@example.com", Subject: "Baptism", Body: "When is the next class?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, rec, &created)

	if rec := doJSON(t, r, http.MethodPost, "/api/v1/contact", models.CreateContactRequest{Name: "x"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid: expected 400, got %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodPut, "/api/v1/admin/contact/"+created.ID.String()+"/handled", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("handled: expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/admin/contact?unhandled=true", nil)
	var list struct {
		Messages []models.ContactMessage `json:"messages"`
	}
	decode(t, rec, &list)
	if len(list.Messages) != 0 {
		t.Errorf("expected handled message to be filtered, got %+v", list.Messages)
	}

	if rec := doJSON(t, r, http.MethodPut, "/api/v1/admin/contact/"+uuid.NewString()+"/handled", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: expected 404, got %d", rec.Code)
	}
}

func TestVideoHandler(t *testing.T) {
	h := NewVideoHandler(memory.NewVideoStore())

	r := gin.New()
	r.GET("/api/v1/videos", h.ListVideos)
	r.POST("/api/v1/admin/videos", h.CreateVideo)
	r.PUT("/api/v1/admin/videos/:id", h.UpdateVideo)
	r.DELETE("/api/v1/admin/videos/:id", h.DeleteVideo)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/admin/videos", models.CreateVideoRequest{
		Title: "Easter Sermon", SourceURL: "https://youtu.be/EASTER1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var v models.Video
	decode(t, rec, &v)
	if v.YouTubeID != "EASTER1" || v.EmbedURL != live.EmbedURL("EASTER1") {
		t.Errorf("video = %+v", v)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/v1/admin/videos", models.CreateVideoRequest{
		Title: "Elsewhere", SourceURL: "https://vimeo.com/1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-youtube: expected 400, got %d", rec.Code)
	}

	src := "https://www.youtube.com/watch?v=EASTER2"
	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/videos/"+v.ID.String(), models.UpdateVideoRequest{SourceURL: &src})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/videos", nil)
	var list struct {
		Videos []models.Video `json:"videos"`
	}
	decode(t, rec, &list)
	if len(list.Videos) != 1 || list.Videos[0].EmbedURL != live.EmbedURL("EASTER2") {
		t.Errorf("videos = %+v", list.Videos)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/v1/admin/videos/"+v.ID.String(), nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
}

func TestAdminHandler_SetRole(t *testing.T) {
	users := memory.NewUserStore()
	self := seedUser(t, users, "admin@example.com", "password123", models.RoleAdmin)
	member := seedUser(t, users, "member@example.com", "password123", models.RoleMember)
	h := NewAdminHandler(users)

	r := gin.New()
	admin := r.Group("/api/v1/admin", asUser(self.ID, models.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.PUT("/users/:id/role", h.SetRole)

	rec := doJSON(t, r, http.MethodPut, "/api/v1/admin/users/"+member.ID.String()+"/role", models.UpdateRoleRequest{Role: models.RoleAdmin})
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if u, _ := users.GetByID(member.ID); u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}

	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/users/"+self.ID.String()+"/role", models.UpdateRoleRequest{Role: models.RoleMember})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self demote: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/users/"+member.ID.String()+"/role", models.UpdateRoleRequest{Role: "owner"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown role: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPut, "/api/v1/admin/users/"+uuid.NewString()+"/role", models.UpdateRoleRequest{Role: models.RoleMember})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user: expected 404, got %d", rec.Code)
	}
}

func TestHomeHandler(t *testing.T) {
	events := memory.NewEventStore()
	videos := memory.NewVideoStore()
	lives := memory.NewLiveVideoStore()

	if err := events.Create(&models.Event{Title: "Choir", StartsAt: time.Now().Add(time.Hour), Published: true}); err != nil {
		t.Fatal(err)
	}
	if err := videos.Create(&models.Video{Title: "Sermon", SourceURL: "https://youtu.be/SERM01", YouTubeID: "SERM01"}); err != nil {
		t.Fatal(err)
	}
	if err := lives.Create(&models.LiveVideo{Title: "Now", SourceURL: "https://youtu.be/LIVE01", IsActive: true}); err != nil {
		t.Fatal(err)
	}

	h := NewHomeHandler(events, videos, live.NewService(lives, nil, nil, nil, 0))
	r := gin.New()
	r.GET("/api/v1/home", h.Home)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/home", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Events []models.Event    `json:"events"`
		Videos []models.Video    `json:"videos"`
		Live   *models.LiveEmbed `json:"live"`
	}
	decode(t, rec, &body)
	if len(body.Events) != 1 || len(body.Videos) != 1 {
		t.Errorf("home = %+v", body)
	}
	if body.Videos[0].EmbedURL == "" {
		t.Error("expected videos to carry an embed url")
	}
	if body.Live == nil || body.Live.VideoID != "LIVE01" {
		t.Errorf("live = %+v", body.Live)
	}
}
