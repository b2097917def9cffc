package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sanctuary/backend/internal/models"
	"github.com/sanctuary/backend/internal/repository"
)

func TestUserStore_EmailIsUnique(t *testing.T) {
	s := NewUserStore()
	if err := s.Create(&models.User{Email: "Grace@example.com", DisplayName: "Grace"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := s.Create(&models.User{Email: "grace@example.com", DisplayName: "Grace Again"})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("Create() error = %v, want ErrConflict", err)
	}

	u, err := s.GetByEmail("GRACE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.DisplayName != "Grace" {
		t.Errorf("DisplayName = %q", u.DisplayName)
	}
}

func TestUserStore_SetRole(t *testing.T) {
	s := NewUserStore()
	u := &models.User{Email: "a@example.com", DisplayName: "Ann", Role: models.RoleMember}
	_ = s.Create(u)

	if err := s.SetRole(u.ID, models.RoleAdmin); err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	got, _ := s.GetByID(u.ID)
	if got.Role != models.RoleAdmin {
		t.Errorf("Role = %q", got.Role)
	}
	if err := s.SetRole(uuid.New(), models.RoleAdmin); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("SetRole(unknown) error = %v", err)
	}
}

func TestLiveVideoStore_KeepsCollectionOrder(t *testing.T) {
	s := NewLiveVideoStore()
	for _, title := range []string{"first", "second", "third"} {
		_ = s.Create(&models.LiveVideo{Title: title})
	}

	videos, _ := s.ListLiveVideos()
	if videos[0].Title != "first" || videos[2].Title != "third" {
		t.Fatalf("unexpected order: %v", videos)
	}

	// mutating the returned slice must not touch the store
	videos[0].Title = "changed"
	again, _ := s.ListLiveVideos()
	if again[0].Title != "first" {
		t.Error("store leaked its backing slice")
	}

	second := again[1]
	second.IsActive = true
	if err := s.Update(&second); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	again, _ = s.ListLiveVideos()
	if !again[1].IsActive || again[1].Title != "second" {
		t.Errorf("update moved or lost the record: %v", again)
	}
}

func TestEventStore_ListUpcoming(t *testing.T) {
	s := NewEventStore()
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	later := now.Add(time.Hour)

	_ = s.Create(&models.Event{Title: "past", StartsAt: yesterday.Add(-time.Hour), EndsAt: &yesterday, Published: true})
	_ = s.Create(&models.Event{Title: "ongoing", StartsAt: now.Add(-time.Hour), EndsAt: &later, Published: true})
	_ = s.Create(&models.Event{Title: "draft", StartsAt: now.Add(48 * time.Hour)})
	_ = s.Create(&models.Event{Title: "next week", StartsAt: now.Add(7 * 24 * time.Hour), Published: true})

	events, err := s.ListUpcoming(now, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %v", len(events), events)
	}
	if events[0].Title != "ongoing" || events[1].Title != "next week" {
		t.Errorf("unexpected order: %s, %s", events[0].Title, events[1].Title)
	}
}

func TestDonationStore_Summary(t *testing.T) {
	s := NewDonationStore()
	_ = s.Create(&models.Donation{AmountCents: 1000, Currency: "USD"})
	_ = s.Create(&models.Donation{AmountCents: 2500, Currency: "USD"})
	_ = s.Create(&models.Donation{AmountCents: 500, Currency: "EUR"})

	sum, _ := s.Summary()
	if len(sum) != 2 {
		t.Fatalf("got %d currencies", len(sum))
	}
	if sum[1].Currency != "USD" || sum[1].TotalCents != 3500 || sum[1].Count != 2 {
		t.Errorf("USD summary = %+v", sum[1])
	}

	page, _ := s.List(1, 1)
	if len(page) != 1 || page[0].AmountCents != 2500 {
		t.Errorf("List(1, 1) = %+v", page)
	}
}

func TestContactStore_MarkHandled(t *testing.T) {
	s := NewContactStore()
	m := &models.ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Body: "Hello"}
	_ = s.Create(m)
	_ = s.Create(&models.ContactMessage{Name: "Bob"})

	if err := s.MarkHandled(m.ID); err != nil {
		t.Fatal(err)
	}
	open, _ := s.List(true, 10)
	if len(open) != 1 || open[0].Name != "Bob" {
		t.Errorf("unhandled = %+v", open)
	}
	all, _ := s.List(false, 10)
	if len(all) != 2 {
		t.Errorf("all = %d messages", len(all))
	}
}
