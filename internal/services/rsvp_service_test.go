package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/models"
)

func seedEvent(t *testing.T, repo *fakeEventsRepo, capacity int) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Title:    "Go Meetup",
		Capacity: capacity,
		Date:     time.Now().Add(24 * time.Hour),
		Category: "IT",
		Format:   models.FormatOnline,
		Level:    "All",
	}
	if err := repo.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func TestToggleConcurrentNeverOversells(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	const capacity = 3
	const participants = 20
	event := seedEvent(t, eventsRepo, capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	joined, rejected := 0, 0

	for i := 0; i < participants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(context.Background(), event.ID, uuid.New())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, models.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected toggle error: %v", err)
			}
		}()
	}
	wg.Wait()

	if joined != capacity {
		t.Errorf("joined = %d, want %d", joined, capacity)
	}
	if rejected != participants-capacity {
		t.Errorf("rejected = %d, want %d", rejected, participants-capacity)
	}

	stored, err := eventsRepo.GetEventByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if stored.GoingCount != capacity {
		t.Errorf("going count = %d, want %d", stored.GoingCount, capacity)
	}
}

func TestToggleOffFreesSeat(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 1)
	alice, bob := uuid.New(), uuid.New()
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, event.ID, alice); err != nil {
		t.Fatalf("alice toggle on: %v", err)
	}
	if _, err := svc.Toggle(ctx, event.ID, bob); !errors.Is(err, models.ErrCapacityExceeded) {
		t.Fatalf("bob toggle on full event: got %v, want ErrCapacityExceeded", err)
	}

	status, err := svc.Toggle(ctx, event.ID, alice)
	if err != nil {
		t.Fatalf("alice toggle off: %v", err)
	}
	if status.Count != 0 {
		t.Errorf("count after toggle off = %d, want 0", status.Count)
	}

	if _, err := svc.Toggle(ctx, event.ID, bob); err != nil {
		t.Fatalf("bob toggle after seat freed: %v", err)
	}
}

func TestRateRequiresActiveAttendance(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Rate(ctx, event.ID, user, 4); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("rate without rsvp: got %v, want ErrInvalidState", err)
	}

	if _, err := svc.Toggle(ctx, event.ID, user); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if _, err := svc.Toggle(ctx, event.ID, user); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if _, err := svc.Rate(ctx, event.ID, user, 4); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("rate while not going: got %v, want ErrInvalidState", err)
	}
}

func TestRateRejectsOutOfRange(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	for _, rating := range []int{0, 6, -1} {
		var verr *models.ValidationError
		if _, err := svc.Rate(context.Background(), event.ID, uuid.New(), rating); !errors.As(err, &verr) {
			t.Errorf("rate %d: got %v, want ValidationError", rating, err)
		}
	}
}

func TestRerateAdjustsInsteadOfDoubleCounting(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, event.ID, user); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if _, err := svc.Rate(ctx, event.ID, user, 3); err != nil {
		t.Fatalf("first rate: %v", err)
	}
	status, err := svc.Rate(ctx, event.ID, user, 5)
	if err != nil {
		t.Fatalf("re-rate: %v", err)
	}

	if status.AverageRating != 5.0 {
		t.Errorf("average after re-rate = %v, want 5.0", status.AverageRating)
	}
	stored, _ := eventsRepo.GetEventByID(ctx, event.ID)
	if stored.RatingCount != 1 {
		t.Errorf("rating count = %d, want 1", stored.RatingCount)
	}
}

func TestRatingAveragesAcrossRaters(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	alice, bob := uuid.New(), uuid.New()
	ctx := context.Background()

	for _, u := range []uuid.UUID{alice, bob} {
		if _, err := svc.Toggle(ctx, event.ID, u); err != nil {
			t.Fatalf("toggle on: %v", err)
		}
	}
	if _, err := svc.Rate(ctx, event.ID, alice, 4); err != nil {
		t.Fatalf("alice rate: %v", err)
	}
	status, err := svc.Rate(ctx, event.ID, bob, 2)
	if err != nil {
		t.Fatalf("bob rate: %v", err)
	}

	if status.AverageRating != 3.0 {
		t.Errorf("average = %v, want 3.0", status.AverageRating)
	}
}

func TestRatingSurvivesToggleOff(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, event.ID, user); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if _, err := svc.Rate(ctx, event.ID, user, 4); err != nil {
		t.Fatalf("rate: %v", err)
	}
	status, err := svc.Toggle(ctx, event.ID, user)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}

	if status.Going == nil || *status.Going {
		t.Error("expected going=false after toggle off")
	}
	if status.SelfRating == nil || *status.SelfRating != 4 {
		t.Errorf("self rating after toggle off = %v, want 4", status.SelfRating)
	}
	if status.AverageRating != 4.0 {
		t.Errorf("average after toggle off = %v, want 4.0", status.AverageRating)
	}
}

func TestStatusAnonymousOmitsPersonalFields(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := newFakeRsvpRepo()
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())

	event := seedEvent(t, eventsRepo, 5)
	user := uuid.New()
	ctx := context.Background()

	if _, err := svc.Toggle(ctx, event.ID, user); err != nil {
		t.Fatalf("toggle on: %v", err)
	}

	status, err := svc.Status(ctx, event.ID, nil)
	if err != nil {
		t.Fatalf("anonymous status: %v", err)
	}
	if status.Count != 1 {
		t.Errorf("count = %d, want 1", status.Count)
	}
	if status.Going != nil || status.SelfRating != nil {
		t.Error("anonymous status must not carry personal fields")
	}
}

type flakyRsvpRepo struct {
	*fakeRsvpRepo
	upsertFailures int
}

func (f *flakyRsvpRepo) UpsertRsvp(ctx context.Context, rsvp *models.Rsvp) error {
	if f.upsertFailures > 0 {
		f.upsertFailures--
		return errors.New("storage unavailable")
	}
	return f.fakeRsvpRepo.UpsertRsvp(ctx, rsvp)
}

func TestToggleReleasesSeatWhenWriteFails(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := &flakyRsvpRepo{fakeRsvpRepo: newFakeRsvpRepo(), upsertFailures: 1}
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())
	event := seedEvent(t, eventsRepo, 1)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Toggle(ctx, event.ID, userID); err == nil {
		t.Fatal("toggle with failing rsvp store should error")
	}

	stored, err := eventsRepo.GetEventByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if stored.GoingCount != 0 {
		t.Fatalf("going count after failed toggle = %d, want 0", stored.GoingCount)
	}

	status, err := svc.Toggle(ctx, event.ID, userID)
	if err != nil {
		t.Fatalf("retry toggle: %v", err)
	}
	if status.Count != 1 {
		t.Errorf("count after retry = %d, want 1", status.Count)
	}
}

func TestToggleOffRestoresSeatWhenWriteFails(t *testing.T) {
	eventsRepo := newFakeEventsRepo()
	rsvpRepo := &flakyRsvpRepo{fakeRsvpRepo: newFakeRsvpRepo()}
	svc := NewRsvpService(eventsRepo, rsvpRepo, discardLogger())
	event := seedEvent(t, eventsRepo, 5)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Toggle(ctx, event.ID, userID); err != nil {
		t.Fatalf("toggle on: %v", err)
	}

	rsvpRepo.upsertFailures = 1
	if _, err := svc.Toggle(ctx, event.ID, userID); err == nil {
		t.Fatal("toggle off with failing rsvp store should error")
	}

	stored, _ := eventsRepo.GetEventByID(ctx, event.ID)
	if stored.GoingCount != 1 {
		t.Fatalf("going count after failed toggle off = %d, want 1", stored.GoingCount)
	}
	rsvp, err := rsvpRepo.GetRsvp(ctx, event.ID, userID)
	if err != nil {
		t.Fatalf("reload rsvp: %v", err)
	}
	if !rsvp.Going {
		t.Error("record must still say going while the seat is held")
	}
}
