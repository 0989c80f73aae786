package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/models"
)

// In-memory repo fakes. Each one guards its map with a mutex so the
// concurrency tests exercise the services, not data races in the fixtures.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username already taken", models.ErrAuth)
		}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, username)
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, user.ID)
	}
	f.users[user.ID] = *user
	return nil
}

type fakeEventsRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]models.Event
}

func newFakeEventsRepo() *fakeEventsRepo {
	return &fakeEventsRepo{events: make(map[uuid.UUID]models.Event)}
}

func (f *fakeEventsRepo) CreateEvent(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventsRepo) GetEventByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	return &e, nil
}

func (f *fakeEventsRepo) UpdateEvent(_ context.Context, event *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.events[event.ID]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, event.ID)
	}
	// Aggregates stay repo-owned, same as the real store's field-scoped update.
	event.GoingCount = stored.GoingCount
	event.RatingSum = stored.RatingSum
	event.RatingCount = stored.RatingCount
	event.Images = stored.Images
	f.events[event.ID] = *event
	return nil
}

func (f *fakeEventsRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventsRepo) ListEvents(_ context.Context, filter models.EventFilter) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Event
	for _, e := range f.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Format != "" && string(e.Format) != filter.Format {
			continue
		}
		if filter.City != "" && e.City != filter.City {
			continue
		}
		if filter.Level != "" && e.Level != filter.Level {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

func (f *fakeEventsRepo) ListEventsByOwner(_ context.Context, ownerID uuid.UUID) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) ListEventsByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Event
	for _, id := range ids {
		if e, ok := f.events[id]; ok {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (f *fakeEventsRepo) SetImages(_ context.Context, id uuid.UUID, images []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	e.Images = images
	f.events[id] = e
	return nil
}

func (f *fakeEventsRepo) TryIncrementGoing(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return false, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	if e.GoingCount >= e.Capacity {
		return false, nil
	}
	e.GoingCount++
	f.events[id] = e
	return true, nil
}

func (f *fakeEventsRepo) DecrementGoing(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	if e.GoingCount > 0 {
		e.GoingCount--
	}
	f.events[id] = e
	return nil
}

func (f *fakeEventsRepo) ApplyRatingDelta(_ context.Context, id uuid.UUID, sumDelta, countDelta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return fmt.Errorf("%w: event %s", models.ErrNotFound, id)
	}
	e.RatingSum += sumDelta
	e.RatingCount += countDelta
	f.events[id] = e
	return nil
}

type fakeRequestsRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]models.EventRequest
}

func newFakeRequestsRepo() *fakeRequestsRepo {
	return &fakeRequestsRepo{requests: make(map[uuid.UUID]models.EventRequest)}
}

func (f *fakeRequestsRepo) CreateRequest(_ context.Context, req *models.EventRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.ID] = *req
	return nil
}

func (f *fakeRequestsRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*models.EventRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", models.ErrNotFound, id)
	}
	return &r, nil
}

func (f *fakeRequestsRepo) ListPendingRequests(_ context.Context) ([]*models.EventRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EventRequest
	for _, r := range f.requests {
		if r.Status == models.StatusPending {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeRequestsRepo) ListRequestsByAuthor(_ context.Context, authorID uuid.UUID) ([]*models.EventRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.EventRequest
	for _, r := range f.requests {
		if r.AuthorID == authorID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeRequestsRepo) SetRequestImages(_ context.Context, id uuid.UUID, images []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("%w: request %s", models.ErrNotFound, id)
	}
	r.Images = images
	f.requests[id] = r
	return nil
}

func (f *fakeRequestsRepo) TransitionStatus(_ context.Context, id uuid.UUID, to models.RequestStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return false, fmt.Errorf("%w: request %s", models.ErrNotFound, id)
	}
	if r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = to
	f.requests[id] = r
	return true, nil
}

func (f *fakeRequestsRepo) RevertStatus(_ context.Context, id uuid.UUID, from models.RequestStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return false, fmt.Errorf("%w: request %s", models.ErrNotFound, id)
	}
	if r.Status != from {
		return false, nil
	}
	r.Status = models.StatusPending
	f.requests[id] = r
	return true, nil
}

type rsvpKey struct {
	eventID uuid.UUID
	userID  uuid.UUID
}

type fakeRsvpRepo struct {
	mu    sync.Mutex
	rsvps map[rsvpKey]models.Rsvp
}

func newFakeRsvpRepo() *fakeRsvpRepo {
	return &fakeRsvpRepo{rsvps: make(map[rsvpKey]models.Rsvp)}
}

func (f *fakeRsvpRepo) GetRsvp(_ context.Context, eventID, userID uuid.UUID) (*models.Rsvp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rsvps[rsvpKey{eventID, userID}]
	if !ok {
		return nil, fmt.Errorf("%w: rsvp", models.ErrNotFound)
	}
	return &r, nil
}

func (f *fakeRsvpRepo) UpsertRsvp(_ context.Context, rsvp *models.Rsvp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rsvps[rsvpKey{rsvp.EventID, rsvp.UserID}] = *rsvp
	return nil
}

func (f *fakeRsvpRepo) ListRsvpsByUser(_ context.Context, userID uuid.UUID) ([]*models.Rsvp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Rsvp
	for k, r := range f.rsvps {
		if k.userID == userID {
			r := r
			out = append(out, &r)
		}
	}
	return out, nil
}

func (f *fakeRsvpRepo) DeleteRsvpsByEvent(_ context.Context, eventID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.rsvps {
		if k.eventID == eventID {
			delete(f.rsvps, k)
		}
	}
	return nil
}

// fakeImageStore records every call and mints deterministic URLs so tests
// can assert on exactly which assets were uploaded and deleted.
type fakeImageStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeImageStore) Upload(_ context.Context, folder string, filePaths []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var urls []string
	for _, p := range filePaths {
		url := "https://cdn.example.com/" + folder + "/" + p
		f.uploaded = append(f.uploaded, url)
		urls = append(urls, url)
	}
	return urls, nil
}

func (f *fakeImageStore) Delete(_ context.Context, folder, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, folder+"/"+filename)
	return nil
}
