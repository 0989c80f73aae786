package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const (
	UsersColName    = "users"
	EventsColName   = "events"
	RequestsColName = "event_requests"
	RsvpColName     = "rsvps"
)

// EnsureIndexes creates the indexes the write paths rely on. The unique
// index on usernames is what actually enforces registration uniqueness
// under concurrency; the application-level check only gives a friendlier
// error on the common path. Likewise the (event_id, user_id) pair backs
// the one-rsvp-per-user invariant.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	users, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	rsvps, err := mdb.GetCollection(RsvpColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = rsvps.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("event_user_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create rsvp indexes: %v", err)
	}

	events, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetName("date_idx"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("owner_id_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %v", err)
	}

	requests, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = requests.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("author_id_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create request indexes: %v", err)
	}
	return nil
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListEventsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Event, error)
	ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error)
	SetImages(ctx context.Context, id uuid.UUID, images []string) error

	// TryIncrementGoing applies going_count++ only while going_count is
	// below capacity, as one atomic store operation. It reports whether the
	// increment was applied.
	TryIncrementGoing(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementGoing(ctx context.Context, id uuid.UUID) error
	ApplyRatingDelta(ctx context.Context, id uuid.UUID, sumDelta, countDelta int) error
}

type RequestsRepo interface {
	CreateRequest(ctx context.Context, req *EventRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*EventRequest, error)
	ListPendingRequests(ctx context.Context) ([]*EventRequest, error)
	ListRequestsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*EventRequest, error)
	SetRequestImages(ctx context.Context, id uuid.UUID, images []string) error

	// TransitionStatus is a compare-and-set from PENDING to a terminal
	// status. It reports false when the request was no longer pending, which
	// is how the double-approval race is decided.
	TransitionStatus(ctx context.Context, id uuid.UUID, to RequestStatus) (bool, error)

	// RevertStatus is the compensating compare-and-set back to PENDING,
	// used when materializing an approved request fails and the decision
	// must be retryable.
	RevertStatus(ctx context.Context, id uuid.UUID, from RequestStatus) (bool, error)
}

type RsvpRepo interface {
	GetRsvp(ctx context.Context, eventID, userID uuid.UUID) (*Rsvp, error)
	UpsertRsvp(ctx context.Context, rsvp *Rsvp) error
	ListRsvpsByUser(ctx context.Context, userID uuid.UUID) ([]*Rsvp, error)
	DeleteRsvpsByEvent(ctx context.Context, eventID uuid.UUID) error
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}
