package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (mdb *MongodbRepo) CreateRequest(ctx context.Context, req *EventRequest) error {
	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert request: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*EventRequest, error) {
	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var req EventRequest
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find request: %v", err)
	}
	return &req, nil
}

func (mdb *MongodbRepo) ListPendingRequests(ctx context.Context) ([]*EventRequest, error) {
	return mdb.findRequests(ctx, bson.M{"status": StatusPending})
}

func (mdb *MongodbRepo) ListRequestsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*EventRequest, error) {
	return mdb.findRequests(ctx, bson.M{"author_id": authorID})
}

func (mdb *MongodbRepo) findRequests(ctx context.Context, query bson.M) ([]*EventRequest, error) {
	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []*EventRequest
	for cursor.Next(ctx) {
		var req EventRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, fmt.Errorf("error decoding request: %v", err)
		}
		requests = append(requests, &req)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return requests, nil
}

func (mdb *MongodbRepo) SetRequestImages(ctx context.Context, id uuid.UUID, images []string) error {
	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"images":     images,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set request images: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: request %s", ErrNotFound, id)
	}
	return nil
}

// TransitionStatus only matches while the request is still PENDING, so of
// two moderators acting at once exactly one update applies.
func (mdb *MongodbRepo) TransitionStatus(ctx context.Context, id uuid.UUID, to RequestStatus) (bool, error) {
	if !CanTransition(StatusPending, to) {
		return false, fmt.Errorf("%w: cannot transition to %s", ErrInvalidState, to)
	}

	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "status": StatusPending},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition request: %v", err)
	}
	return res.ModifiedCount == 1, nil
}

// RevertStatus undoes a decision whose side effects could not be applied,
// putting the request back in the moderation queue.
func (mdb *MongodbRepo) RevertStatus(ctx context.Context, id uuid.UUID, from RequestStatus) (bool, error) {
	col, err := mdb.GetCollection(RequestsColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": StatusPending, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to revert request status: %v", err)
	}
	return res.ModifiedCount == 1, nil
}
