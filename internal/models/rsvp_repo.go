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

func (mdb *MongodbRepo) GetRsvp(ctx context.Context, eventID, userID uuid.UUID) (*Rsvp, error) {
	col, err := mdb.GetCollection(RsvpColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var rsvp Rsvp
	err = col.FindOne(ctx, bson.M{"event_id": eventID, "user_id": userID}).Decode(&rsvp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: rsvp for event %s", ErrNotFound, eventID)
		}
		return nil, fmt.Errorf("failed to find rsvp: %v", err)
	}
	return &rsvp, nil
}

// UpsertRsvp keys on the unique (event, user) pair, the same upsert shape
// the store uses elsewhere for one-document-per-pair records.
func (mdb *MongodbRepo) UpsertRsvp(ctx context.Context, rsvp *Rsvp) error {
	col, err := mdb.GetCollection(RsvpColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	filter := bson.M{"event_id": rsvp.EventID, "user_id": rsvp.UserID}
	update := bson.M{
		"$set": bson.M{
			"going":      rsvp.Going,
			"rating":     rsvp.Rating,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"event_id":   rsvp.EventID,
			"user_id":    rsvp.UserID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result Rsvp
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return fmt.Errorf("error upserting rsvp: %v", err)
	}
	*rsvp = result
	return nil
}

func (mdb *MongodbRepo) ListRsvpsByUser(ctx context.Context, userID uuid.UUID) ([]*Rsvp, error) {
	col, err := mdb.GetCollection(RsvpColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error finding rsvps: %v", err)
	}
	defer cursor.Close(ctx)

	var rsvps []*Rsvp
	for cursor.Next(ctx) {
		var r Rsvp
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding rsvp: %v", err)
		}
		rsvps = append(rsvps, &r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return rsvps, nil
}

func (mdb *MongodbRepo) DeleteRsvpsByEvent(ctx context.Context, eventID uuid.UUID) error {
	col, err := mdb.GetCollection(RsvpColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.DeleteMany(ctx, bson.M{"event_id": eventID}); err != nil {
		return fmt.Errorf("failed to delete rsvps: %v", err)
	}
	return nil
}
