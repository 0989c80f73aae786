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

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert event: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var event Event
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: event %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find event: %v", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, event *Event) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	event.UpdatedAt = time.Now()
	// Aggregates are mutated through their own atomic operations, so a full
	// replace here would race with concurrent toggles. Update only the
	// payload-owned fields.
	update := bson.M{"$set": bson.M{
		"title":           event.Title,
		"description":     event.Description,
		"date":            event.Date,
		"category":        event.Category,
		"format":          event.Format,
		"level":           event.Level,
		"capacity":        event.Capacity,
		"address":         event.Address,
		"city":            event.City,
		"latitude":        event.Latitude,
		"longitude":       event.Longitude,
		"conference_link": event.ConferenceLink,
		"updated_at":      event.UpdatedAt,
	}}
	res, err := col.UpdateOne(ctx, bson.M{"_id": event.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update event: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, event.ID)
	}
	return nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Format != "" {
		query["format"] = filter.Format
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	if filter.Text != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Text, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Text, "$options": "i"}},
		}
	}

	// Rating sorts on a derived average, so the service layer handles it
	// after the fetch; the store only orders what it holds directly.
	sort := bson.D{{Key: "date", Value: 1}}
	if filter.Sort == "popularity" {
		sort = bson.D{{Key: "going_count", Value: -1}, {Key: "date", Value: 1}}
	}

	cursor, err := col.Find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("error finding events: %v", err)
	}
	defer cursor.Close(ctx)

	var events []*Event
	for cursor.Next(ctx) {
		var ev Event
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) ListEventsByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Event, error) {
	return mdb.findEvents(ctx, bson.M{"owner_id": ownerID})
}

func (mdb *MongodbRepo) ListEventsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return mdb.findEvents(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, query bson.M) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error finding events: %v", err)
	}
	defer cursor.Close(ctx)

	var events []*Event
	for cursor.Next(ctx) {
		var ev Event
		if err := cursor.Decode(&ev); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &ev)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) SetImages(ctx context.Context, id uuid.UUID, images []string) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"images":     images,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set images: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return nil
}

// TryIncrementGoing is the capacity guard: the filter and the increment
// evaluate as one atomic document update, so two concurrent toggles can
// never both take the last seat.
func (mdb *MongodbRepo) TryIncrementGoing(ctx context.Context, id uuid.UUID) (bool, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %v", err)
	}

	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "$expr": bson.M{"$lt": bson.A{"$going_count", "$capacity"}}},
		bson.M{"$inc": bson.M{"going_count": 1}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to increment going count: %v", err)
	}
	return res.ModifiedCount == 1, nil
}

func (mdb *MongodbRepo) DecrementGoing(ctx context.Context, id uuid.UUID) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.UpdateOne(ctx,
		bson.M{"_id": id, "going_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"going_count": -1}},
	)
	if err != nil {
		return fmt.Errorf("failed to decrement going count: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) ApplyRatingDelta(ctx context.Context, id uuid.UUID, sumDelta, countDelta int) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{
		"rating_sum":   sumDelta,
		"rating_count": countDelta,
	}})
	if err != nil {
		return fmt.Errorf("failed to apply rating delta: %v", err)
	}
	return nil
}
