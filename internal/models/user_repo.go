package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) error {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: username already taken", ErrAuth)
		}
		return fmt.Errorf("failed to insert user: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, fmt.Errorf("failed to find user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) UpdateUser(ctx context.Context, user *User) error {
	col, err := mdb.GetCollection(UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	user.UpdatedAt = time.Now()
	res, err := col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, user.ID)
	}
	return nil
}
