package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixelchaos/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userStore struct {
	collection *mongo.Collection
}

// NewUserStore creates the account record store.
func NewUserStore(db *mongo.Database) core.UserStore {
	return &userStore{collection: db.Collection("users")}
}

func (s *userStore) Create(ctx context.Context, user *core.User) (string, error) {
	if user.Email == "" {
		return "", fmt.Errorf("user email cannot be empty")
	}

	user.ID = ulid.Make().String()
	user.CreatedAt = time.Now()

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		return "", fmt.Errorf("create user %s: %w", user.Email, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User created")
	return user.ID, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	var user core.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &user, nil
}
