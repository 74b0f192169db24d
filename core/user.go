package core

import (
	"context"
	"time"
)

type (
	// User is an account record. OnCooldown and NextPlacement exist for a
	// future rate-limit feature; nothing in the update path reads them.
	User struct {
		ID            string     `json:"id" bson:"_id,omitempty"`
		Name          string     `json:"name" bson:"name"`
		Email         string     `json:"email" bson:"email"`
		OnCooldown    bool       `json:"onCooldown" bson:"on_cooldown"`
		NextPlacement *time.Time `json:"nextPlacement,omitempty" bson:"next_placement,omitempty"`
		CreatedAt     time.Time  `json:"createdAt" bson:"created_at"`
	}

	// UserStore persists account records.
	UserStore interface {
		// Create inserts a new user and returns its assigned id.
		Create(ctx context.Context, user *User) (string, error)

		// FindByEmail returns the user with the given email address, or
		// ErrNotFound.
		FindByEmail(ctx context.Context, email string) (*User, error)
	}
)
