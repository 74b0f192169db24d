package mongo

import (
	"context"
	"fmt"
	"time"

	"pixelchaos/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// historyRecord is one append-only entry in the canvas_history collection.
type historyRecord struct {
	ID        string     `bson:"_id"`
	Pixel     core.Pixel `bson:"pixel"`
	CreatedAt time.Time  `bson:"created_at"`
}

// historyStore appends accepted pixel updates to MongoDB. Callers treat it
// as fire-and-forget; a failed append is their problem to log, never to
// propagate.
type historyStore struct {
	collection *mongo.Collection
}

// NewHistoryStore creates the append-only pixel history log.
func NewHistoryStore(db *mongo.Database) core.HistoryStore {
	return &historyStore{collection: db.Collection("canvas_history")}
}

func (s *historyStore) Append(ctx context.Context, pixel core.Pixel, at time.Time) error {
	record := historyRecord{
		ID:        ulid.Make().String(),
		Pixel:     pixel,
		CreatedAt: at,
	}

	if _, err := s.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("append history for %s: %w", pixel.Key(), err)
	}

	logrus.WithFields(logrus.Fields{
		"history_id": record.ID,
		"coord":      pixel.Key(),
	}).Debug("History record appended")
	return nil
}
