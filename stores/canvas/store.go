package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"pixelchaos/core"

	"github.com/sirupsen/logrus"
)

type (
	// Cache is the narrow backing-cache surface the store needs: one
	// logical hash holding a field per coordinate. Implemented over Redis
	// in this package; tests substitute a stub.
	Cache interface {
		// Ping is the liveness probe issued before each operation that
		// wants to rely on the cache.
		Ping(ctx context.Context) error

		// SetField writes one coordinate field.
		SetField(ctx context.Context, field, value string) error

		// GetField reads one coordinate field, or core.ErrNotFound on a
		// confirmed miss.
		GetField(ctx context.Context, field string) (string, error)

		// GetAllFields reads the entire hash.
		GetAllFields(ctx context.Context) (map[string]string, error)
	}

	// Store is the canvas state store. The backing cache, when configured
	// and reachable, is the source of truth; the in-process mirror serves
	// reads only while the cache is unreachable and is wholesale-refreshed
	// from the cache on every successful GetAll.
	Store struct {
		cache  Cache // nil means mirror-only operation
		mu     sync.RWMutex
		mirror map[string]core.Pixel
	}
)

// NewStore creates a canvas store backed by the given cache. A nil cache
// yields a purely in-memory store.
func NewStore(cache Cache) *Store {
	return &Store{
		cache:  cache,
		mirror: make(map[string]core.Pixel),
	}
}

// available probes the backing cache once. Any connection-level failure
// degrades the current operation to the mirror; there is no retry within a
// single call.
func (s *Store) available(ctx context.Context) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("Backing cache unreachable, serving from mirror")
		return false
	}
	return true
}

// Get returns the pixel at (x, y). A cache-confirmed miss is absence even if
// the mirror holds a stale entry; only connectivity failure falls back to
// the mirror.
func (s *Store) Get(ctx context.Context, x, y int) (*core.Pixel, error) {
	key := core.CoordKey(x, y)

	if s.available(ctx) {
		raw, err := s.cache.GetField(ctx, key)
		switch {
		case err == nil:
			var pixel core.Pixel
			if decodeErr := json.Unmarshal([]byte(raw), &pixel); decodeErr != nil {
				logrus.WithFields(logrus.Fields{
					"coord": key,
					"error": decodeErr,
				}).Error("Failed to decode pixel from backing cache")
				break
			}
			s.mu.Lock()
			s.mirror[key] = pixel
			s.mu.Unlock()
			return &pixel, nil
		case errors.Is(err, core.ErrNotFound):
			return nil, core.ErrNotFound
		default:
			logrus.WithFields(logrus.Fields{
				"coord": key,
				"error": err,
			}).Warn("Backing cache read failed, serving from mirror")
		}
	}

	s.mu.RLock()
	pixel, ok := s.mirror[key]
	s.mu.RUnlock()
	if !ok {
		return nil, core.ErrNotFound
	}
	return &pixel, nil
}

// GetAll returns every painted pixel. When the backing cache is reachable
// its contents win: the mirror is replaced wholesale with the decoded set,
// discarding any mirror-only writes made while the cache was down.
func (s *Store) GetAll(ctx context.Context) ([]core.Pixel, error) {
	if s.available(ctx) {
		fields, err := s.cache.GetAllFields(ctx)
		if err == nil {
			pixels := s.decodeFields(fields)

			s.mu.Lock()
			s.mirror = make(map[string]core.Pixel, len(pixels))
			for _, pixel := range pixels {
				s.mirror[pixel.Key()] = pixel
			}
			s.mu.Unlock()

			logrus.WithField("count", len(pixels)).Debug("Loaded pixels from backing cache")
			return pixels, nil
		}
		logrus.WithError(err).Warn("Backing cache bulk read failed, serving from mirror")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	pixels := make([]core.Pixel, 0, len(s.mirror))
	for _, pixel := range s.mirror {
		pixels = append(pixels, pixel)
	}
	return pixels, nil
}

// Set paints a pixel: write-through to the backing cache first when
// reachable, then unconditionally advance the mirror. A cache write failure
// is logged and swallowed, so Set never fails; a later GetAll may roll the
// mirror back to whatever the cache holds once connectivity returns.
func (s *Store) Set(ctx context.Context, pixel core.Pixel) error {
	if s.available(ctx) {
		encoded, err := json.Marshal(pixel)
		if err == nil {
			if writeErr := s.cache.SetField(ctx, pixel.Key(), string(encoded)); writeErr != nil {
				logrus.WithFields(logrus.Fields{
					"coord": pixel.Key(),
					"error": writeErr,
				}).Warn("Backing cache write failed, mirror still advanced")
			}
		} else {
			logrus.WithFields(logrus.Fields{
				"coord": pixel.Key(),
				"error": err,
			}).Error("Failed to encode pixel for backing cache")
		}
	}

	s.mu.Lock()
	s.mirror[pixel.Key()] = pixel
	s.mu.Unlock()
	return nil
}

// decodeFields decodes every hash field, skipping entries that fail to
// decode so one corrupt field never aborts a bulk read.
func (s *Store) decodeFields(fields map[string]string) []core.Pixel {
	pixels := make([]core.Pixel, 0, len(fields))
	for field, raw := range fields {
		var pixel core.Pixel
		if err := json.Unmarshal([]byte(raw), &pixel); err != nil {
			logrus.WithFields(logrus.Fields{
				"coord": field,
				"error": err,
			}).Error("Skipping undecodable pixel from backing cache")
			continue
		}
		pixels = append(pixels, pixel)
	}
	return pixels
}
