package stores

import (
	"os"

	"pixelchaos/core"
	"pixelchaos/stores/canvas"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// GetPixelStore wires the canvas store from the environment. With
// REDIS_ADDR set, Redis is the cache-of-record and the in-process mirror
// only serves reads while Redis is unreachable; without it the store is
// purely in-memory.
func GetPixelStore() core.PixelStore {
	redisAddr := os.Getenv("REDIS_ADDR")

	storageField := logrus.Fields{
		"backingCache": "none",
	}

	var cache canvas.Cache
	if redisAddr != "" {
		canvasKey := os.Getenv("REDIS_CANVAS_KEY")
		if canvasKey == "" {
			canvasKey = "canvas:pixels"
		}
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		cache = canvas.NewRedisCache(client, canvasKey)
		storageField["backingCache"] = "redis"
		storageField["redisAddr"] = redisAddr
		storageField["canvasKey"] = canvasKey
	}

	logrus.WithFields(storageField).Info("Use canvas storage")
	return canvas.NewStore(cache)
}
