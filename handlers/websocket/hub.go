package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pixelchaos/core"

	"github.com/sirupsen/logrus"
)

// historyTimeout bounds the fire-and-forget history append so a slow
// document store cannot pile up goroutines.
const historyTimeout = 10 * time.Second

// Hub applies accepted pixel updates to the canvas store and fans them out
// to every registered connection. One hub per process, constructed at
// startup and handed to each connection handler.
type Hub struct {
	store    core.PixelStore
	registry *Registry
	history  core.HistoryStore // optional
}

func NewHub(store core.PixelStore, registry *Registry, history core.HistoryStore) *Hub {
	return &Hub{
		store:    store,
		registry: registry,
		history:  history,
	}
}

// Registry exposes the connection registry for the transport handler.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Apply paints the pixel and broadcasts the confirmed update to every
// connection in the current registry snapshot. A connection whose send
// fails is removed on the spot; fan-out continues past it. The history
// append runs in the background and never blocks or fails the broadcast.
func (h *Hub) Apply(ctx context.Context, pixel core.Pixel) error {
	if err := h.store.Set(ctx, pixel); err != nil {
		return fmt.Errorf("apply pixel %s: %w", pixel.Key(), err)
	}

	h.appendHistory(pixel)

	message, err := json.Marshal(core.NewPixelUpdateMessage(pixel))
	if err != nil {
		return fmt.Errorf("encode pixel update %s: %w", pixel.Key(), err)
	}

	for _, client := range h.registry.Snapshot() {
		if sendErr := client.TrySend(message); sendErr != nil {
			logrus.WithFields(logrus.Fields{
				"client_id": client.ID(),
				"error":     sendErr,
			}).Warn("Send failed during broadcast, removing connection")
			h.registry.RemoveClient(client)
		}
	}
	return nil
}

// InitialState sends the full canvas snapshot, as a single message, to
// exactly the newly joined connection.
func (h *Hub) InitialState(ctx context.Context, clientID string) error {
	client, ok := h.registry.Get(clientID)
	if !ok {
		return fmt.Errorf("initial state for %s: connection not registered", clientID)
	}

	pixels, err := h.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("initial state for %s: %w", clientID, err)
	}

	message, err := json.Marshal(core.NewInitialStateMessage(pixels))
	if err != nil {
		return fmt.Errorf("encode initial state for %s: %w", clientID, err)
	}

	if sendErr := client.TrySend(message); sendErr != nil {
		h.registry.RemoveClient(client)
		return fmt.Errorf("initial state for %s: %w", clientID, sendErr)
	}

	logrus.WithFields(logrus.Fields{
		"client_id": clientID,
		"pixels":    len(pixels),
	}).Debug("Initial state sent")
	return nil
}

func (h *Hub) appendHistory(pixel core.Pixel) {
	if h.history == nil {
		return
	}

	at := time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		if err := h.history.Append(ctx, pixel, at); err != nil {
			logrus.WithFields(logrus.Fields{
				"coord": pixel.Key(),
				"error": err,
			}).Error("Failed to append pixel history")
		}
	}()
}
