package websocket

import (
	"errors"
	"net/http"
	"time"

	"pixelchaos/core"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS middleware on the rest of
		// the API; the canvas itself is open.
		return true
	},
}

// Handle upgrades /ws/{clientID} to a WebSocket session: register the
// client, push the full canvas once, then ingest pixel submissions until
// the transport closes. The registry entry is removed before the handler
// returns, so broadcasts started afterwards never target this connection.
func Handle(hub *Hub, bounds core.Bounds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")
		if clientID == "" {
			http.Error(w, "client id is required", http.StatusBadRequest)
			return
		}

		log := logrus.WithField("client_id", clientID)

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("WebSocket upgrade failed")
			return
		}

		client := hub.Registry().Add(clientID)
		defer func() {
			// Identity-aware removal: if this connection was already
			// replaced by a same-id reconnect, its teardown must not
			// evict the successor's registry entry.
			hub.Registry().RemoveClient(client)
			ws.Close()
			log.Info("Connection closed")
		}()

		log.Info("Connection accepted")
		go writePump(ws, client, hub.Registry())

		if err := hub.InitialState(r.Context(), clientID); err != nil {
			log.WithError(err).Warn("Failed to send initial state")
			return
		}

		readLoop(r, ws, hub, client, bounds)
	}
}

// readLoop ingests inbound messages one at a time: each message is fully
// decoded, applied and broadcast before the next read, which is the
// per-connection FIFO ordering contract. Malformed payloads are logged and
// dropped without disturbing the connection.
func readLoop(r *http.Request, ws *websocket.Conn, hub *Hub, client *Client, bounds core.Bounds) {
	log := logrus.WithField("client_id", client.ID())

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Warn("Connection read failed")
			}
			return
		}

		pixel, err := DecodePixel(raw, bounds)
		if err != nil {
			var decodeErr *core.DecodeError
			if errors.As(err, &decodeErr) {
				log.WithField("reason", decodeErr.Reason).Warn("Rejected pixel submission")
			} else {
				log.WithError(err).Warn("Rejected pixel submission")
			}
			continue
		}

		if err := hub.Apply(r.Context(), pixel); err != nil {
			log.WithError(err).Error("Failed to apply pixel update")
		}
	}
}

// writePump is the single writer on the socket. It drains the client's send
// queue, pings on an interval, and exits when the registry entry is closed
// or a write fails.
func writePump(ws *websocket.Conn, client *Client, registry *Registry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message := <-client.send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				registry.RemoveClient(client)
				return
			}
		case <-client.done:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				registry.RemoveClient(client)
				return
			}
		}
	}
}
