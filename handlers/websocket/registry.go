package websocket

import (
	"sync"

	"pixelchaos/core"

	"github.com/sirupsen/logrus"
)

// sendBuffer is the per-connection outbound queue depth. A client that
// falls this far behind is treated as failed and removed.
const sendBuffer = 256

// Client is one registered outbound channel. The registry owns the entry; the
// transport layer owns the underlying socket.
type Client struct {
	id        string
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string) *Client {
	return &Client{
		id:   id,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// ID returns the caller-supplied client id.
func (c *Client) ID() string {
	return c.id
}

// Connected reports whether the connection is still registered.
func (c *Client) Connected() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// TrySend queues one outbound message without blocking. It fails when the
// connection has been closed or its queue is full; either way the caller
// removes the connection and moves on.
func (c *Client) TrySend(message []byte) error {
	select {
	case <-c.done:
		return core.ErrSendFailed
	default:
	}

	select {
	case c.send <- message:
		return nil
	default:
		return core.ErrSendFailed
	}
}

// close marks the connection disconnected. Safe to call more than once; the
// send channel itself is never closed so racing queued sends cannot panic.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Registry tracks live outbound channels keyed by client id.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Add registers a new connection under id, replacing and force-closing any
// previous entry so a reconnect with the same id cannot leak a slot.
func (r *Registry) Add(id string) *Client {
	client := newClient(id)

	r.mu.Lock()
	prior, existed := r.clients[id]
	r.clients[id] = client
	r.mu.Unlock()

	if existed {
		prior.close()
		logrus.WithField("client_id", id).Warn("Replaced existing connection for client id")
	}
	return client
}

// Remove marks the connection disconnected and deletes its entry. Removing
// an absent id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	client, ok := r.clients[id]
	if ok {
		delete(r.clients, id)
	}
	r.mu.Unlock()

	if ok {
		client.close()
	}
}

// RemoveClient marks the client disconnected and deletes its registry
// entry, but only while the entry still points at this exact client.
// Teardown of a replaced connection is therefore a no-op on the map and can
// never evict the successor registered under the same id.
func (r *Registry) RemoveClient(c *Client) {
	r.mu.Lock()
	if current, ok := r.clients[c.id]; ok && current == c {
		delete(r.clients, c.id)
	}
	r.mu.Unlock()

	c.close()
}

// Get returns the current entry for id, if any.
func (r *Registry) Get(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	return client, ok
}

// Snapshot returns a point-in-time copy of the connected entries, so a
// broadcast iterates independently of concurrent Add and Remove calls.
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, client := range r.clients {
		if client.Connected() {
			clients = append(clients, client)
		}
	}
	return clients
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
