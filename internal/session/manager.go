// Package session serves WebSocket chat sessions, each with its own in-memory transcript.
package session

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Manager tracks active WebSocket connections so they can be closed on shutdown.
type Manager struct {
	mu     sync.RWMutex
	active map[string]*websocket.Conn
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{
		active: make(map[string]*websocket.Conn),
	}
}

// Get returns the active connection with the given ID.
func (m *Manager) Get(connID string) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active[connID]
}

// Count returns the number of active connections.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Register adds a connection.
func (m *Manager) Register(connID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[connID] = conn
	slog.Info("Chat session registered", "conn_id", connID, "active", len(m.active))
}

// Unregister removes a connection if it is still the one registered under connID.
func (m *Manager) Unregister(connID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.active[connID]; ok && current == conn {
		delete(m.active, connID)
		slog.Info("Chat session unregistered", "conn_id", connID, "active", len(m.active))
	}
}

// CloseAll closes every active connection with a going-away status.
func (m *Manager) CloseAll(reason string) {
	m.mu.Lock()
	conns := m.active
	m.active = make(map[string]*websocket.Conn)
	m.mu.Unlock()

	for id, conn := range conns {
		_ = conn.Close(websocket.StatusGoingAway, reason)
		slog.Info("Chat session closed", "conn_id", id)
	}
}
