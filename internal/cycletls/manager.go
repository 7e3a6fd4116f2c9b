package cycletls

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ManagerConfig holds configuration for client creation and reaping
type ManagerConfig struct {
	MaxIdleTime     time.Duration
	MaxSessionAge   time.Duration
	CleanupInterval time.Duration
	Logger          *log.Logger
}

// DefaultManagerConfig returns a ManagerConfig with sensible defaults
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxIdleTime:     5 * time.Minute,
		MaxSessionAge:   time.Hour,
		CleanupInterval: time.Minute,
		Logger:          log.Default(),
	}
}

// ClientManager keeps one Client per session and reaps idle or old ones.
type ClientManager struct {
	clients     map[string]*Client
	mu          sync.RWMutex
	config      ManagerConfig
	cleanupStop chan struct{}
	closed      bool
}

// NewClientManager creates a manager. A positive CleanupInterval starts a
// background reaper that runs until CloseAll.
func NewClientManager(config ManagerConfig) *ClientManager {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	cm := &ClientManager{
		clients:     make(map[string]*Client),
		config:      config,
		cleanupStop: make(chan struct{}),
	}

	if config.CleanupInterval > 0 {
		go cm.cleanupRoutine()
	}

	return cm
}

func (cm *ClientManager) cleanupRoutine() {
	ticker := time.NewTicker(cm.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.performCleanup()
		case <-cm.cleanupStop:
			return
		}
	}
}

// performCleanup removes idle and old clients
func (cm *ClientManager) performCleanup() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return 0
	}

	removed := 0
	for sessionID, client := range cm.clients {
		tooOld := cm.config.MaxSessionAge > 0 && client.Age() > cm.config.MaxSessionAge
		idle := cm.config.MaxIdleTime > 0 && client.IsIdle(cm.config.MaxIdleTime)
		if !tooOld && !idle {
			continue
		}
		client.Close()
		delete(cm.clients, sessionID)
		removed++

		cm.config.Logger.Debug("Cleaned up session",
			"session_id", sessionID,
			"request_count", client.RequestCount(),
		)
	}

	if removed > 0 {
		cm.config.Logger.Info("Cleanup completed",
			"removed_sessions", removed,
			"active_sessions", len(cm.clients),
		)
	}
	return removed
}

// Acquire returns the client for sessionID, creating it when needed. For an
// empty sessionID, or after CloseAll, a one-shot client is returned and
// release closes it; for session clients release is a no-op.
func (cm *ClientManager) Acquire(sessionID string) (client *Client, release func()) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if sessionID == "" || cm.closed {
		c := NewClient("", cm.config.Logger)
		return c, c.Close
	}

	if c, exists := cm.clients[sessionID]; exists && !c.IsClosed() {
		cm.config.Logger.Debug("Reusing existing session", "session_id", sessionID)
		return c, func() {}
	}

	c := NewClient(sessionID, cm.config.Logger)
	cm.clients[sessionID] = c

	cm.config.Logger.Debug("Created new session",
		"session_id", sessionID,
		"total_sessions", len(cm.clients),
	)
	return c, func() {}
}

// Remove closes and forgets the client for sessionID.
func (cm *ClientManager) Remove(sessionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if client, exists := cm.clients[sessionID]; exists {
		client.Close()
		delete(cm.clients, sessionID)
	}
}

// Count returns the number of active sessions
func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// CloseAll closes all managed clients and stops the reaper
func (cm *ClientManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return
	}
	close(cm.cleanupStop)

	count := len(cm.clients)
	for sessionID, client := range cm.clients {
		client.Close()
		delete(cm.clients, sessionID)
	}

	cm.closed = true
	cm.config.Logger.Info("Client manager closed", "closed_sessions", count)
}
