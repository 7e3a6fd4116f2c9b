package useragent

import "sync"

// RotationConfig contains configuration for user agent rotation
type RotationConfig struct {
	// SessionSticky ensures the same session keeps the same record
	SessionSticky bool `json:"session_sticky"`

	// MaxSessions bounds the number of pinned sessions; 0 means unbounded
	MaxSessions int `json:"max_sessions"`
}

// DefaultRotationConfig returns a sensible default configuration
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		SessionSticky: true,
		MaxSessions:   10000,
	}
}

type pinned struct {
	key    string
	record Record
}

// Rotator hands out records from a UserAgent, optionally pinning the first
// record a session receives so that later requests from the same session
// present a consistent fingerprint.
type Rotator struct {
	ua       *UserAgent
	mu       sync.RWMutex
	config   RotationConfig
	sessions map[string]pinned // sessionID -> pinned record
}

// NewRotator creates a rotator over ua.
func NewRotator(ua *UserAgent, config RotationConfig) *Rotator {
	return &Rotator{
		ua:       ua,
		config:   config,
		sessions: make(map[string]pinned),
	}
}

// UserAgent returns the engine backing the rotator.
func (r *Rotator) UserAgent() *UserAgent {
	return r.ua
}

// ForSession returns the record pinned to sessionID for the given browser
// name, resolving and pinning a new one when none exists. An empty sessionID
// always resolves a fresh record. Fallback records are never pinned.
func (r *Rotator) ForSession(sessionID, name string) (Record, error) {
	key := Normalize(name)

	r.mu.RLock()
	sticky := r.config.SessionSticky && sessionID != ""
	if sticky {
		if p, ok := r.sessions[sessionID]; ok && p.key == key {
			r.mu.RUnlock()
			return p.record, nil
		}
	}
	r.mu.RUnlock()

	rec, key, ok := r.ua.pick(name)
	if !ok {
		return r.ua.GetBrowser(name)
	}
	if !sticky {
		return rec, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request for the same session may have won the race.
	if p, exists := r.sessions[sessionID]; exists && p.key == key {
		return p.record, nil
	}
	if r.config.MaxSessions > 0 && len(r.sessions) >= r.config.MaxSessions {
		if _, exists := r.sessions[sessionID]; !exists {
			r.ua.logger.Debug("Session limit reached, not pinning", "session_id", sessionID)
			return rec, nil
		}
	}
	r.sessions[sessionID] = pinned{key: key, record: rec}
	return rec, nil
}

// Forget drops the record pinned to sessionID.
func (r *Rotator) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
}

// ClearSessions clears all session-to-record mappings
func (r *Rotator) ClearSessions() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = make(map[string]pinned)
}

// SetSessionSticky enables or disables session pinning. Disabling clears
// existing pins.
func (r *Rotator) SetSessionSticky(sticky bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config.SessionSticky = sticky
	if !sticky {
		r.sessions = make(map[string]pinned)
	}
}

// Config returns the current rotation configuration
func (r *Rotator) Config() RotationConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// SessionCount returns the number of pinned sessions.
func (r *Rotator) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RotationStats contains statistics about the rotation state
type RotationStats struct {
	SessionSticky  bool `json:"session_sticky"`
	ActiveSessions int  `json:"active_sessions"`
	MaxSessions    int  `json:"max_sessions"`
	Records        int  `json:"records"`
}

// Stats returns statistics about the rotation state
func (r *Rotator) Stats() RotationStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RotationStats{
		SessionSticky:  r.config.SessionSticky,
		ActiveSessions: len(r.sessions),
		MaxSessions:    r.config.MaxSessions,
		Records:        len(r.ua.records),
	}
}
