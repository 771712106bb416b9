package keypad

import (
	"net/http"
	"sync"
	"time"

	"github.com/antibyte/retrocalc/pkg/calc"
	"github.com/antibyte/retrocalc/pkg/logger"
	"github.com/antibyte/retrocalc/pkg/session"
	"github.com/antibyte/retrocalc/pkg/shared"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// rateLimitInfo tracks per-IP message counts for the current window.
type rateLimitInfo struct {
	messages  int
	lastReset time.Time
}

// KeypadHandler serves the calculator websocket endpoint. Each
// connection is bound to a session (via the token issued by
// pkg/session) and drives that session's calculator.
type KeypadHandler struct {
	upgrader   websocket.Upgrader
	registry   *SessionRegistry
	clients    map[*Client]bool
	mutex      sync.RWMutex
	rateLimits map[string]*rateLimitInfo
	rateMutex  sync.Mutex
}

// NewKeypadHandler creates the handler and starts the background
// session cleanup.
func NewKeypadHandler() *KeypadHandler {
	h := &KeypadHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The session token is the access control; the keypad may
			// be served from a different origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		registry:   NewSessionRegistry(),
		clients:    make(map[*Client]bool),
		rateLimits: make(map[string]*rateLimitInfo),
	}
	go h.sessionCleanupLoop()
	return h
}

// Registry exposes the session registry, mainly for tests.
func (h *KeypadHandler) Registry() *SessionRegistry {
	return h.registry
}

// HandleWebSocket upgrades a keypad connection. The request must
// carry a valid session token (header, cookie or token query
// parameter for websocket URLs).
func (h *KeypadHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ipAddress := session.ClientIP(r)

	h.mutex.RLock()
	clientCount := len(h.clients)
	h.mutex.RUnlock()
	if clientCount >= getMaxClients() {
		logger.SecurityWarn("Maximum clients reached, connection rejected: %s", ipAddress)
		http.Error(w, "Server overloaded", http.StatusServiceUnavailable)
		return
	}

	tokenString, err := session.ExtractTokenFromRequest(r)
	if err != nil {
		logger.SecurityWarn("Websocket request without token from %s", ipAddress)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := session.ValidateToken(tokenString)
	if err != nil {
		logger.SecurityWarn("Invalid session token from %s: %v", ipAddress, err)
		http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
		return
	}

	// session IDs are uuids issued by pkg/session; reject anything else
	if _, err := uuid.Parse(claims.SessionID); err != nil {
		logger.SecurityError("Malformed session ID in valid token from %s", ipAddress)
		http.Error(w, "Unauthorized: invalid session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WebSocketError("Websocket upgrade failed for %s: %v", ipAddress, err)
		return
	}

	client := &Client{
		conn:      conn,
		send:      make(chan []byte, getMaxChannelBuffer()),
		handler:   h,
		ipAddress: ipAddress,
		sessionID: claims.SessionID,
		shutdown:  make(chan struct{}),
	}

	h.mutex.Lock()
	h.clients[client] = true
	h.mutex.Unlock()

	logger.WebSocketInfo("Keypad connected: %s (session %s)", ipAddress, client.sessionID)

	go client.readPump()
	go client.writePump()

	// confirm the session and push the current state so a reconnect
	// restores the calculator where the user left it
	client.SendMessage(shared.Message{
		Type:      shared.MessageTypeSession,
		SessionID: client.sessionID,
	})
	expr, display := h.registry.State(client.sessionID)
	client.SendMessage(shared.Message{
		Type:    shared.MessageTypeState,
		Expr:    expr,
		Display: display,
	})
}

// dispatch routes one key request from a client.
func (h *KeypadHandler) dispatch(c *Client, req shared.KeyRequest) {
	switch req.Type {
	case "key":
		expr, display := h.registry.Press(c.sessionID, req.Key)
		c.SendMessage(shared.Message{
			Type:    shared.MessageTypeState,
			Expr:    expr,
			Display: display,
		})
	case "eval":
		// direct evaluation without incremental entry
		result := calc.Compute(req.Content)
		logger.Debug(logger.AreaCalc, "Direct eval %q = %q (session %s)", req.Content, result, c.sessionID)
		c.SendMessage(shared.Message{
			Type:    shared.MessageTypeState,
			Expr:    req.Content,
			Display: result,
		})
	case "ping":
		// application level keepalive from older frontends, no reply needed
	default:
		logger.WebSocketWarn("Unknown request type %q from session %s", req.Type, c.sessionID)
		c.SendMessage(shared.Message{
			Type:    shared.MessageTypeError,
			Content: "Unknown request type.",
		})
	}
}

// allowMessage applies the per-IP message rate limit.
func (h *KeypadHandler) allowMessage(ipAddress string) bool {
	maxPerSecond := getMaxMessagesPerSecond()

	h.rateMutex.Lock()
	defer h.rateMutex.Unlock()

	now := time.Now()
	info, exists := h.rateLimits[ipAddress]
	if !exists || now.Sub(info.lastReset) > time.Second {
		h.rateLimits[ipAddress] = &rateLimitInfo{messages: 1, lastReset: now}
		return true
	}

	info.messages++
	return info.messages <= maxPerSecond
}

// cleanupRateLimits drops rate limit entries whose window has long
// expired so the per-IP map does not grow with every client address
// ever seen.
func (h *KeypadHandler) cleanupRateLimits() {
	cutoff := time.Now().Add(-time.Minute)

	h.rateMutex.Lock()
	defer h.rateMutex.Unlock()

	for ip, info := range h.rateLimits {
		if info.lastReset.Before(cutoff) {
			delete(h.rateLimits, ip)
		}
	}
}

// cleanupClient closes a client connection and removes it from the
// handler. The session itself stays alive until the inactivity
// cleanup drops it, so a page reload keeps the calculator state.
func (h *KeypadHandler) cleanupClient(client *Client) {
	if client.conn != nil {
		client.conn.Close()
	}

	select {
	case <-client.shutdown:
		// already closed
	default:
		close(client.shutdown)
	}

	h.mutex.Lock()
	_, registered := h.clients[client]
	delete(h.clients, client)
	h.mutex.Unlock()

	if registered {
		logger.WebSocketInfo("Keypad disconnected: %s (session %s)", client.ipAddress, client.sessionID)
	}
}

// sessionCleanupLoop periodically drops calculators of sessions that
// have been inactive longer than the configured window.
func (h *KeypadHandler) sessionCleanupLoop() {
	for {
		interval := sessionCleanupInterval()
		time.Sleep(interval)
		if removed := h.registry.CleanupStale(maxInactiveTime()); removed > 0 {
			logger.Info(logger.AreaKeypad, "Removed %d inactive calculator sessions", removed)
		}
		h.cleanupRateLimits()
	}
}
