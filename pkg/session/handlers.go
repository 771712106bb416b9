package session

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/antibyte/retrocalc/pkg/configuration"
	"github.com/antibyte/retrocalc/pkg/logger"

	"github.com/google/uuid"
)

// SessionResponse definiert die Struktur für Session-Antworten
type SessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId,omitempty"`
	Token     string `json:"token,omitempty"`
	Message   string `json:"message"`
}

// requestWindow tracks session requests per IP for rate limiting
type requestWindow struct {
	count     int
	lastReset time.Time
}

var (
	sessionRequests = make(map[string]*requestWindow)
	requestsMutex   sync.Mutex
)

// HandleCreateSession creates a new anonymous calculator session and
// returns the session ID together with the signed token the websocket
// endpoint requires.
func HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	// CORS headers so the keypad frontend can be served separately
	// during development
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Content-Type", "application/json")

	// Handle OPTIONS (Preflight) request
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		logger.SessionWarn("Invalid method for session creation: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ipAddress := ClientIP(r)
	if !allowSessionRequest(ipAddress) {
		logger.SecurityWarn("Session request rate limit exceeded for IP: %s", ipAddress)
		respondWithError(w, "Too many session requests", http.StatusTooManyRequests)
		return
	}

	sessionID := uuid.New().String()

	token, err := GenerateToken(sessionID)
	if err != nil {
		logger.SessionError("Failed to generate token for session %s: %v", sessionID, err)
		respondWithError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	logger.SessionInfo("New session created: %s (IP: %s)", sessionID, ipAddress)

	json.NewEncoder(w).Encode(SessionResponse{
		Success:   true,
		SessionID: sessionID,
		Token:     token,
		Message:   "Session created",
	})
}

// allowSessionRequest applies the per-IP session request limit from
// the [Session] configuration section.
func allowSessionRequest(ipAddress string) bool {
	maxRequests := configuration.GetInt("Session", "max_session_requests_per_minute", 10)
	window := configuration.GetDuration("Session", "session_request_time_window", time.Minute)

	requestsMutex.Lock()
	defer requestsMutex.Unlock()

	now := time.Now()

	// sweep every expired window, not only the requesting IP's, so the
	// map stays bounded by the number of currently active clients
	for ip, info := range sessionRequests {
		if now.Sub(info.lastReset) > window {
			delete(sessionRequests, ip)
		}
	}

	info, exists := sessionRequests[ipAddress]
	if !exists {
		sessionRequests[ipAddress] = &requestWindow{count: 1, lastReset: now}
		return true
	}

	info.count++
	return info.count <= maxRequests
}

// ClientIP returns the client address, honoring X-Forwarded-For when
// the server runs behind a proxy.
func ClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	return r.RemoteAddr
}

func respondWithError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(SessionResponse{
		Success: false,
		Message: message,
	})
}
