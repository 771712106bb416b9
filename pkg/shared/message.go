package shared

// MessageType defines the type of a message for the websocket
// communication with the keypad frontend. The numeric values match
// the RESPONSE_TYPE_MAP in the frontend (retrocalc.js).
type MessageType int

const (
	MessageTypeText    MessageType = 0 // plain text output (banner, notices)
	MessageTypeState   MessageType = 1 // expression buffer and display value
	MessageTypeSession MessageType = 2 // session ID transmission
	MessageTypeError   MessageType = 3 // protocol level error (not a calculation error)
)

// Message is sent from the server to the keypad frontend. The field
// names mirror the direct property accesses in retrocalc.js.
type Message struct {
	Type    MessageType `json:"type"`
	Content string      `json:"content,omitempty"`

	// For SESSION
	SessionID string `json:"sessionId,omitempty"`

	// For STATE: the full expression buffer and the display value.
	// Both are always sent together so the frontend never renders a
	// half-updated pair.
	Expr    string `json:"expr"`
	Display string `json:"display"`
}

// KeyRequest is received from the keypad frontend. Key carries the
// physical key name (translated server-side via pkg/keymap), Content
// carries a full expression string for direct evaluation requests.
type KeyRequest struct {
	Type      string `json:"type"` // "key", "eval", "ping"
	Key       string `json:"key,omitempty"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}
