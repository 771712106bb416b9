package keypad

import (
	"encoding/json"
	"time"

	"github.com/antibyte/retrocalc/pkg/logger"
	"github.com/antibyte/retrocalc/pkg/shared"

	"github.com/gorilla/websocket"
)

var newline = []byte{'\n'}

// Client represents one connected keypad frontend.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	handler   *KeypadHandler
	ipAddress string
	sessionID string
	shutdown  chan struct{}
}

// Send queues a message for delivery through the write pump. The send
// is non-blocking; a client whose buffer is full is considered dead
// and cleaned up.
func (c *Client) Send(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			// send channel was closed concurrently during cleanup
			logger.WebSocketDebug("Send on closed channel for session %s", c.sessionID)
		}
	}()

	select {
	case c.send <- message:
	default:
		logger.WebSocketWarn("Send buffer full for session %s, dropping client", c.sessionID)
		c.handler.cleanupClient(c)
	}
}

// SendMessage marshals and queues a shared.Message.
func (c *Client) SendMessage(msg shared.Message) {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		logger.WebSocketError("Failed to marshal message for session %s: %v", c.sessionID, err)
		return
	}
	c.Send(jsonMsg)
}

// readPump reads key requests from the websocket until the connection
// dies. It runs in its own goroutine, one per client.
func (c *Client) readPump() {
	defer c.handler.cleanupClient(c)

	c.conn.SetReadLimit(getMaxMessageSize())
	c.conn.SetReadDeadline(time.Now().Add(getPongWait()))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(getPongWait()))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				logger.WebSocketWarn("Unexpected close for session %s: %v", c.sessionID, err)
			}
			break
		}

		if !c.handler.allowMessage(c.ipAddress) {
			logger.SecurityWarn("Message rate limit exceeded for %s (session %s)", c.ipAddress, c.sessionID)
			c.SendMessage(shared.Message{
				Type:    shared.MessageTypeError,
				Content: "Too many messages, slow down.",
			})
			continue
		}

		var req shared.KeyRequest
		if err := json.Unmarshal(message, &req); err != nil {
			logger.WebSocketWarn("Invalid JSON from session %s: %v", c.sessionID, err)
			c.SendMessage(shared.Message{
				Type:    shared.MessageTypeError,
				Content: "Invalid message format.",
			})
			continue
		}

		c.handler.dispatch(c, req)
	}
}

// writePump writes queued messages and keepalive pings to the
// websocket until the connection dies or shutdown is signalled.
func (c *Client) writePump() {
	ticker := time.NewTicker(getPingPeriod())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(getWriteWait()))
			if !ok {
				// Channel was closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// drain whatever queued up behind the first message
			n := len(c.send)
			for i := 0; i < n; i++ {
				select {
				case additionalMsg := <-c.send:
					w.Write(newline)
					w.Write(additionalMsg)
				default:
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(getWriteWait()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.WebSocketError("Failed to send ping to session %s: %v", c.sessionID, err)
				return
			}
		case <-c.shutdown:
			return
		}
	}
}
