package realtime

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"tms-backend/logger"
	notificationModel "tms-backend/models/notification"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB
)

// Handler receives decoded notification messages from the channel. The
// channel guarantees a message is delivered either foreground or background,
// never both.
type Handler interface {
	// RefreshUnreadCount signals that the unread counter should be re-read.
	RefreshUnreadCount()

	// FlagNewNotification flips the "new notification" indicator.
	FlagNewNotification()

	// DeliverForeground shows an in-app toast with sound.
	DeliverForeground(msg notificationModel.Message)

	// DeliverBackground raises a native push.
	DeliverBackground(msg notificationModel.Message)

	// UpdateLastNotifiedAt persists the last-notification-sent-at marker so
	// read/unread accounting survives reconnects.
	UpdateLastNotifiedAt(at time.Time)
}

// Channel is one long-lived subscription for an authenticated
// user+organization pair. It owns the connection lifecycle explicitly; no
// package-level connection state.
//
// Keepalive is server-driven: the read deadline is only extended by pongs in
// response to the push service's pings, the channel never pings on its own.
// Against a server that does not ping, an idle subscription times out after
// pongWait and the caller has to reopen it.
type Channel struct {
	baseURL    string
	handler    Handler
	foreground func() bool

	mu           sync.Mutex
	conn         *websocket.Conn
	initializing bool
	closeOnce    sync.Once
	done         chan struct{}
}

// NewChannel builds a channel. foreground reports whether the application is
// currently visible; it decides toast versus native push.
func NewChannel(baseURL string, handler Handler, foreground func() bool) *Channel {
	return &Channel{
		baseURL:    baseURL,
		handler:    handler,
		foreground: foreground,
		done:       make(chan struct{}),
	}
}

// ChannelName derives the single subscription channel for a user within an
// organization.
func ChannelName(organizationID, userID uint) string {
	return fmt.Sprintf("notification.%d.%d", organizationID, userID)
}

// Open dials the push service and starts the receive loop. It is idempotent:
// a second call while a connection exists or is being established is a no-op.
// A connect failure is logged and returned without retrying; retry policy
// belongs to the caller.
func (c *Channel) Open(organizationID, userID uint) error {
	c.mu.Lock()
	if c.conn != nil || c.initializing {
		c.mu.Unlock()
		return nil
	}
	c.initializing = true
	c.mu.Unlock()

	url := fmt.Sprintf("%s/subscribe?channel=%s", c.baseURL, ChannelName(organizationID, userID))
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)

	c.mu.Lock()
	c.initializing = false
	if err != nil {
		c.mu.Unlock()
		logger.Error("Failed to connect notification channel", err)
		return err
	}
	c.conn = conn
	c.mu.Unlock()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readLoop(conn)
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("Notification channel read failed", err)
			}
			return
		}
		c.handleMessage(raw)
	}
}

// handleMessage decodes and routes one pushed message. Empty, malformed and
// unrecognized payloads are swallowed; connection tests are ignored.
func (c *Channel) handleMessage(raw []byte) {
	if len(raw) == 0 {
		return
	}

	var msg notificationModel.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		if os.Getenv("APP_ENV") == "development" {
			logger.Debug("Dropping malformed notification message: " + err.Error())
		}
		return
	}
	if !msg.Type.IsDeliverable() {
		return
	}

	c.handler.RefreshUnreadCount()
	c.handler.FlagNewNotification()

	// Foreground and background delivery are mutually exclusive.
	if c.foreground() {
		c.handler.DeliverForeground(msg)
	} else {
		c.handler.DeliverBackground(msg)
	}

	sentAt := msg.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	c.handler.UpdateLastNotifiedAt(sentAt)
}

// Close flushes and tears the subscription down. It runs exactly once per
// connection; handlers registered after teardown begins see no partial
// state.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()

		if conn == nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
}
