package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/feltable/lobby/internal/protocol"
)

const writeTimeout = 10 * time.Second

// Transport is the bidirectional event channel to the lobby server. The
// engine treats it as fire-and-forget: no acknowledgment tracking, no
// retries. Reconnection policy belongs to whoever owns the Transport.
type Transport struct {
	conn   *websocket.Conn
	logger *log.Logger
	clock  quartz.Clock

	writeMu   sync.Mutex
	stop      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Dial connects to the lobby server and starts the keepalive ticker.
// http/https URLs are rewritten to their websocket schemes.
func Dial(serverURL string, pingInterval time.Duration, clock quartz.Clock, logger *log.Logger) (*Transport, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}

	logger.Info("connecting", "url", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &Transport{
		conn:   conn,
		logger: logger.WithPrefix("transport"),
		clock:  clock,
		stop:   make(chan struct{}),
		cancel: cancel,
	}

	if pingInterval > 0 {
		clock.TickerFunc(ctx, pingInterval, t.ping, "keepalive")
	}

	return t, nil
}

// Emit sends a named event with a payload to the server.
func (t *Transport) Emit(event protocol.EventType, payload any) error {
	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_ = t.conn.SetWriteDeadline(t.clock.Now().Add(writeTimeout))
	if err := t.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	return nil
}

// ReadPump reads frames until the connection drops or Close is called,
// handing each decoded message to handle. Returns nil on an orderly
// shutdown.
func (t *Transport) ReadPump(handle func(*protocol.Message)) error {
	for {
		var msg protocol.Message
		if err := t.conn.ReadJSON(&msg); err != nil {
			select {
			case <-t.stop:
				return nil
			default:
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}
		if msg.Event == "" {
			t.logger.Warn("dropping frame without event name")
			continue
		}
		handle(&msg)
	}
}

// Close sends a close frame and tears the connection down. Safe to call
// more than once.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		t.cancel()

		t.writeMu.Lock()
		_ = t.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.writeMu.Unlock()

		err = t.conn.Close()
	})
	return err
}

func (t *Transport) ping() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	_ = t.conn.SetWriteDeadline(t.clock.Now().Add(writeTimeout))
	if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		t.logger.Debug("keepalive failed", "error", err)
		return err
	}
	return nil
}
