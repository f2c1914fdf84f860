// Package ws wraps gorilla/websocket for the live endpoints: origin checks
// from config, serialised writes and ping based keepalive.
package ws

import (
	"context"
	"net/http"
	"net/url"
	"purohit/config"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	readLimit  = 4096
)

type Upgrader struct {
	upgrader websocket.Upgrader
}

func NewUpgrader(cfg *config.Config) *Upgrader {
	origins := cfg.App.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{cfg.App.FrontendURL}
	}

	return &Upgrader{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin(r, origins)
			},
		},
	}
}

// allowedOrigin accepts non-browser clients and listed origins.
func allowedOrigin(r *http.Request, origins []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if slices.Contains(origins, "*") {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if strings.EqualFold(parsed.Host, r.Host) {
		return true
	}

	return slices.ContainsFunc(origins, func(allowed string) bool {
		return strings.EqualFold(strings.TrimRight(allowed, "/"), origin)
	})
}

// Upgrade hijacks the request. On failure gorilla has already written the
// HTTP error.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	conn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &Conn{conn: conn, closed: make(chan struct{})}, nil
}

type Conn struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

func (c *Conn) WriteJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return c.conn.WriteJSON(value) //nolint:wrapcheck
}

func (c *Conn) ReadJSON(value any) error {
	return c.conn.ReadJSON(value) //nolint:wrapcheck
}

// KeepAlive pings until ctx ends or the connection closes.
func (c *Conn) KeepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()

			if err != nil {
				log.Debug().Err(err).Msg("websocket ping failed")

				return
			}
		}
	}
}

// Close sends a close frame with reason and releases the connection.
func (c *Conn) Close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.closed)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		c.writeMu.Unlock()

		_ = c.conn.Close()
	})
}

// Done is closed once Close has run.
func (c *Conn) Done() <-chan struct{} {
	return c.closed
}

// Close codes used by the live endpoints.
const (
	CloseNormal        = websocket.CloseNormalClosure
	ClosePolicy        = websocket.ClosePolicyViolation
	CloseInternalError = websocket.CloseInternalServerErr
)
