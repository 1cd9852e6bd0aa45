// Package spectator streams bus events to remote viewers over websockets.
package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"tilecraft/internal/events"
	"tilecraft/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Server exposes /ws and /health. Every websocket client gets its own bus
// subscription and receives each event as one JSON text message.
type Server struct {
	bus    *events.Bus
	buffer int

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	clients  atomic.Int64

	metrics func() any

	httpServer *http.Server
	listener   net.Listener
	log        *logrus.Entry
}

// NewServer creates a server fanning out bus events with a per-client buffer.
func NewServer(bus *events.Bus, buffer int) *Server {
	return &Server{
		bus:    bus,
		buffer: buffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.Component("spectator"),
	}
}

// SetMetrics adds the value returned by fn to /health responses. fn is called
// from HTTP handler goroutines.
func (s *Server) SetMetrics(fn func() any) {
	s.metrics = fn
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens on addr and serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("spectator listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("spectator server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.log.WithField("addr", ln.Addr().String()).Info("spectator server listening")
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Clients returns the number of connected spectators.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

type healthResponse struct {
	Status     string `json:"status"`
	Spectators int    `json:"spectators"`
	Dropped    uint64 `json:"dropped"`
	Metrics    any    `json:"metrics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resp := healthResponse{
		Status:     "ok",
		Spectators: s.Clients(),
		Dropped:    s.bus.Dropped(),
	}
	if s.metrics != nil {
		resp.Metrics = s.metrics()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	s.clients.Add(1)
	name := fmt.Sprintf("spectator-%d", s.nextID.Add(1))
	c := &client{
		name: name,
		conn: conn,
		feed: s.bus.Subscribe(name, s.buffer),
		log:  s.log.WithField("client", name),
	}
	c.log.WithField("remote", r.RemoteAddr).Info("spectator connected")

	go c.writePump()
	c.readPump()

	s.clients.Add(-1)
	s.bus.Unsubscribe(name)
	c.log.Info("spectator disconnected")
}

type client struct {
	name string
	conn *websocket.Conn
	feed <-chan events.Event
	log  *logrus.Entry
}

// readPump only services control frames; spectators cannot send commands.
func (c *client) readPump() {
	defer func() {
		if err := c.conn.Close(); err != nil {
			c.log.WithError(err).Debug("close after read failed")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("read failed")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.feed:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
