package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"documind/internal/session"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// clientAction is a frame sent by the page.
type clientAction struct {
	Type      string `json:"type"`
	APIBase   string `json:"api_base,omitempty"`
	Question  string `json:"question,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
	Name      string `json:"name,omitempty"`
	Query     string `json:"query,omitempty"`
}

// helloMsg is the first frame of every connection.
type helloMsg struct {
	Type        string   `json:"type"`
	SessionID   string   `json:"session_id"`
	Suggestions []string `json:"suggestions"`
	MaxLength   int      `json:"max_length"`
}

// wsClient binds one page to its session controller.
type wsClient struct {
	conn    *websocket.Conn
	session *session.Session
	send    chan interface{}
	server  *Server

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Notify implements session.Notifier by queueing the event for the writer.
func (c *wsClient) Notify(ev session.Event) {
	c.queue(ev)
}

func (c *wsClient) queue(v interface{}) {
	select {
	case c.send <- v:
	case <-c.ctx.Done():
	}
}

// handleWebSocket creates a session for a freshly loaded page.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "err", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &wsClient{
		conn:   conn,
		send:   make(chan interface{}, 256),
		server: s,
		ctx:    ctx,
		cancel: cancel,
	}

	origin := requestOrigin(r)
	apiBase := s.cfg.APIBase
	if apiBase == "" {
		apiBase = origin
	}

	sess, err := session.New(session.Options{
		APIBase:        apiBase,
		Origin:         origin,
		HealthTimeout:  s.cfg.HealthTimeout,
		QueryTimeout:   s.cfg.QueryTimeout,
		AutoCloseDelay: s.cfg.AutoCloseDelay,
		Logger:         s.logger,
		Notifier:       c,
	})
	if err != nil {
		s.logger.Error("Failed to create session", "err", err)
		cancel()
		conn.Close()
		return
	}
	c.session = sess
	s.register(c)
	s.logger.Info("Page connected", "session", sess.ID, "remote", r.RemoteAddr)

	go c.writePump()

	c.queue(helloMsg{
		Type:        "hello",
		SessionID:   sess.ID,
		Suggestions: s.cfg.Suggestions,
		MaxLength:   session.MaxQuestionLength,
	})
	snap := sess.Snapshot()
	c.queue(session.Event{Type: session.EventState, Snapshot: &snap})
	go sess.CheckHealth(ctx)

	c.readPump()
}

// readPump handles incoming frames in order until the page goes away.
func (c *wsClient) readPump() {
	defer c.close()

	c.conn.SetReadLimit(64 << 10)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientAction
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("WebSocket read error", "session", c.session.ID, "err", err)
			}
			return
		}
		c.handleAction(msg)
	}
}

// writePump serializes every outgoing frame and keeps the connection alive.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case v := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(v); err != nil {
				c.server.logger.Warn("WebSocket write error", "session", c.session.ID, "err", err)
				c.cancel()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}

// close tears the session down; in-flight requests are cancelled.
func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.server.unregister(c.session.ID)
		if err := c.session.Close(); err != nil {
			c.server.logger.Warn("Session close failed", "session", c.session.ID, "err", err)
		}
		c.server.logger.Info("Page disconnected", "session", c.session.ID)
	})
}

// handleAction dispatches one page action. Anything that waits on the
// network runs in its own goroutine so later frames are still read.
func (c *wsClient) handleAction(msg clientAction) {
	s := c.session
	switch msg.Type {
	case "set_api_base":
		go s.SetAPIBase(c.ctx, msg.APIBase)
	case "check_health":
		go s.CheckHealth(c.ctx)
	case "send":
		go s.SendQuestion(c.ctx, msg.Question)
	case "clear":
		confirmed := msg.Confirmed
		s.ClearTranscript(func() bool { return confirmed })
	case "export":
		s.Export()
	case "search":
		if _, err := s.SearchTranscript(msg.Query); err != nil {
			c.queue(session.Event{Type: session.EventAlert, Text: "Search failed: " + err.Error()})
		}
	case "open_dialog":
		s.OpenDialog()
	case "close_dialog":
		s.CloseDialog()
	case "remove_file":
		s.RemoveFile(msg.Name)
	case "upload_all":
		go s.UploadAll(c.ctx)
	case "ping":
		c.queue(map[string]string{"type": "pong"})
	default:
		c.queue(session.Event{Type: session.EventAlert, Text: "Unknown action: " + msg.Type})
	}
}
