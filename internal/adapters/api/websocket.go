package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tx_streamer/internal/logger"
	"tx_streamer/pkg/txstream"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var errSessionClosed = errors.New("websocket session closed")

// WSHandler upgrades GET /ws and runs the subscriptions a client sends over it.
type WSHandler struct {
	streamer txstream.Streamer
	auth     *Authenticator
	logger   logger.AppLogger
	upgrader websocket.Upgrader

	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(streamer txstream.Streamer, auth *Authenticator, appLogger logger.AppLogger) (*WSHandler, error) {
	if streamer == nil {
		return nil, errors.New("streamer cannot be nil for WSHandler")
	}
	if auth == nil {
		return nil, errors.New("authenticator cannot be nil for WSHandler")
	}
	if appLogger == nil {
		return nil, errors.New("logger cannot be nil for WSHandler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WSHandler{
		streamer: streamer,
		auth:     auth,
		logger:   appLogger.Component("ws_handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// ServeHTTP handles one websocket connection for its whole lifetime.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger := h.logger.With("remote_addr", r.RemoteAddr)

	if h.ctx.Err() != nil {
		respondWithError(w, http.StatusServiceUnavailable, "Server is shutting down", requestLogger)
		return
	}

	identity, err := h.auth.Authenticate(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", requestLogger)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		requestLogger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	h.sessions.Add(1)
	defer h.sessions.Done()

	caller := txstream.Caller{ConnectionID: uuid.NewString(), Identity: identity}
	sess := newWSSession(conn, requestLogger.With("connection_id", caller.ConnectionID, "identity", identity))
	sess.logger.Info("Client connected")

	h.serveSession(sess, caller)

	sess.logger.Info("Client disconnected")
}

// serveSession reads frames until the client leaves, then waits for its subscriptions.
func (h *WSHandler) serveSession(sess *wsSession, caller txstream.Caller) {
	ctx, cancel := context.WithCancel(h.ctx)
	defer cancel()

	var subs sync.WaitGroup
	defer func() {
		sess.markDisconnected()
		subs.Wait()
		sess.close()
	}()

	go sess.keepAlive(ctx)

	for {
		_, message, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sess.logger.Warn("Websocket read error", "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			sess.emitError(fmt.Sprintf("malformed frame: %v", err))
			continue
		}

		switch frame.Event {
		case txstream.EventSubscribe:
			var req txstream.SubscribeRequest
			if len(frame.Data) > 0 {
				if err := json.Unmarshal(frame.Data, &req); err != nil {
					sess.emitError(fmt.Sprintf("malformed subscribe data: %v", err))
					continue
				}
			}
			subs.Add(1)
			go func() {
				defer subs.Done()
				if err := h.streamer.Subscribe(ctx, sess, caller, req); err != nil {
					sess.logger.Debug("Subscription failed", "error", err)
				}
			}()
		default:
			sess.emitError(fmt.Sprintf("unknown event '%s'", frame.Event))
		}
	}
}

// Close stops accepting connections and disconnects every open session.
func (h *WSHandler) Close() {
	h.cancel()
}

// Wait blocks until all sessions have ended or ctx expires.
func (h *WSHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wsSession is the txstream.Sink of one websocket connection. Writes are serialized.
type wsSession struct {
	conn   *websocket.Conn
	logger logger.AppLogger

	writeMu      sync.Mutex
	disconnected chan struct{}
	once         sync.Once
}

// Compile-time check to ensure wsSession implements txstream.Sink
var _ txstream.Sink = (*wsSession)(nil)

func newWSSession(conn *websocket.Conn, log logger.AppLogger) *wsSession {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return &wsSession{
		conn:         conn,
		logger:       log,
		disconnected: make(chan struct{}),
	}
}

// Emit writes one event frame.
func (s *wsSession) Emit(event string, payload any) error {
	select {
	case <-s.disconnected:
		return errSessionClosed
	default:
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(outboundFrame{Event: event, Data: payload}); err != nil {
		s.markDisconnected()
		return fmt.Errorf("write %s frame: %w", event, err)
	}
	return nil
}

// Disconnected is closed once the reader stops or a write fails.
func (s *wsSession) Disconnected() <-chan struct{} {
	return s.disconnected
}

func (s *wsSession) emitError(message string) {
	if err := s.Emit(txstream.EventError, txstream.ErrorPayload{Message: message}); err != nil {
		s.logger.Debug("Failed to emit error frame", "error", err)
	}
}

func (s *wsSession) markDisconnected() {
	s.once.Do(func() { close(s.disconnected) })
}

// keepAlive pings the client and closes the connection when ctx ends so a blocked read returns.
func (s *wsSession) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.markDisconnected()
				return
			}
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			_ = s.conn.Close()
			return
		case <-s.disconnected:
			return
		}
	}
}

func (s *wsSession) close() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = s.conn.Close()
}
