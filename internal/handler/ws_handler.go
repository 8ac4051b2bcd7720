/*
Package handler provides the HTTP gateway of the chat relay.

This file contains the WebSocket transport: HandleWebSocket upgrades the request and hands
the socket, adapted to chat.Stream, to the same connection actor used for TCP clients.
Text and binary frames carry raw protocol bytes; each outbound message is one text frame.
*/
package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"linechat/internal/app/chat"
	"linechat/internal/pkg/logx"
)

const closeGracePeriod = time.Second

// wsStream adapts a *websocket.Conn to chat.Stream.
type wsStream struct {
	conn   *websocket.Conn
	reader io.Reader
}

// newWSStream leaves the message size unlimited; the chat decoder bounds each line and
// discards oversized ones like it does for TCP.
func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

// Read concatenates the payloads of incoming data frames into one byte stream.
func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			messageType, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
				continue
			}
			s.reader = r
		}

		n, err := s.reader.Read(p)
		if errors.Is(err, io.EOF) {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write sends p as a single text frame.
func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close returns without waiting on the socket. The close frame is sent from its own
// goroutine because WriteControl waits for a write pump stuck on a slow peer; the socket
// is closed once the frame is written or the grace period runs out.
func (s *wsStream) Close() error {
	go func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		_ = s.conn.Close()
	}()
	return nil
}

func (s *wsStream) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

func (s *wsStream) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

// HandleWebSocket creates an HTTP HandlerFunc that upgrades the request and serves the
// chat protocol over the socket until it closes.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket", "remote_ip", logx.AnonymizeIP(r.RemoteAddr))
			return
		}

		deps.Manager.HandleConn(newWSStream(conn), chat.TransportWebSocket, r.RemoteAddr)
	}
}
