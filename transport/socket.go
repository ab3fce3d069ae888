package transport

import (
	"chat-sync/contract"
	"chat-sync/domain/chat"
	"chat-sync/domain/event"
	"chat-sync/errors"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var (
	_ contract.Worker       = (*Socket)(nil)
	_ contract.Acknowledger = (*Socket)(nil)
)

// Socket is the live transport: it fills the cells with inbound events and
// sends read acknowledgements back to the server.
type Socket struct {
	log    *slog.Logger
	url    string
	header http.Header
	dialer *websocket.Dialer
	cells  Cells

	mu   sync.Mutex // guards conn and serialises writes
	conn *websocket.Conn
}

func NewSocket(log *slog.Logger, url, token string, cells Cells) *Socket {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return &Socket{
		log:    log,
		url:    url,
		header: header,
		dialer: websocket.DefaultDialer,
		cells:  cells,
	}
}

// Run dials the server and pumps frames into the cells until the connection
// drops or ctx is cancelled. A dropped connection is returned as an error so
// the supervisor redials.
func (s *Socket) Run(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	s.setConn(conn)
	s.log.Info("Socket connected", "url", s.url)

	stop := context.AfterFunc(ctx, func() {
		s.closeConn(websocket.CloseNormalClosure, "client shutdown")
	})
	defer stop()
	defer s.closeConn(websocket.CloseGoingAway, "reader stopped")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Debug("Context done, stopping socket reader")
				return nil
			}
			return fmt.Errorf("%w: %v", errors.ErrSocketClosed, err)
		}
		s.dispatch(data)
	}
}

// dispatch decodes one frame. Undecodable frames are logged and skipped so a
// single bad frame never stops the reader.
func (s *Socket) dispatch(data []byte) {
	var frame envelope
	if err := json.Unmarshal(data, &frame); err != nil {
		s.log.Warn("Dropping undecodable frame", "error", err)
		return
	}
	switch frame.Event {
	case EventMessage:
		var evt event.MessageReceived
		if err := json.Unmarshal(frame.Data, &evt); err != nil {
			s.log.Warn("Dropping undecodable message event", "error", err)
			return
		}
		if s.cells.Message.Put(evt) {
			s.log.Debug("Pending message event overwritten")
		}
	case EventReadStatus:
		var receipt event.ReadReceipt
		if err := json.Unmarshal(frame.Data, &receipt); err != nil {
			s.log.Warn("Dropping undecodable read receipt", "error", err)
			return
		}
		if s.cells.Receipt.Put(receipt) {
			s.log.Debug("Pending read receipt overwritten")
		}
	default:
		s.log.Debug("Ignoring socket event", "event", frame.Event)
	}
}

// NotifyRead tells the server that the messages from target have been seen.
func (s *Socket) NotifyRead(ctx context.Context, target chat.UserID, chatType chat.ChatType) error {
	data, err := json.Marshal(readMessagePayload{ToID: target, Type: chatType})
	if err != nil {
		return err
	}
	frame, err := json.Marshal(envelope{Event: EventReadMessage, Data: data})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return errors.ErrSocketClosed
	}
	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err = s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

func (s *Socket) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
}

func (s *Socket) closeConn(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	deadline := time.Now().Add(writeWait)
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = s.conn.Close()
	s.conn = nil
}
