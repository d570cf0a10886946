// internal/app/features/presence/ws.go
package presence

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Client-to-server and server-to-client event names. The client
// announces itself with addNewUser, sends chat payloads with
// sendMessage, and receives them as getMessage.
const (
	eventAddUser     = "addNewUser"
	eventSendMessage = "sendMessage"
	eventGetMessage  = "getMessage"
	eventOnlineUsers = "getOnlineUsers"
)

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// envelope is the wire shape for hub events. Unused fields stay empty
// and are omitted from the JSON.
type envelope struct {
	Type       string          `json:"type"`
	UserID     string          `json:"userId,omitempty"`
	ReceiverID string          `json:"receiverId,omitempty"`
	Users      []string        `json:"users,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// client is one websocket connection with a buffered outbound queue.
type client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
}

// enqueue queues a payload without blocking. A full queue drops the
// payload; chat history is authoritative in the database, not here.
func (c *client) enqueue(payload any) {
	select {
	case <-c.done:
	case c.send <- payload:
	default:
	}
}

// ServeWS upgrades the request and runs the connection until the
// client announces itself, chats, or goes away.
//
// Route: GET /ws
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{})
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(conn)
	var userID primitive.ObjectID
	registered := false
	defer func() {
		close(c.done)
		if registered {
			h.deregister(userID, c)
		}
		_ = conn.Close(websocket.StatusNormalClosure, "closed")
	}()

	readErr := make(chan error, 1)
	inbound := make(chan envelope, sendBuffer)
	go func() {
		for {
			var ev envelope
			if err := wsjson.Read(ctx, conn, &ev); err != nil {
				readErr <- err
				return
			}
			select {
			case inbound <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-readErr:
			return
		case ev := <-inbound:
			switch ev.Type {
			case eventAddUser:
				id, err := primitive.ObjectIDFromHex(ev.UserID)
				if err != nil {
					continue
				}
				if registered && id != userID {
					h.deregister(userID, c)
				}
				userID = id
				registered = true
				if old := h.register(userID, c); old != nil && old != c {
					_ = old.conn.Close(websocket.StatusNormalClosure, "replaced")
				}
			case eventSendMessage:
				if !registered {
					continue
				}
				rid, err := primitive.ObjectIDFromHex(ev.ReceiverID)
				if err != nil {
					continue
				}
				h.Push(rid, envelope{
					Type:   eventGetMessage,
					UserID: userID.Hex(),
					Data:   ev.Data,
				})
			}
		case payload := <-c.send:
			writeCtx, cancelWrite := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, payload)
			cancelWrite()
			if err != nil {
				h.log.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

// PushMessage sends a stored chat message to its receiver as a
// getMessage event. Used by the HTTP message endpoints so a REST send
// still reaches an online receiver in real time.
func (h *Hub) PushMessage(receiverID primitive.ObjectID, senderID primitive.ObjectID, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Warn("marshal push payload failed", zap.Error(err))
		return
	}
	h.Push(receiverID, envelope{
		Type:   eventGetMessage,
		UserID: senderID.Hex(),
		Data:   data,
	})
}
