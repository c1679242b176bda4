// Command portalserver runs the authoritative portal chess match server:
// an HTTP listener upgrading to WebSocket connections, dispatching
// createRoom/joinRoom/makeMove events to pkg/room's Manager.
//
// Grounded on morlock/cmd/morlock/main.go's shape (flag.Usage banner,
// logw.Exitf on fatal startup error) adapted from a stdio chess engine to
// a network server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/agorski/portalchess/pkg/config"
	"github.com/agorski/portalchess/pkg/protocol"
	"github.com/agorski/portalchess/pkg/room"
	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: portalserver [options]

portalserver hosts authoritative portal chess matches over WebSocket.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logw.Exitf(ctx, "invalid configuration: %v", err)
	}

	mgr := room.NewManager()
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", newWSHandler(ctx, mgr))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logw.Infof(ctx, "portalserver listening on %v", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logw.Exitf(ctx, "server exited: %v", err)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// event is the envelope every inbound message arrives in: a name plus a
// raw payload decoded per-event below.
type event struct {
	Event string          `json:"event"`
	ID    string          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// envelope is the outbound shape: either a broadcast (event+data) or an
// acknowledgement (id+data) for the request that produced it.
type envelope struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// conn adapts one live WebSocket connection to room.Sender, serializing
// writes behind a mutex since gorilla/websocket connections are not safe
// for concurrent writers.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.WriteJSON(v)
}

// hub fans Sender.Send out to whichever conn currently owns socketID.
type hub struct {
	mu    sync.Mutex
	conns map[string]*conn
}

func newHub() *hub {
	return &hub{conns: map[string]*conn{}}
}

func (h *hub) register(socketID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[socketID] = c
}

func (h *hub) unregister(socketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, socketID)
}

// Send implements room.Sender. A socketID with no live connection (the
// peer already disconnected) is silently dropped.
func (h *hub) Send(socketID, evt string, payload any) {
	if socketID == "" {
		return
	}
	h.mu.Lock()
	c, ok := h.conns[socketID]
	h.mu.Unlock()
	if !ok {
		return
	}
	c.writeJSON(envelope{Event: evt, Data: payload})
}

func newWSHandler(ctx context.Context, mgr *room.Manager) http.HandlerFunc {
	h := newHub()
	var nextID int64
	var idMu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logw.Errorf(ctx, "upgrade failed: %v", err)
			return
		}

		idMu.Lock()
		nextID++
		socketID := fmt.Sprintf("sock-%d", nextID)
		idMu.Unlock()

		c := &conn{ws: ws}
		h.register(socketID, c)
		logw.Infof(ctx, "socket %v connected", socketID)

		defer func() {
			h.unregister(socketID)
			mgr.Disconnect(ctx, socketID)
			_ = ws.Close()
			logw.Infof(ctx, "socket %v disconnected", socketID)
		}()

		for {
			var ev event
			if err := ws.ReadJSON(&ev); err != nil {
				return
			}
			dispatch(ctx, mgr, h, socketID, ev)
		}
	}
}

func dispatch(ctx context.Context, mgr *room.Manager, h *hub, socketID string, ev event) {
	switch ev.Event {
	case "createRoom":
		var req protocol.CreateRoomRequest
		if len(ev.Data) > 0 {
			if err := json.Unmarshal(ev.Data, &req); err != nil {
				ackErr(h, socketID, ev.ID, protocol.ErrInvalidPayload)
				return
			}
		}
		var minutes lang.Optional[float64]
		if req.TimeMinutes != nil {
			minutes = lang.Some(float64(*req.TimeMinutes))
		}
		roomID := mgr.CreateRoom(ctx, socketID, minutes, h)
		ack(h, socketID, ev.ID, protocol.CreateRoomAck{RoomID: roomID})

	case "joinRoom":
		roomID, ok := decodeRoomID(ev.Data)
		if !ok {
			ackErr(h, socketID, ev.ID, protocol.ErrInvalidPayload)
			return
		}
		if errCode := mgr.JoinRoom(ctx, roomID, socketID); errCode != "" {
			ackErr(h, socketID, ev.ID, errCode)
			return
		}
		ack(h, socketID, ev.ID, protocol.JoinRoomAck{OK: true})

	case "makeMove":
		var req protocol.MakeMoveRequest
		if err := json.Unmarshal(ev.Data, &req); err != nil {
			ackErr(h, socketID, ev.ID, protocol.ErrInvalidPayload)
			return
		}
		claimed, err := protocol.DecodeResolvedMove(req.Resolved)
		if err != nil {
			ackErr(h, socketID, ev.ID, protocol.ErrInvalidPayload)
			return
		}
		onAccepted := func() { ack(h, socketID, ev.ID, protocol.MakeMoveAck{OK: true}) }
		if errCode := mgr.MakeMove(ctx, req.RoomID, claimed, onAccepted); errCode != "" {
			ackErr(h, socketID, ev.ID, errCode)
			return
		}

	default:
		logw.Errorf(ctx, "socket %v: unknown event %q", socketID, ev.Event)
	}
}

// decodeRoomID accepts either a bare JSON string or {"roomId": "..."}, per
// protocol.JoinRoomRequest's doc comment.
func decodeRoomID(data json.RawMessage) (string, bool) {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, true
	}
	var req protocol.JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", false
	}
	return req.RoomID, req.RoomID != ""
}

func ack(h *hub, socketID, id string, payload any) {
	c := h.connOrNil(socketID)
	if c == nil {
		return
	}
	c.writeJSON(envelope{ID: id, Data: payload})
}

func ackErr(h *hub, socketID, id, code string) {
	ack(h, socketID, id, map[string]string{"error": code})
}

func (h *hub) connOrNil(socketID string) *conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[socketID]
}
