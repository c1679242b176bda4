// Package room implements the room coordinator: the per-game state machine
// (Empty -> Waiting -> Active -> Terminal), the 250ms clock ticker, and
// server-side re-validation of every client move.
//
// Grounded on morlock/pkg/engine/console/console.go's driver shape (an
// iox.AsyncCloser-embedding struct driven by a goroutine, torn down via
// Close/Closed) and frankkopp/FrankyGo's non-blocking single-flight
// semaphore.Weighted(1) (search/search.go), used here so the clock ticker
// and an in-flight move handler never run the same room's state at once —
// the closest honest substitute, in an ordinary multi-goroutine Go server,
// for a single-threaded cooperative event loop per room.
package room

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/engine"
	"github.com/agorski/portalchess/pkg/protocol"
	"github.com/agorski/portalchess/pkg/result"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"golang.org/x/sync/semaphore"
)

// defaultTimeMinutes is used when a room's creator does not specify a time
// control.
const defaultTimeMinutes = 10.0

// State is a room's position in the Empty -> Waiting -> Active -> Terminal
// state machine.
type State uint8

const (
	Empty State = iota
	Waiting
	Active
	Terminal
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Terminal:
		return "terminal"
	default:
		return "empty"
	}
}

// Sender abstracts the transport so this package never imports
// gorilla/websocket directly; cmd/portalserver supplies the real
// implementation, wired to the upgraded connections.
type Sender interface {
	Send(socketID string, event string, payload any)
}

const tickInterval = 250 * time.Millisecond

// Room holds one game's authoritative state: the engine, clock, and the
// two participants' socket ids.
type Room struct {
	ID string

	sender Sender
	closer iox.AsyncCloser
	busy   *semaphore.Weighted // single-flight guard: ticks and handlers never overlap

	mu          sync.Mutex
	state       State
	host        string
	whiteSocket string
	blackSocket string
	eng         *engine.Engine
	clocks      [board.NumColors]int64 // remaining ms
	lastTick    time.Time
	ended       bool
}

func newRoom(ctx context.Context, id, hostSocketID string, sender Sender, timeMinutes lang.Optional[float64]) *Room {
	minutes := defaultTimeMinutes
	if v, ok := timeMinutes.V(); ok && v > 0 {
		minutes = v
	}
	ms := int64(minutes * 60_000)

	r := &Room{
		ID:       id,
		sender:   sender,
		closer:   iox.NewAsyncCloser(),
		busy:     semaphore.NewWeighted(1),
		state:    Waiting,
		host:     hostSocketID,
		eng:      engine.New(ctx),
		clocks:   [board.NumColors]int64{board.White: ms, board.Black: ms},
		lastTick: time.Now(),
	}
	// One ticker per room for its entire lifetime, not one per join: tick()
	// no-ops while the room isn't Active, so starting it here rather than in
	// JoinRoom rules out a second ticker surviving a disconnect+re-join.
	go r.runTicker(ctx)
	return r
}

// Manager is the process-wide rooms table, the only process-wide mutable
// structure; it is mutated only on connect/disconnect/create/join.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewManager creates an empty room table.
func NewManager() *Manager {
	return &Manager{rooms: map[string]*Room{}}
}

// CreateRoom allocates a new room hosted by socketID and returns its id.
// timeMinutes is optional; an absent value falls back to defaultTimeMinutes.
func (m *Manager) CreateRoom(ctx context.Context, socketID string, timeMinutes lang.Optional[float64], sender Sender) string {
	id := newRoomID()
	r := newRoom(ctx, id, socketID, sender, timeMinutes)

	m.mu.Lock()
	m.rooms[id] = r
	m.mu.Unlock()

	logw.Infof(ctx, "room %v created by %v", id, socketID)
	return id
}

func newRoomID() string {
	var buf [3]byte // 3 bytes -> 6 hex chars, trimmed to a 5-character id
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])[:5]
}

func (m *Manager) lookup(roomID string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	return r, ok
}

// JoinRoom attaches socketID as the second participant. On success, the
// room locks, the participant already seated (the host, in a fresh room) is
// notified playerJoined, and each player receives
// gameStart; the room's clock ticker (already running since creation) starts
// advancing the clock now that the room is Active.
func (m *Manager) JoinRoom(ctx context.Context, roomID, socketID string) string {
	if roomID == "" {
		return protocol.ErrMissingRoomID
	}
	r, ok := m.lookup(roomID)
	if !ok {
		return protocol.ErrNotFound
	}

	r.mu.Lock()
	if r.state != Waiting {
		r.mu.Unlock()
		return protocol.ErrRoomLocked
	}

	// A Waiting room has exactly one empty seat: both (a fresh room, where
	// r.host still names the creator) or whichever one a disconnect just
	// vacated mid-game. Fill that seat; the occupied one is untouched so a
	// returning opponent is never displaced by the new joiner.
	var notify string
	switch {
	case r.whiteSocket == "" && r.blackSocket == "":
		notify = r.host
		r.whiteSocket = r.host
		r.blackSocket = socketID
		r.host = "" // whiteSocket is now the single source of truth for this socket
	case r.whiteSocket == "":
		notify = r.blackSocket
		r.whiteSocket = socketID
	case r.blackSocket == "":
		notify = r.whiteSocket
		r.blackSocket = socketID
	default:
		r.mu.Unlock()
		return protocol.ErrRoomLocked
	}
	r.state = Active
	r.lastTick = time.Now()
	pos := r.eng.Position()
	clocks := r.clocks
	r.mu.Unlock()

	r.sender.Send(notify, "playerJoined", protocol.PlayerJoined{SocketID: socketID})

	state := protocol.EncodePosition(pos)
	r.sender.Send(r.whiteSocket, "gameStart", protocol.GameStart{RoomID: roomID, Color: board.White.String(), State: state, Clocks: wireClocks(clocks)})
	r.sender.Send(r.blackSocket, "gameStart", protocol.GameStart{RoomID: roomID, Color: board.Black.String(), State: state, Clocks: wireClocks(clocks)})

	return ""
}

func wireClocks(c [board.NumColors]int64) protocol.Clocks {
	return protocol.Clocks{White: c[board.White], Black: c[board.Black]}
}

// MakeMove re-validates a client's claimed move and, on success, applies it,
// calls onAccepted (the caller's ack to the mover, which must precede
// moveMade and the clock broadcast per the ordering guarantee that acks,
// moveMade, and subsequent clock snapshots are emitted in that order on the
// same tick) and then broadcasts moveMade (and gameEnd, if the game just
// concluded). onAccepted may be nil.
func (m *Manager) MakeMove(ctx context.Context, roomID string, claimed board.ResolvedMove, onAccepted func()) string {
	r, ok := m.lookup(roomID)
	if !ok {
		return protocol.ErrNotFound
	}
	if !r.busy.TryAcquire(1) {
		return protocol.ErrServerError
	}
	defer r.busy.Release(1)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Active {
		if r.state == Terminal {
			return protocol.ErrGameOver
		}
		return protocol.ErrNotReady
	}

	mover := r.eng.Position().SideToMove

	resolved, newPos, err := r.eng.Move(claimed)
	if err != nil {
		return protocol.ErrIllegalMove
	}
	r.chargeElapsed(mover)

	if onAccepted != nil {
		onAccepted()
	}

	r.lastTick = time.Now()
	clocks := r.clocks
	r.sender.Send(r.whiteSocket, "moveMade", protocol.MoveMade{Resolved: protocol.EncodeResolvedMove(resolved), State: protocol.EncodePosition(newPos), Clocks: wireClocks(clocks)})
	r.sender.Send(r.blackSocket, "moveMade", protocol.MoveMade{Resolved: protocol.EncodeResolvedMove(resolved), State: protocol.EncodePosition(newPos), Clocks: wireClocks(clocks)})
	r.broadcastClockLocked(newPos.SideToMove)

	if res := result.Evaluate(newPos); res.Outcome != result.Ongoing {
		r.endLocked(outcomeToWire(res))
	}
	return ""
}

func outcomeToWire(res result.Result) protocol.GameEnd {
	end := protocol.GameEnd{}
	switch res.Outcome {
	case result.Checkmate:
		end.Result = protocol.ResultCheckmate
		end.Winner = protocol.EncodeWinner(res.Winner)
	case result.Stalemate:
		end.Result = protocol.ResultStalemate
	}
	return end
}

// chargeElapsed charges mover's clock for the time since lastTick, a final
// tick applied just before a move is committed. Caller holds r.mu.
func (r *Room) chargeElapsed(mover board.Color) {
	elapsed := time.Since(r.lastTick).Milliseconds()
	r.clocks[mover] -= elapsed
	if r.clocks[mover] < 0 {
		r.clocks[mover] = 0
	}
}

// runTicker fires every 250ms until the room closes or becomes Terminal.
func (r *Room) runTicker(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-r.closer.Closed():
			return
		}
	}
}

func (r *Room) tick(ctx context.Context) {
	if !r.busy.TryAcquire(1) {
		return // a move handler is in flight; skip this tick rather than block
	}
	defer r.busy.Release(1)

	defer func() {
		// Internal exceptions while computing ticks are swallowed to
		// preserve room liveness.
		if rec := recover(); rec != nil {
			logw.Errorf(ctx, "room %v: tick panic recovered: %v", r.ID, rec)
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Active {
		return
	}

	now := time.Now()
	delta := now.Sub(r.lastTick).Milliseconds()
	r.lastTick = now

	mover := r.eng.Position().SideToMove
	r.clocks[mover] -= delta
	if r.clocks[mover] < 0 {
		r.clocks[mover] = 0
	}

	r.broadcastClockLocked(mover)

	if r.clocks[mover] <= 0 {
		r.endLocked(protocol.GameEnd{Result: protocol.ResultTimeout, Winner: protocol.EncodeWinner(mover.Opponent())})
	}
}

// broadcastClockLocked sends the periodic clock snapshot. Caller holds r.mu.
func (r *Room) broadcastClockLocked(turn board.Color) {
	snap := protocol.ClockSnapshot{Clocks: wireClocks(r.clocks), Turn: turn.String(), Ts: time.Now().UnixMilli()}
	r.sender.Send(r.whiteSocket, "clock", snap)
	r.sender.Send(r.blackSocket, "clock", snap)
}

// endLocked transitions the room to Terminal and broadcasts gameEnd
// exactly once. Caller holds r.mu.
func (r *Room) endLocked(end protocol.GameEnd) {
	if r.ended {
		return
	}
	r.ended = true
	r.state = Terminal
	r.closer.Close()

	r.sender.Send(r.whiteSocket, "gameEnd", end)
	r.sender.Send(r.blackSocket, "gameEnd", end)
}

// Disconnect removes socketID from its room. An empty room is destroyed;
// a room with one remaining participant unlocks for a new joiner.
func (m *Manager) Disconnect(ctx context.Context, socketID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.rooms {
		r.mu.Lock()
		left := r.removeSocketLocked(socketID)
		empty := r.host == "" && r.whiteSocket == "" && r.blackSocket == ""
		r.mu.Unlock()

		if !left {
			continue
		}
		if empty {
			r.closer.Close()
			delete(m.rooms, id)
			logw.Infof(ctx, "room %v destroyed (empty)", id)
			continue
		}

		r.sender.Send(r.remainingSocket(), "playerLeft", protocol.PlayerLeft{SocketID: socketID})
	}
}

func (r *Room) removeSocketLocked(socketID string) bool {
	switch socketID {
	case r.host:
		r.host = ""
	case r.whiteSocket:
		r.whiteSocket = ""
	case r.blackSocket:
		r.blackSocket = ""
	default:
		return false
	}
	if r.state == Active {
		r.state = Waiting
	}
	return true
}

func (r *Room) remainingSocket() string {
	if r.whiteSocket != "" {
		return r.whiteSocket
	}
	return r.blackSocket
}
