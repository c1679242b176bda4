// Package protocol defines the wire shapes exchanged between the server
// and a browser client over the WebSocket event channel: the square
// codec, the client->server event payloads and their acknowledgement
// shapes, and the server->room broadcast events.
//
// morlock has no networked wire protocol; this package is new, modeled on
// the plain encode/decode functions morlock/pkg/board/fen uses to move
// between an internal type and a wire string.
package protocol

import (
	"fmt"
	"strings"

	"github.com/agorski/portalchess/pkg/board"
)

// EncodeSquare renders sq in the uppercase wire form ("E4").
func EncodeSquare(sq board.Square) string {
	return sq.String()
}

// DecodeSquare parses a wire square label. Incoming payloads must be
// uppercased before comparison; DecodeSquare does that itself so callers
// never need to.
func DecodeSquare(s string) (board.Square, error) {
	return board.ParseSquareStr(strings.ToUpper(s))
}

var kindToWire = map[board.MoveKind]string{
	board.MoveNormal:           "move",
	board.MoveCapture:          "capture",
	board.MovePortalActivation: "portal-activation",
	board.MoveCastle:           "castle",
	board.MovePromotion:        "promotion",
}

var wireToKind = func() map[string]board.MoveKind {
	out := make(map[string]board.MoveKind, len(kindToWire))
	for k, v := range kindToWire {
		out[v] = k
	}
	return out
}()

var promoToWire = map[board.PieceKind]string{
	board.Queen:  "Q",
	board.Rook:   "R",
	board.Bishop: "B",
	board.Knight: "N",
}

var wireToPromo = func() map[string]board.PieceKind {
	out := make(map[string]board.PieceKind, len(promoToWire))
	for k, v := range promoToWire {
		out[v] = k
	}
	return out
}()

const stayWire = "STAY"

// ViaPortal is the wire form of board.ViaPortal.
type ViaPortal struct {
	Entry   string `json:"entry"`
	Network string `json:"network"`
	Choice  string `json:"choice"`
	Swapped bool   `json:"swapped"`
}

// ResolvedMove is the wire form of board.ResolvedMove (the payload a
// client sends in makeMove, and the shape echoed back in moveMade).
type ResolvedMove struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Kind       string     `json:"kind"`
	CastleSide string     `json:"castleSide,omitempty"`
	Promo      string     `json:"promo,omitempty"`
	ToFinal    string     `json:"toFinal"`
	ViaPortal  *ViaPortal `json:"viaPortal,omitempty"`
}

// EncodeResolvedMove converts an internal ResolvedMove to its wire form.
func EncodeResolvedMove(m board.ResolvedMove) ResolvedMove {
	w := ResolvedMove{
		From:    EncodeSquare(m.From),
		To:      EncodeSquare(m.To),
		Kind:    kindToWire[m.Kind],
		ToFinal: EncodeSquare(m.ToFinal),
	}
	if m.Kind == board.MoveCastle {
		w.CastleSide = m.CastleSide.String()
	}
	if m.Kind == board.MovePromotion {
		w.Promo = promoToWire[m.Promo]
	}
	if m.ViaPortal != nil {
		v := &ViaPortal{
			Entry:   EncodeSquare(m.ViaPortal.Entry),
			Network: m.ViaPortal.Network.String(),
			Swapped: m.ViaPortal.Swapped,
		}
		if m.ViaPortal.IsStay() {
			v.Choice = stayWire
		} else {
			v.Choice = EncodeSquare(m.ViaPortal.Choice)
		}
		w.ViaPortal = v
	}
	return w
}

// DecodeResolvedMove parses a client-submitted wire move. The server never
// trusts the result for anything beyond identifying which of its own
// legal candidates (by ResolvedMove.Equals) was intended — see
// pkg/engine.Move.
func DecodeResolvedMove(w ResolvedMove) (board.ResolvedMove, error) {
	from, err := DecodeSquare(w.From)
	if err != nil {
		return board.ResolvedMove{}, fmt.Errorf("invalid from square: %w", err)
	}
	to, err := DecodeSquare(w.To)
	if err != nil {
		return board.ResolvedMove{}, fmt.Errorf("invalid to square: %w", err)
	}
	toFinal, err := DecodeSquare(w.ToFinal)
	if err != nil {
		return board.ResolvedMove{}, fmt.Errorf("invalid toFinal square: %w", err)
	}
	kind, ok := wireToKind[strings.ToLower(w.Kind)]
	if !ok {
		return board.ResolvedMove{}, fmt.Errorf("invalid move kind: %q", w.Kind)
	}

	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: from, To: to, Kind: kind},
		ToFinal:  toFinal,
	}

	if kind == board.MoveCastle {
		switch strings.ToUpper(w.CastleSide) {
		case "K":
			m.CastleSide = board.KingSide
		case "Q":
			m.CastleSide = board.QueenSide
		default:
			return board.ResolvedMove{}, fmt.Errorf("invalid castle side: %q", w.CastleSide)
		}
	}
	if kind == board.MovePromotion {
		promo, ok := wireToPromo[strings.ToUpper(w.Promo)]
		if !ok {
			return board.ResolvedMove{}, fmt.Errorf("invalid promotion piece: %q", w.Promo)
		}
		m.Promo = promo
	}
	if w.ViaPortal != nil {
		v := w.ViaPortal
		entry, err := DecodeSquare(v.Entry)
		if err != nil {
			return board.ResolvedMove{}, fmt.Errorf("invalid viaPortal.entry: %w", err)
		}
		network := board.PortalExclusive
		if strings.EqualFold(v.Network, "neutral") {
			network = board.PortalNeutral
		}
		choice := board.StaySquare
		if !strings.EqualFold(v.Choice, stayWire) {
			choice, err = DecodeSquare(v.Choice)
			if err != nil {
				return board.ResolvedMove{}, fmt.Errorf("invalid viaPortal.choice: %w", err)
			}
		}
		m.ViaPortal = &board.ViaPortal{Entry: entry, Network: network, Choice: choice, Swapped: v.Swapped}
	}
	return m, nil
}

// Portal is the wire form of the portal topology, sent with every Position
// so the client can render portal squares without hardcoding the layout.
type Portal struct {
	WhiteExclusive []string   `json:"whiteExclusive"`
	BlackExclusive []string   `json:"blackExclusive"`
	NeutralPairs   [][2]string `json:"neutralPairs"`
}

func encodeSquares(sqs []board.Square) []string {
	out := make([]string, len(sqs))
	for i, sq := range sqs {
		out[i] = EncodeSquare(sq)
	}
	return out
}

// EncodePortal converts a PortalConfig to its wire form.
func EncodePortal(cfg *board.PortalConfig) Portal {
	if cfg == nil {
		return Portal{}
	}
	pairs := make([][2]string, len(cfg.NeutralPairs))
	for i, pair := range cfg.NeutralPairs {
		pairs[i] = [2]string{EncodeSquare(pair[0]), EncodeSquare(pair[1])}
	}
	return Portal{
		WhiteExclusive: encodeSquares(cfg.WhiteExclusive),
		BlackExclusive: encodeSquares(cfg.BlackExclusive),
		NeutralPairs:   pairs,
	}
}

// Piece is the wire form of a single occupied square.
type Piece struct {
	Kind     string `json:"kind"`
	Color    string `json:"color"`
	HasMoved bool   `json:"hasMoved"`
}

// Position is the wire form of board.Position sent in gameStart and
// moveMade as the "state" field.
type Position struct {
	Board         map[string]Piece `json:"board"`
	SideToMove    string           `json:"sideToMove"`
	MoveNumber    int              `json:"moveNumber"`
	Castling      string           `json:"castling"`
	HalfmoveClock int              `json:"halfmoveClock"`
	Portal        Portal           `json:"portal"`
}

// EncodePosition converts a Position to its wire form. Empty squares are
// omitted from Board entirely, rather than sent as an empty Piece.
func EncodePosition(pos *board.Position) Position {
	out := Position{
		Board:         map[string]Piece{},
		SideToMove:    pos.SideToMove.String(),
		MoveNumber:    pos.MoveNumber,
		Castling:      pos.Castling.String(),
		HalfmoveClock: pos.HalfmoveClock,
		Portal:        EncodePortal(pos.Portal),
	}
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		p := pos.At(sq)
		if p.IsEmpty() {
			continue
		}
		out.Board[EncodeSquare(sq)] = Piece{
			Kind:     strings.ToUpper(p.Kind.String()),
			Color:    p.Color.String(),
			HasMoved: p.HasMoved,
		}
	}
	return out
}

// Clocks is the wire form of a room's per-color remaining time, in
// milliseconds.
type Clocks struct {
	White int64 `json:"w"`
	Black int64 `json:"b"`
}

// Error codes surfaced to clients via acknowledgements. Each corresponds
// to exactly one contract violation and never terminates the connection.
const (
	ErrMissingRoomID  = "missing-room-id"
	ErrNotFound       = "not-found"
	ErrRoomLocked     = "room-locked"
	ErrInvalidPayload = "invalid-payload"
	ErrNotReady       = "not-ready"
	ErrGameOver       = "game-over"
	ErrIllegalMove    = "illegal-move"
	ErrServerError    = "server-error"
)

// Result codes for gameEnd.result.
const (
	ResultCheckmate = "checkmate"
	ResultStalemate = "stalemate"
	ResultTimeout   = "timeout"
)

// EncodeWinner renders a board.Color as gameEnd's long-form winner string.
func EncodeWinner(c board.Color) string {
	if c == board.White {
		return "white"
	}
	return "black"
}

// CreateRoomRequest is the createRoom event payload.
type CreateRoomRequest struct {
	TimeMinutes *int `json:"timeMinutes,omitempty"`
}

// CreateRoomAck is createRoom's acknowledgement.
type CreateRoomAck struct {
	RoomID string `json:"roomId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// JoinRoomRequest is the joinRoom event payload; clients may send either a
// bare string or {roomId}, so RoomID is populated by the transport layer
// after inspecting the raw payload shape.
type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

// JoinRoomAck is joinRoom's acknowledgement.
type JoinRoomAck struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// MakeMoveRequest is the makeMove event payload.
type MakeMoveRequest struct {
	RoomID   string       `json:"roomId"`
	Resolved ResolvedMove `json:"resolved"`
}

// MakeMoveAck is makeMove's acknowledgement.
type MakeMoveAck struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

// GameStart is sent individually to each of the two players once a room
// locks, with their assigned color.
type GameStart struct {
	RoomID string   `json:"roomId"`
	Color  string   `json:"color"`
	State  Position `json:"state"`
	Clocks Clocks   `json:"clocks"`
}

// PlayerJoined is sent to the participant already waiting in the room (the
// host, in a fresh room) when a second player joins.
type PlayerJoined struct {
	SocketID string `json:"socketId"`
}

// MoveMade is broadcast to both players after a move is applied.
type MoveMade struct {
	Resolved ResolvedMove `json:"resolved"`
	State    Position     `json:"state"`
	Clocks   Clocks       `json:"clocks"`
}

// ClockSnapshot is the periodic tick broadcast, plus the extra one emitted
// on each applied move.
type ClockSnapshot struct {
	Clocks Clocks `json:"clocks"`
	Turn   string `json:"turn"`
	Ts     int64  `json:"ts"`
}

// GameEnd is broadcast once, the first time a room becomes Terminal.
type GameEnd struct {
	Result string `json:"result"`
	Winner string `json:"winner,omitempty"`
}

// PlayerLeft is broadcast when a participant disconnects.
type PlayerLeft struct {
	SocketID string `json:"socketId"`
}
