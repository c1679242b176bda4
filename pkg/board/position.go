package board

import (
	"fmt"
	"strings"
)

// Position is the immutable-style value holding the board, side-to-move,
// move number, castling rights, portal configuration,
// cooldown flags, personal-no-return maps and move history. It is never
// mutated in place — pkg/apply produces a new Position from an old one and
// a ResolvedMove, and every field here is either a value type (cheap to
// copy via Go's ordinary struct assignment) or treated as copy-on-write
// (NoReturnMap, History).
type Position struct {
	Grid       [NumSquares]Piece
	SideToMove Color
	MoveNumber int // fullmove number; starts at 1, increments after Black moves

	Castling CastleRights
	Portal   *PortalConfig // shared, read-only for the lifetime of a game

	NeutralCooldown  [NumColors]bool
	PersonalNoReturn [NumColors]NoReturnMap
	PendingNoReturn  [NumColors]NoReturnMap

	// EnPassantTarget is reserved for forward compatibility: this
	// implementation never sets it, since en passant is not generated.
	EnPassantTarget Square
	HasEnPassant    bool

	HalfmoveClock int // reset on pawn move or capture; not used for draw claims

	// History is append-only. Appending always copies into a fresh backing
	// array (see AppendHistory) rather than relying on slice append's
	// in-place growth, because the check-legality filter derives many
	// sibling Positions from the same parent history — plain append would
	// let siblings clobber each other's backing array at the same index.
	History []ResolvedMove
}

// InitialPosition returns the standard starting position with the given
// portal configuration and full castling rights.
func InitialPosition(cfg *PortalConfig) *Position {
	p := &Position{
		SideToMove: White,
		MoveNumber: 1,
		Castling:   FullCastleRights,
		Portal:     cfg,
	}

	backRank := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := ZeroFile; f < NumFiles; f++ {
		p.Grid[NewSquare(f, Rank1)] = Piece{Kind: backRank[f], Color: White}
		p.Grid[NewSquare(f, Rank2)] = Piece{Kind: Pawn, Color: White}
		p.Grid[NewSquare(f, Rank7)] = Piece{Kind: Pawn, Color: Black}
		p.Grid[NewSquare(f, Rank8)] = Piece{Kind: backRank[f], Color: Black}
	}
	return p
}

// At returns the piece occupying sq, or the zero (empty) Piece.
func (p *Position) At(sq Square) Piece {
	return p.Grid[sq]
}

// IsEmpty reports whether sq holds no piece.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Grid[sq].IsEmpty()
}

// KingSquare locates the side's king. ok is false only for a malformed
// Position (every reachable Position has exactly one king per side).
func (p *Position) KingSquare(c Color) (Square, bool) {
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		pc := p.Grid[sq]
		if pc.Kind == King && pc.Color == c {
			return sq, true
		}
	}
	return 0, false
}

// Clone returns a shallow value copy of p. The board grid is a fixed-size
// array so it copies by value automatically; Portal is shared (read-only);
// NoReturnMap fields are left aliased since callers must replace, not
// mutate, them (see NoReturnMap.With).
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}

// AppendHistory returns a new history slice with m appended, never sharing
// backing storage with p.History (see the History field doc).
func (p *Position) AppendHistory(m ResolvedMove) []ResolvedMove {
	out := make([]ResolvedMove, len(p.History)+1)
	copy(out, p.History)
	out[len(p.History)] = m
	return out
}

func (p *Position) String() string {
	var sb strings.Builder
	for r := int(NumRanks) - 1; r >= 0; r-- {
		for f := ZeroFile; f < NumFiles; f++ {
			sb.WriteString(p.Grid[NewSquare(f, Rank(r))].String())
		}
		if r > 0 {
			sb.WriteRune('/')
		}
	}
	return fmt.Sprintf("%v %v %v hm=%v mv=%v", sb.String(), p.SideToMove, p.Castling, p.HalfmoveClock, p.MoveNumber)
}
