// Package attack answers whether a square is attacked by a given color,
// combining a direct geometric test with a portal scan.
//
// The direct geometry here is deliberately a second, independent
// implementation from pkg/movegen's move generation, not a thin wrapper
// around it: the oracle is called from inside castling-legality checks,
// and a generator that itself calls the oracle for castling would recurse.
// morlock's board.go used the same non-recursive discipline for its
// magic-bitboard IsAttacked (sliding attacks computed straight off the
// occupancy bitboard, never by asking the move generator "can X reach Y").
package attack

import (
	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/expand"
)

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func step(sq board.Square, df, dr int) (board.Square, bool) {
	f := int(sq.File()) + df
	r := int(sq.Rank()) + dr
	if f < 0 || f > int(board.NumFiles)-1 || r < 0 || r > int(board.NumRanks)-1 {
		return 0, false
	}
	return board.NewSquare(board.File(f), board.Rank(r)), true
}

// IsAttacked reports whether sq is attacked by a piece of color by in pos,
// combining the direct geometric test with the portal scan.
func IsAttacked(pos *board.Position, sq board.Square, by board.Color) bool {
	if isDirectlyAttacked(pos, sq, by) {
		return true
	}
	return isPortalAttacked(pos, sq, by)
}

func isDirectlyAttacked(pos *board.Position, sq board.Square, by board.Color) bool {
	if pawnAttacks(pos, sq, by) {
		return true
	}
	for _, o := range knightOffsets {
		if s, ok := step(sq, o[0], o[1]); ok {
			if p := pos.At(s); p.Kind == board.Knight && p.Color == by {
				return true
			}
		}
	}
	for _, o := range kingOffsets {
		if s, ok := step(sq, o[0], o[1]); ok {
			if p := pos.At(s); p.Kind == board.King && p.Color == by {
				return true
			}
		}
	}
	if slides(pos, sq, by, bishopDirs, board.Bishop) {
		return true
	}
	if slides(pos, sq, by, rookDirs, board.Rook) {
		return true
	}
	return false
}

func pawnAttacks(pos *board.Position, sq board.Square, by board.Color) bool {
	// A pawn captures diagonally one rank toward the opponent, so to find
	// attackers of sq we look one rank back (from by's point of view).
	dr := -1
	if by == board.Black {
		dr = 1
	}
	for _, df := range [2]int{-1, 1} {
		if s, ok := step(sq, df, dr); ok {
			if p := pos.At(s); p.Kind == board.Pawn && p.Color == by {
				return true
			}
		}
	}
	return false
}

func slides(pos *board.Position, sq board.Square, by board.Color, dirs [4][2]int, kind board.PieceKind) bool {
	for _, d := range dirs {
		cur := sq
		for {
			s, ok := step(cur, d[0], d[1])
			if !ok {
				break
			}
			p := pos.At(s)
			if p.IsEmpty() {
				cur = s
				continue
			}
			if p.Color == by && (p.Kind == kind || p.Kind == board.Queen) {
				return true
			}
			break
		}
	}
	return false
}

// isPortalAttacked runs the portal scan: every non-king piece of color by
// is checked two ways — (1) if it already
// stands on a portal it may use, could any activation land on sq; (2) for
// every portal square it could reach by an ordinary (non-capture) move,
// would branching from there land on sq.
func isPortalAttacked(pos *board.Position, sq board.Square, by board.Color) bool {
	if pos.Portal == nil {
		return false
	}
	allPortals := pos.Portal.AllSquares()

	for from := board.ZeroSquare; from < board.NumSquares; from++ {
		piece := pos.At(from)
		if piece.IsEmpty() || piece.Color != by || piece.Kind == board.King {
			continue
		}

		if _, dests := pos.EligiblePortalDestinations(from, by); len(dests) > 0 {
			for _, dest := range dests {
				base := board.BaseMove{From: from, To: dest, Kind: board.MovePortalActivation}
				if anyLandsOn(pos, base, sq) {
					return true
				}
			}
		}

		for _, portalSq := range allPortals {
			if portalSq == from || !pos.At(portalSq).IsEmpty() {
				continue
			}
			if !canReachEmpty(pos, from, piece, portalSq) {
				continue
			}
			base := board.BaseMove{From: from, To: portalSq, Kind: board.MoveNormal}
			if anyLandsOn(pos, base, sq) {
				return true
			}
		}
	}
	return false
}

func anyLandsOn(pos *board.Position, base board.BaseMove, sq board.Square) bool {
	for _, out := range expand.Expand(pos, base) {
		if out.ToFinal == sq {
			return true
		}
	}
	return false
}

// canReachEmpty reports whether piece, standing at from, could move to the
// empty square to in one ordinary (non-capture) move — the same geometry
// as pkg/movegen's move generation, reimplemented here to keep the oracle
// free of any call back into the generator.
func canReachEmpty(pos *board.Position, from board.Square, piece board.Piece, to board.Square) bool {
	switch piece.Kind {
	case board.Pawn:
		return pawnCanReachEmpty(pos, from, piece, to)
	case board.Knight:
		for _, o := range knightOffsets {
			if s, ok := step(from, o[0], o[1]); ok && s == to {
				return true
			}
		}
		return false
	case board.King:
		for _, o := range kingOffsets {
			if s, ok := step(from, o[0], o[1]); ok && s == to {
				return true
			}
		}
		return false
	case board.Bishop:
		return slideReaches(from, to, bishopDirs, pos)
	case board.Rook:
		return slideReaches(from, to, rookDirs, pos)
	case board.Queen:
		return slideReaches(from, to, bishopDirs, pos) || slideReaches(from, to, rookDirs, pos)
	default:
		return false
	}
}

func pawnCanReachEmpty(pos *board.Position, from board.Square, piece board.Piece, to board.Square) bool {
	dr := 1
	startRank := board.Rank2
	if piece.Color == board.Black {
		dr = -1
		startRank = board.Rank7
	}
	one, ok := step(from, 0, dr)
	if !ok || !pos.At(one).IsEmpty() {
		return false
	}
	if one == to {
		return true
	}
	if from.Rank() != startRank {
		return false
	}
	two, ok := step(from, 0, 2*dr)
	return ok && two == to && pos.At(two).IsEmpty()
}

func slideReaches(from, to board.Square, dirs [4][2]int, pos *board.Position) bool {
	for _, d := range dirs {
		cur := from
		for {
			s, ok := step(cur, d[0], d[1])
			if !ok || !pos.At(s).IsEmpty() {
				break
			}
			if s == to {
				return true
			}
			cur = s
		}
	}
	return false
}
