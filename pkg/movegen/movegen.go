// Package movegen generates, for a given Position and origin square, every
// BaseMove the piece standing there could make before check-legality
// filtering.
//
// Grounded on morlock/pkg/board/position.go's per-piece move generation
// (the same split into pawn/knight/slider/king cases), adapted from
// morlock's bitboard shifts to direct file/rank stepping over the mailbox
// grid, and extended with the portal-activation case morlock has no
// analogue for.
package movegen

import (
	"github.com/agorski/portalchess/pkg/attack"
	"github.com/agorski/portalchess/pkg/board"
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

var promotionKinds = [4]board.PieceKind{board.Queen, board.Rook, board.Bishop, board.Knight}

// Generate returns every pseudo-legal BaseMove for the piece standing at
// from. An empty square, or a square not occupied by the side to move,
// yields no moves.
func Generate(pos *board.Position, from board.Square) []board.BaseMove {
	piece := pos.At(from)
	if piece.IsEmpty() || piece.Color != pos.SideToMove {
		return nil
	}

	var moves []board.BaseMove
	switch piece.Kind {
	case board.Pawn:
		moves = append(moves, pawnMoves(pos, from, piece)...)
	case board.Knight:
		moves = append(moves, steppingMoves(pos, from, piece, knightOffsets)...)
	case board.Bishop:
		moves = append(moves, slidingMoves(pos, from, piece, bishopDirs)...)
	case board.Rook:
		moves = append(moves, slidingMoves(pos, from, piece, rookDirs)...)
	case board.Queen:
		moves = append(moves, slidingMoves(pos, from, piece, bishopDirs)...)
		moves = append(moves, slidingMoves(pos, from, piece, rookDirs)...)
	case board.King:
		moves = append(moves, steppingMoves(pos, from, piece, kingOffsets)...)
		moves = append(moves, castlingMoves(pos, from, piece)...)
	}

	moves = append(moves, portalActivationMoves(pos, from, piece)...)
	return moves
}

func pawnMoves(pos *board.Position, from board.Square, piece board.Piece) []board.BaseMove {
	var out []board.BaseMove
	dr, startRank, finalRank := 1, board.Rank2, board.Rank8
	if piece.Color == board.Black {
		dr, startRank, finalRank = -1, board.Rank7, board.Rank1
	}

	if one, ok := step(from, 0, dr); ok && pos.At(one).IsEmpty() {
		out = append(out, pawnDestination(from, one, finalRank)...)
		if from.Rank() == startRank {
			if two, ok := step(from, 0, 2*dr); ok && pos.At(two).IsEmpty() {
				out = append(out, board.BaseMove{From: from, To: two, Kind: board.MoveNormal})
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := step(from, df, dr)
		if !ok {
			continue
		}
		target := pos.At(to)
		if target.IsEmpty() || target.Color == piece.Color {
			continue
		}
		out = append(out, pawnCapture(from, to, finalRank)...)
	}
	return out
}

func pawnDestination(from, to board.Square, finalRank board.Rank) []board.BaseMove {
	if to.Rank() != finalRank {
		return []board.BaseMove{{From: from, To: to, Kind: board.MoveNormal}}
	}
	return promotions(from, to)
}

func pawnCapture(from, to board.Square, finalRank board.Rank) []board.BaseMove {
	if to.Rank() != finalRank {
		return []board.BaseMove{{From: from, To: to, Kind: board.MoveCapture}}
	}
	return promotions(from, to)
}

func promotions(from, to board.Square) []board.BaseMove {
	out := make([]board.BaseMove, 0, len(promotionKinds))
	for _, k := range promotionKinds {
		out = append(out, board.BaseMove{From: from, To: to, Kind: board.MovePromotion, Promo: k})
	}
	return out
}

func steppingMoves(pos *board.Position, from board.Square, piece board.Piece, offsets [8][2]int) []board.BaseMove {
	var out []board.BaseMove
	for _, o := range offsets {
		to, ok := step(from, o[0], o[1])
		if !ok {
			continue
		}
		target := pos.At(to)
		switch {
		case target.IsEmpty():
			out = append(out, board.BaseMove{From: from, To: to, Kind: board.MoveNormal})
		case target.Color != piece.Color:
			out = append(out, board.BaseMove{From: from, To: to, Kind: board.MoveCapture})
		}
	}
	return out
}

func slidingMoves(pos *board.Position, from board.Square, piece board.Piece, dirs [4][2]int) []board.BaseMove {
	var out []board.BaseMove
	for _, d := range dirs {
		cur := from
		for {
			to, ok := step(cur, d[0], d[1])
			if !ok {
				break
			}
			target := pos.At(to)
			if target.IsEmpty() {
				out = append(out, board.BaseMove{From: from, To: to, Kind: board.MoveNormal})
				cur = to
				continue
			}
			if target.Color != piece.Color {
				out = append(out, board.BaseMove{From: from, To: to, Kind: board.MoveCapture})
			}
			break
		}
	}
	return out
}

// castlingMoves generates the (at most two) castling BaseMoves for the king
// at from: king and rook both unmoved, the relevant right still held, the
// squares between empty, and the king neither starting, passing through,
// nor landing on an attacked square.
func castlingMoves(pos *board.Position, from board.Square, king board.Piece) []board.BaseMove {
	if king.HasMoved {
		return nil
	}
	opp := king.Color.Opponent()
	if attack.IsAttacked(pos, from, opp) {
		return nil
	}

	var out []board.BaseMove
	for _, side := range [2]board.CastleSide{board.KingSide, board.QueenSide} {
		if !pos.Castling.Has(board.RightsFor(king.Color, side)) {
			continue
		}
		rank := board.Rank1
		if king.Color == board.Black {
			rank = board.Rank8
		}
		rookFile := board.FileH
		if side == board.QueenSide {
			rookFile = board.FileA
		}
		rookSq := board.NewSquare(rookFile, rank)
		rook := pos.At(rookSq)
		if rook.Kind != board.Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}

		dir := 1
		if side == board.QueenSide {
			dir = -1
		}
		betweenClear := true
		passSquares := castleSquares(from, dir)
		for _, sq := range passSquares {
			if sq == rookSq {
				continue
			}
			if !pos.At(sq).IsEmpty() {
				betweenClear = false
				break
			}
		}
		if !betweenClear {
			continue
		}

		kingTo := passSquares[1] // king always moves two squares
		if attack.IsAttacked(pos, passSquares[0], opp) || attack.IsAttacked(pos, kingTo, opp) {
			continue
		}
		out = append(out, board.BaseMove{From: from, To: kingTo, Kind: board.MoveCastle, CastleSide: side})
	}
	return out
}

// castleSquares returns the squares between and including the king's
// one-step and two-step destinations toward a rook on queenside (step=-1,
// three squares traversed by queenside castling, the third for the rook's
// path only) or kingside (step=1, two squares).
func castleSquares(from board.Square, step int) []board.Square {
	if step > 0 {
		return []board.Square{
			board.NewSquare(from.File()+1, from.Rank()),
			board.NewSquare(from.File()+2, from.Rank()),
		}
	}
	return []board.Square{
		board.NewSquare(from.File()-1, from.Rank()),
		board.NewSquare(from.File()-2, from.Rank()),
		board.NewSquare(from.File()-3, from.Rank()),
	}
}

func portalActivationMoves(pos *board.Position, from board.Square, piece board.Piece) []board.BaseMove {
	_, dests := pos.EligiblePortalDestinations(from, piece.Color)
	out := make([]board.BaseMove, 0, len(dests))
	for _, dest := range dests {
		out = append(out, board.BaseMove{From: from, To: dest, Kind: board.MovePortalActivation})
	}
	return out
}
