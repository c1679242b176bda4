// Package apply takes a Position and an already-resolved ResolvedMove and
// produces the successor Position. Apply never re-derives legality or
// portal outcomes; callers
// (pkg/legal for check-legality trials, pkg/engine for the real move) are
// responsible for only ever calling it with a move pkg/movegen and
// pkg/expand actually produced.
//
// Grounded on morlock/pkg/board.go's MakeMove, adapted from its
// Zobrist-keyed node-linked history to the copy-on-write Position defined
// in pkg/board.
package apply

import "github.com/agorski/portalchess/pkg/board"

// Apply returns the Position resulting from playing m in pos. pos is never
// mutated; every query below reads the untouched pos, and only next (a
// clone) is written to.
func Apply(pos *board.Position, m board.ResolvedMove) *board.Position {
	next := pos.Clone()
	next.EnPassantTarget = 0
	next.HasEnPassant = false

	mover := pos.At(m.From)
	captured := capturedPiece(pos, m)

	switch m.Kind {
	case board.MoveCastle:
		applyCastle(next, m, mover)
	case board.MovePromotion:
		applyPromotion(next, m, mover)
	default:
		applyRelocate(next, m, mover)
	}

	updateCastlingRights(next, m, mover, captured)
	updateCooldownsAndNoReturn(next, pos.SideToMove, m, mover)

	if mover.Kind == board.Pawn || captured != nil {
		next.HalfmoveClock = 0
	} else {
		next.HalfmoveClock++
	}

	next.History = pos.AppendHistory(m)
	next.SideToMove = pos.SideToMove.Opponent()
	if next.SideToMove == board.White {
		next.MoveNumber++
	}

	promotePendingNoReturn(next)

	return next
}

// capturedPiece returns the piece actually removed from the board by m, or
// nil if nothing was captured (a swap relocates rather than removes, and
// STAY/portal-activation never capture).
func capturedPiece(pos *board.Position, m board.ResolvedMove) *board.Piece {
	switch m.Kind {
	case board.MoveCapture:
		p := pos.At(m.ToFinal)
		return &p
	case board.MovePromotion:
		if p := pos.At(m.ToFinal); !p.IsEmpty() {
			return &p
		}
	}
	return nil
}

func applyRelocate(next *board.Position, m board.ResolvedMove, mover board.Piece) {
	next.Grid[m.From] = board.Piece{}

	if m.ViaPortal != nil && m.ViaPortal.Swapped {
		// A swap outcome: the piece occupying the destination trades places
		// with the mover instead of being captured.
		displaced := next.Grid[m.ToFinal]
		displaced.HasMoved = true
		next.Grid[m.ViaPortal.Entry] = displaced
	}

	mover.HasMoved = true
	next.Grid[m.ToFinal] = mover
}

func applyPromotion(next *board.Position, m board.ResolvedMove, pawn board.Piece) {
	next.Grid[m.From] = board.Piece{}
	next.Grid[m.ToFinal] = board.Piece{Kind: m.Promo, Color: pawn.Color, HasMoved: true}
}

func applyCastle(next *board.Position, m board.ResolvedMove, king board.Piece) {
	rank := board.Rank1
	if king.Color == board.Black {
		rank = board.Rank8
	}
	rookFrom, rookTo := board.FileH, board.FileF
	if m.CastleSide == board.QueenSide {
		rookFrom, rookTo = board.FileA, board.FileD
	}
	rookFromSq := board.NewSquare(rookFrom, rank)
	rookToSq := board.NewSquare(rookTo, rank)

	rook := next.Grid[rookFromSq]
	rook.HasMoved = true
	next.Grid[rookFromSq] = board.Piece{}
	next.Grid[rookToSq] = rook

	king.HasMoved = true
	next.Grid[m.From] = board.Piece{}
	next.Grid[m.ToFinal] = king
}

func updateCastlingRights(next *board.Position, m board.ResolvedMove, mover board.Piece, captured *board.Piece) {
	if m.Kind == board.MoveCastle {
		next.Castling = next.Castling.Clear(board.BothRightsFor(mover.Color))
		return
	}
	if mover.Kind == board.King {
		next.Castling = next.Castling.Clear(board.BothRightsFor(mover.Color))
	}
	if mover.Kind == board.Rook {
		next.Castling = next.Castling.Clear(rightsForRookSquare(m.From, mover.Color))
	}
	if captured != nil && captured.Kind == board.Rook {
		next.Castling = next.Castling.Clear(rightsForRookSquare(m.ToFinal, captured.Color))
	}
}

func rightsForRookSquare(sq board.Square, c board.Color) board.CastleRights {
	homeRank := board.Rank1
	if c == board.Black {
		homeRank = board.Rank8
	}
	if sq.Rank() != homeRank {
		return 0
	}
	switch sq.File() {
	case board.FileA:
		return board.RightsFor(c, board.QueenSide)
	case board.FileH:
		return board.RightsFor(c, board.KingSide)
	default:
		return 0
	}
}

// updateCooldownsAndNoReturn performs the cooldown and no-return
// bookkeeping in order: record the victim's neutral cooldown and the
// mover's pending no-return entry first, then clear both of the mover's
// own one-turn restrictions (consumed by moving at all, regardless of
// what the move was).
func updateCooldownsAndNoReturn(next *board.Position, moverColor board.Color, m board.ResolvedMove, mover board.Piece) {
	if m.ViaPortal != nil && !m.ViaPortal.IsStay() {
		if m.ViaPortal.Network == board.PortalNeutral && m.ViaPortal.Swapped {
			next.NeutralCooldown[moverColor.Opponent()] = true
		}
		if m.ViaPortal.Network == board.PortalExclusive {
			next.PendingNoReturn[moverColor] = next.PendingNoReturn[moverColor].With(m.ToFinal, m.ViaPortal.Entry)
		}
	}

	next.NeutralCooldown[moverColor] = false
	next.PersonalNoReturn[moverColor] = nil
}

// promotePendingNoReturn is the last step: the side now to move inherits
// whatever no-return entries it scheduled for itself on its own previous
// turn.
func promotePendingNoReturn(next *board.Position) {
	side := next.SideToMove
	if len(next.PendingNoReturn[side]) == 0 {
		return
	}
	next.PersonalNoReturn[side] = next.PendingNoReturn[side]
	next.PendingNoReturn[side] = nil
}
