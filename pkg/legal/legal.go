// Package legal filters pseudo-legal moves down to legal ones and answers
// whether a side is in check. InCheck is deliberately distinct from
// pkg/attack's oracle: it is permitted to run the full generator and
// expander (and is only ever used for final legality, never inside
// castling's path checks, where that would recurse).
package legal

import (
	"github.com/agorski/portalchess/pkg/apply"
	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/expand"
	"github.com/agorski/portalchess/pkg/movegen"
)

// InCheck reports whether color's king is presently attacked, defined as:
// the king is absent (false), or some opponent ResolvedMove's toFinal
// equals the king's square.
func InCheck(pos *board.Position, color board.Color) bool {
	kingSq, ok := pos.KingSquare(color)
	if !ok {
		return false
	}
	opp := color.Opponent()

	// movegen.Generate only generates moves for pos.SideToMove; when the
	// side under scrutiny's opponent isn't already on the move (InCheck is
	// also used to test the live, not-yet-moved position for checkmate),
	// generate against a side-flipped clone instead of mutating pos.
	genPos := pos
	if pos.SideToMove != opp {
		genPos = pos.Clone()
		genPos.SideToMove = opp
	}

	for from := board.ZeroSquare; from < board.NumSquares; from++ {
		piece := genPos.At(from)
		if piece.IsEmpty() || piece.Color != opp {
			continue
		}
		for _, base := range movegen.Generate(genPos, from) {
			for _, resolved := range expand.Expand(genPos, base) {
				if resolved.ToFinal == kingSq {
					return true
				}
			}
		}
	}
	return false
}

// LegalMoves returns every ResolvedMove the side to move may legally play
// from any square: the full candidate set from the generator and expander,
// filtered to those that do not leave that side's own king in check.
func LegalMoves(pos *board.Position) []board.ResolvedMove {
	var out []board.ResolvedMove
	mover := pos.SideToMove
	for from := board.ZeroSquare; from < board.NumSquares; from++ {
		piece := pos.At(from)
		if piece.IsEmpty() || piece.Color != mover {
			continue
		}
		for _, base := range movegen.Generate(pos, from) {
			for _, resolved := range expand.Expand(pos, base) {
				if isLegal(pos, resolved, mover) {
					out = append(out, resolved)
				}
			}
		}
	}
	return out
}

// LegalMovesFrom returns the legal ResolvedMoves originating at from, for
// callers (pkg/room) that already know the mover's intended origin square.
func LegalMovesFrom(pos *board.Position, from board.Square) []board.ResolvedMove {
	piece := pos.At(from)
	if piece.IsEmpty() || piece.Color != pos.SideToMove {
		return nil
	}
	mover := pos.SideToMove
	var out []board.ResolvedMove
	for _, base := range movegen.Generate(pos, from) {
		for _, resolved := range expand.Expand(pos, base) {
			if isLegal(pos, resolved, mover) {
				out = append(out, resolved)
			}
		}
	}
	return out
}

func isLegal(pos *board.Position, m board.ResolvedMove, mover board.Color) bool {
	trial := apply.Apply(pos, m)
	return !InCheck(trial, mover)
}
