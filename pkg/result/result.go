// Package result evaluates whether a position is checkmate, stalemate, or
// still ongoing.
package result

import (
	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/legal"
)

// Outcome classifies a position's game-terminal state.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Result is the evaluator's verdict: an Outcome plus, for checkmate, the
// winning color.
type Result struct {
	Outcome   Outcome
	Winner    board.Color
	HasWinner bool
}

// Evaluate enumerates every legal move for the side to move; if none
// exist, the side is either checkmated (if in check) or stalemated.
func Evaluate(pos *board.Position) Result {
	if len(legal.LegalMoves(pos)) > 0 {
		return Result{Outcome: Ongoing}
	}
	if legal.InCheck(pos, pos.SideToMove) {
		return Result{Outcome: Checkmate, Winner: pos.SideToMove.Opponent(), HasWinner: true}
	}
	return Result{Outcome: Stalemate}
}
