package movegen_test

import (
	"testing"

	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/movegen"
	"github.com/agorski/portalchess/pkg/portal"
	"github.com/stretchr/testify/assert"
)

func emptyPosition() *board.Position {
	return &board.Position{SideToMove: board.White, Castling: board.FullCastleRights, Portal: portal.Reference()}
}

func hasTo(moves []board.BaseMove, to board.Square) bool {
	for _, m := range moves {
		if m.To == to {
			return true
		}
	}
	return false
}

func TestGenerate_WrongSideToMoveYieldsNothing(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E2] = board.Piece{Kind: board.Pawn, Color: board.Black}

	assert.Empty(t, movegen.Generate(pos, board.E2))
}

func TestGenerate_PawnPushAndDoubleJump(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E2] = board.Piece{Kind: board.Pawn, Color: board.White}

	moves := movegen.Generate(pos, board.E2)
	assert.True(t, hasTo(moves, board.E3))
	assert.True(t, hasTo(moves, board.E4))
}

func TestGenerate_PawnPromotionFourWays(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E7] = board.Piece{Kind: board.Pawn, Color: board.White}

	moves := movegen.Generate(pos, board.E7)
	var promos []board.PieceKind
	for _, m := range moves {
		if m.Kind == board.MovePromotion {
			promos = append(promos, m.Promo)
		}
	}
	assert.ElementsMatch(t, []board.PieceKind{board.Queen, board.Rook, board.Bishop, board.Knight}, promos)
}

func TestGenerate_RookSlideBlockedByOwnPiece(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.A1] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.Grid[board.A4] = board.Piece{Kind: board.Pawn, Color: board.White}

	moves := movegen.Generate(pos, board.A1)
	assert.True(t, hasTo(moves, board.A3))
	assert.False(t, hasTo(moves, board.A4))
	assert.False(t, hasTo(moves, board.A5))
}

func TestGenerate_RookCapturesEnemyThenStops(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.A1] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.Grid[board.A4] = board.Piece{Kind: board.Pawn, Color: board.Black}

	moves := movegen.Generate(pos, board.A1)
	assert.True(t, hasTo(moves, board.A4))
	assert.False(t, hasTo(moves, board.A5))
}

func TestGenerate_PortalActivationFromExclusiveMember(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.D5] = board.Piece{Kind: board.Queen, Color: board.White}

	moves := movegen.Generate(pos, board.D5)
	var activations int
	for _, m := range moves {
		if m.Kind == board.MovePortalActivation {
			activations++
		}
	}
	assert.Equal(t, 3, activations) // F5, E3, B3
}

func TestGenerate_CastlingKingSideWhenClear(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E1] = board.Piece{Kind: board.King, Color: board.White}
	pos.Grid[board.H1] = board.Piece{Kind: board.Rook, Color: board.White}

	moves := movegen.Generate(pos, board.E1)
	var sawCastle bool
	for _, m := range moves {
		if m.Kind == board.MoveCastle && m.CastleSide == board.KingSide {
			sawCastle = true
			assert.Equal(t, board.G1, m.To)
		}
	}
	assert.True(t, sawCastle)
}

func TestGenerate_CastlingBlockedWhenPassedSquareAttacked(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E1] = board.Piece{Kind: board.King, Color: board.White}
	pos.Grid[board.H1] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.Grid[board.F8] = board.Piece{Kind: board.Rook, Color: board.Black} // attacks F1

	moves := movegen.Generate(pos, board.E1)
	for _, m := range moves {
		assert.False(t, m.Kind == board.MoveCastle && m.CastleSide == board.KingSide)
	}
}

func TestGenerate_CastlingDeniedAfterKingMoved(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E1] = board.Piece{Kind: board.King, Color: board.White, HasMoved: true}
	pos.Grid[board.H1] = board.Piece{Kind: board.Rook, Color: board.White}

	moves := movegen.Generate(pos, board.E1)
	for _, m := range moves {
		assert.False(t, m.Kind == board.MoveCastle)
	}
}
