package apply_test

import (
	"testing"

	"github.com/agorski/portalchess/pkg/apply"
	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/portal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyPosition() *board.Position {
	return &board.Position{SideToMove: board.White, MoveNumber: 1, Castling: board.FullCastleRights, Portal: portal.Reference()}
}

func TestApply_DoesNotMutateOriginal(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E2] = board.Piece{Kind: board.Pawn, Color: board.White}

	next := apply.Apply(pos, board.ResolvedMove{BaseMove: board.BaseMove{From: board.E2, To: board.E4, Kind: board.MoveNormal}, ToFinal: board.E4})

	assert.False(t, pos.Grid[board.E2].IsEmpty(), "original position must be untouched")
	assert.True(t, pos.Grid[board.E4].IsEmpty())
	assert.True(t, next.Grid[board.E2].IsEmpty())
	assert.Equal(t, board.Pawn, next.Grid[board.E4].Kind)
}

func TestApply_SideToMoveFlipsAndMoveNumberIncrementsAfterBlack(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E2] = board.Piece{Kind: board.Pawn, Color: board.White}

	next := apply.Apply(pos, board.ResolvedMove{BaseMove: board.BaseMove{From: board.E2, To: board.E4, Kind: board.MoveNormal}, ToFinal: board.E4})
	assert.Equal(t, board.Black, next.SideToMove)
	assert.Equal(t, 1, next.MoveNumber)

	next.Grid[board.E7] = board.Piece{Kind: board.Pawn, Color: board.Black}
	after := apply.Apply(next, board.ResolvedMove{BaseMove: board.BaseMove{From: board.E7, To: board.E5, Kind: board.MoveNormal}, ToFinal: board.E5})
	assert.Equal(t, board.White, after.SideToMove)
	assert.Equal(t, 2, after.MoveNumber)
}

func TestApply_HalfmoveClockResetsOnPawnMoveOrCapture(t *testing.T) {
	pos := emptyPosition()
	pos.HalfmoveClock = 12
	pos.Grid[board.B1] = board.Piece{Kind: board.Knight, Color: board.White}

	next := apply.Apply(pos, board.ResolvedMove{BaseMove: board.BaseMove{From: board.B1, To: board.C3, Kind: board.MoveNormal}, ToFinal: board.C3})
	assert.Equal(t, 13, next.HalfmoveClock)

	next.Grid[board.E2] = board.Piece{Kind: board.Pawn, Color: board.White}
	pawnPush := apply.Apply(next, board.ResolvedMove{BaseMove: board.BaseMove{From: board.E2, To: board.E4, Kind: board.MoveNormal}, ToFinal: board.E4})
	assert.Equal(t, 0, pawnPush.HalfmoveClock)
}

func TestApply_PortalSwapDisplacesOccupant(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.D5] = board.Piece{Kind: board.Queen, Color: board.White}
	pos.Grid[board.F5] = board.Piece{Kind: board.Pawn, Color: board.Black}

	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.D5, To: board.F5, Kind: board.MovePortalActivation},
		ToFinal:  board.F5,
		ViaPortal: &board.ViaPortal{Entry: board.D5, Network: board.PortalExclusive, Choice: board.F5, Swapped: true},
	}
	next := apply.Apply(pos, m)

	assert.Equal(t, board.Queen, next.Grid[board.F5].Kind)
	assert.Equal(t, board.White, next.Grid[board.F5].Color)
	assert.Equal(t, board.Pawn, next.Grid[board.D5].Kind)
	assert.Equal(t, board.Black, next.Grid[board.D5].Color)
	assert.True(t, next.Grid[board.D5].HasMoved)
}

func TestApply_NeutralSwapSetsCooldownOnOpponentOnly(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.B5] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.Grid[board.G4] = board.Piece{Kind: board.Knight, Color: board.Black}

	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.B5, To: board.G4, Kind: board.MovePortalActivation},
		ToFinal:  board.G4,
		ViaPortal: &board.ViaPortal{Entry: board.B5, Network: board.PortalNeutral, Choice: board.G4, Swapped: true},
	}
	next := apply.Apply(pos, m)

	assert.True(t, next.NeutralCooldown[board.Black])
	assert.False(t, next.NeutralCooldown[board.White])
}

func TestApply_PersonalNoReturnPromotesAfterOpponentIntervenes(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.D5] = board.Piece{Kind: board.Queen, Color: board.White}
	pos.Grid[board.A8] = board.Piece{Kind: board.King, Color: board.Black}
	pos.Grid[board.E1] = board.Piece{Kind: board.King, Color: board.White}

	// White teleports D5 -> F5 (exclusive network).
	white1 := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.D5, To: board.F5, Kind: board.MovePortalActivation},
		ToFinal:  board.F5,
		ViaPortal: &board.ViaPortal{Entry: board.D5, Network: board.PortalExclusive, Choice: board.F5},
	}
	afterWhite := apply.Apply(pos, white1)
	// Not yet active for White (White has not moved again since setting it).
	assert.Empty(t, afterWhite.PersonalNoReturn[board.White])
	require.NotEmpty(t, afterWhite.PendingNoReturn[board.White])

	// Black makes any move; this is what promotes White's pending entry.
	black1 := board.ResolvedMove{BaseMove: board.BaseMove{From: board.A8, To: board.A7, Kind: board.MoveNormal}, ToFinal: board.A7}
	afterBlack := apply.Apply(afterWhite, black1)

	require.NotEmpty(t, afterBlack.PersonalNoReturn[board.White])
	assert.True(t, afterBlack.PersonalNoReturn[board.White].Forbids(board.F5, board.D5))
	assert.Empty(t, afterBlack.PendingNoReturn[board.White])
}

func TestApply_CastlingMovesRookAndKing(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E1] = board.Piece{Kind: board.King, Color: board.White}
	pos.Grid[board.H1] = board.Piece{Kind: board.Rook, Color: board.White}

	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.E1, To: board.G1, Kind: board.MoveCastle, CastleSide: board.KingSide},
		ToFinal:  board.G1,
	}
	next := apply.Apply(pos, m)

	assert.Equal(t, board.King, next.Grid[board.G1].Kind)
	assert.Equal(t, board.Rook, next.Grid[board.F1].Kind)
	assert.True(t, next.Grid[board.E1].IsEmpty())
	assert.True(t, next.Grid[board.H1].IsEmpty())
	assert.False(t, next.Castling.Has(board.WhiteKingSide))
	assert.False(t, next.Castling.Has(board.WhiteQueenSide))
}

func TestApply_RookCaptureClearsVictimsCastlingRight(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.H8] = board.Piece{Kind: board.Rook, Color: board.Black}
	pos.Grid[board.H1] = board.Piece{Kind: board.Rook, Color: board.White}

	m := board.ResolvedMove{BaseMove: board.BaseMove{From: board.H1, To: board.H8, Kind: board.MoveCapture}, ToFinal: board.H8}
	next := apply.Apply(pos, m)

	assert.False(t, next.Castling.Has(board.BlackKingSide))
}

func TestApply_Promotion(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E7] = board.Piece{Kind: board.Pawn, Color: board.White}

	m := board.ResolvedMove{BaseMove: board.BaseMove{From: board.E7, To: board.E8, Kind: board.MovePromotion, Promo: board.Queen}, ToFinal: board.E8}
	next := apply.Apply(pos, m)

	assert.Equal(t, board.Queen, next.Grid[board.E8].Kind)
	assert.True(t, next.Grid[board.E7].IsEmpty())
}
