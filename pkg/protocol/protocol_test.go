package protocol_test

import (
	"testing"

	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/portal"
	"github.com/agorski/portalchess/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquareCodec_RoundTrip(t *testing.T) {
	sq, err := protocol.DecodeSquare("e4")
	require.NoError(t, err)
	assert.Equal(t, board.E4, sq)
	assert.Equal(t, "E4", protocol.EncodeSquare(sq))
}

func TestResolvedMoveCodec_StayOutcome(t *testing.T) {
	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.D5, To: board.D5, Kind: board.MovePortalActivation},
		ToFinal:  board.D5,
		ViaPortal: &board.ViaPortal{Entry: board.D5, Network: board.PortalExclusive, Choice: board.StaySquare},
	}
	w := protocol.EncodeResolvedMove(m)
	assert.Equal(t, "STAY", w.ViaPortal.Choice)

	back, err := protocol.DecodeResolvedMove(w)
	require.NoError(t, err)
	assert.True(t, back.ViaPortal.IsStay())
}

func TestResolvedMoveCodec_PromotionRoundTrip(t *testing.T) {
	m := board.ResolvedMove{
		BaseMove: board.BaseMove{From: board.E7, To: board.E8, Kind: board.MovePromotion, Promo: board.Queen},
		ToFinal:  board.E8,
	}
	w := protocol.EncodeResolvedMove(m)
	assert.Equal(t, "Q", w.Promo)

	back, err := protocol.DecodeResolvedMove(w)
	require.NoError(t, err)
	assert.Equal(t, board.Queen, back.Promo)
	assert.True(t, back.Equals(m))
}

func TestDecodeResolvedMove_RejectsUnknownKind(t *testing.T) {
	_, err := protocol.DecodeResolvedMove(protocol.ResolvedMove{From: "E2", To: "E4", ToFinal: "E4", Kind: "teleport"})
	assert.Error(t, err)
}

func TestEncodePosition_OmitsEmptySquares(t *testing.T) {
	pos := board.InitialPosition(portal.Reference())
	w := protocol.EncodePosition(pos)

	assert.Len(t, w.Board, 32)
	assert.Equal(t, "P", w.Board["E2"].Kind)
	assert.Equal(t, "w", w.Board["E2"].Color)
	_, hasE4 := w.Board["E4"]
	assert.False(t, hasE4)
}

func TestEncodePortal_MatchesReferenceTopology(t *testing.T) {
	w := protocol.EncodePortal(portal.Reference())
	assert.ElementsMatch(t, []string{"D5", "F5", "E3", "B3"}, w.WhiteExclusive)
	assert.ElementsMatch(t, []string{"C4", "E4", "D6", "G6"}, w.BlackExclusive)
	require.Len(t, w.NeutralPairs, 1)
	assert.Equal(t, [2]string{"B5", "G4"}, w.NeutralPairs[0])
}
