package attack_test

import (
	"testing"

	"github.com/agorski/portalchess/pkg/attack"
	"github.com/agorski/portalchess/pkg/board"
	"github.com/stretchr/testify/assert"
)

func emptyPosition() *board.Position {
	return &board.Position{
		SideToMove: board.White,
		Portal: &board.PortalConfig{
			WhiteExclusive: []board.Square{board.D5, board.F5, board.E3, board.B3},
			BlackExclusive: []board.Square{board.C4, board.E4, board.D6, board.G6},
			NeutralPairs:   [][2]board.Square{{board.B5, board.G4}},
		},
	}
}

func TestIsAttacked_RookSlide(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.A1] = board.Piece{Kind: board.Rook, Color: board.White}

	assert.True(t, attack.IsAttacked(pos, board.A8, board.White))
	assert.False(t, attack.IsAttacked(pos, board.B8, board.White))
}

func TestIsAttacked_BlockedSlide(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.A1] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.Grid[board.A4] = board.Piece{Kind: board.Pawn, Color: board.Black}

	assert.True(t, attack.IsAttacked(pos, board.A4, board.White))
	assert.False(t, attack.IsAttacked(pos, board.A5, board.White))
}

func TestIsAttacked_PawnDiagonal(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.E4] = board.Piece{Kind: board.Pawn, Color: board.White}

	assert.True(t, attack.IsAttacked(pos, board.D5, board.White))
	assert.True(t, attack.IsAttacked(pos, board.F5, board.White))
	assert.False(t, attack.IsAttacked(pos, board.E5, board.White))
}

func TestIsAttacked_KnightL(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.B1] = board.Piece{Kind: board.Knight, Color: board.White}

	assert.True(t, attack.IsAttacked(pos, board.D2, board.White))
	assert.True(t, attack.IsAttacked(pos, board.A3, board.White))
	assert.False(t, attack.IsAttacked(pos, board.B3, board.White))
}

func TestIsAttacked_KingExcludedFromPortalScan(t *testing.T) {
	pos := emptyPosition()
	// A king standing on an exclusive portal member must not count as a
	// portal-attacker of the other members: the scan excludes kings.
	pos.Grid[board.D5] = board.Piece{Kind: board.King, Color: board.White}

	assert.False(t, attack.IsAttacked(pos, board.F5, board.White))
	assert.False(t, attack.IsAttacked(pos, board.E3, board.White))
	assert.False(t, attack.IsAttacked(pos, board.B3, board.White))
}

func TestIsAttacked_PortalActivationThreatensEntireNetwork(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.D5] = board.Piece{Kind: board.Rook, Color: board.White}

	assert.True(t, attack.IsAttacked(pos, board.F5, board.White))
	assert.True(t, attack.IsAttacked(pos, board.E3, board.White))
	assert.True(t, attack.IsAttacked(pos, board.B3, board.White))
}

func TestIsAttacked_PortalReachByOrdinaryMove(t *testing.T) {
	pos := emptyPosition()
	// Rook at D1 can slide (empty squares) up the D file to D5, a white
	// exclusive portal member, and branch from there.
	pos.Grid[board.D1] = board.Piece{Kind: board.Rook, Color: board.White}

	assert.True(t, attack.IsAttacked(pos, board.F5, board.White))
	assert.True(t, attack.IsAttacked(pos, board.E3, board.White))
}

func TestIsAttacked_NeutralCooldownBlocksPortalThreat(t *testing.T) {
	pos := emptyPosition()
	pos.Grid[board.B5] = board.Piece{Kind: board.Rook, Color: board.White}
	pos.NeutralCooldown[board.White] = true

	assert.False(t, attack.IsAttacked(pos, board.G4, board.White))
}
