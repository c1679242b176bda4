// Package portal constructs the reference portal network topology. The
// data type itself, board.PortalConfig, and the Lookup logic that walks
// it, live in pkg/board
// alongside Position, since Position embeds a *board.PortalConfig directly
// and pkg/board must not import this package.
//
// morlock has no equivalent concept; this package is new.
package portal

import "github.com/agorski/portalchess/pkg/board"

// Reference returns the reference portal configuration:
//
//	whiteExclusive: {D5, F5, E3, B3}
//	blackExclusive: {C4, E4, D6, G6}
//	neutralPairs:   {{B5, G4}}
func Reference() *board.PortalConfig {
	return &board.PortalConfig{
		WhiteExclusive: []board.Square{board.D5, board.F5, board.E3, board.B3},
		BlackExclusive: []board.Square{board.C4, board.E4, board.D6, board.G6},
		NeutralPairs:   [][2]board.Square{{board.B5, board.G4}},
	}
}
