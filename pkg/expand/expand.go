// Package expand fans a single pseudo-legal BaseMove out into the
// non-empty set of resolved outcomes a portal interaction can produce.
//
// morlock has no analogue; this package is new, but kept pure with respect
// to board.Position the same way morlock's board.Position query methods
// (IsAttacked, Square) never mutate their receiver.
package expand

import "github.com/agorski/portalchess/pkg/board"

// Expand returns the resolved outcomes for base. The result is never empty
// for a BaseMove the generator actually produced; a defensive caller that
// hands Expand a BaseMove the generator would not have produced (e.g. an
// activation onto a same-color-occupied square) gets back nil.
func Expand(pos *board.Position, base board.BaseMove) []board.ResolvedMove {
	switch base.Kind {
	case board.MovePromotion:
		// Promotions never branch via portals, even onto a portal square.
		return []board.ResolvedMove{{BaseMove: base, ToFinal: base.To}}

	case board.MovePortalActivation:
		return expandActivation(pos, base)

	case board.MoveCapture, board.MoveCastle:
		// A capture landing on a portal square does not activate it; a
		// castle never interacts with portals.
		return []board.ResolvedMove{{BaseMove: base, ToFinal: base.To}}

	case board.MoveNormal:
		return expandNormalMove(pos, base)

	default:
		return nil
	}
}

func expandActivation(pos *board.Position, base board.BaseMove) []board.ResolvedMove {
	mover := pos.At(base.From)
	if mover.IsEmpty() || pos.Portal == nil {
		return nil
	}
	kind, _, ok := pos.Portal.Lookup(base.From, mover.Color)
	if !ok {
		return nil
	}

	target := pos.At(base.To)
	if !target.IsEmpty() && target.Color == mover.Color {
		return nil
	}

	return []board.ResolvedMove{{
		BaseMove: base,
		ToFinal:  base.To,
		ViaPortal: &board.ViaPortal{
			Entry:   base.From,
			Network: kind,
			Choice:  base.To,
			Swapped: !target.IsEmpty(),
		},
	}}
}

func expandNormalMove(pos *board.Position, base board.BaseMove) []board.ResolvedMove {
	mover := pos.At(base.From)
	if mover.IsEmpty() || pos.Portal == nil {
		return []board.ResolvedMove{{BaseMove: base, ToFinal: base.To}}
	}

	kind, others, ok := pos.Portal.Lookup(base.To, mover.Color)
	if !ok {
		return []board.ResolvedMove{{BaseMove: base, ToFinal: base.To}}
	}

	out := []board.ResolvedMove{stayOutcome(base, kind)}
	for _, dest := range others {
		occ := pos.At(dest)
		if !occ.IsEmpty() && occ.Color == mover.Color {
			continue
		}
		out = append(out, board.ResolvedMove{
			BaseMove: base,
			ToFinal:  dest,
			ViaPortal: &board.ViaPortal{
				Entry:   base.To,
				Network: kind,
				Choice:  dest,
				Swapped: !occ.IsEmpty(),
			},
		})
	}
	return out
}

func stayOutcome(base board.BaseMove, kind board.PortalNetworkKind) board.ResolvedMove {
	return board.ResolvedMove{
		BaseMove: base,
		ToFinal:  base.To,
		ViaPortal: &board.ViaPortal{
			Entry:   base.To,
			Network: kind,
			Choice:  board.StaySquare,
		},
	}
}
