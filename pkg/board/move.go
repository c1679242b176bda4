package board

import "fmt"

// MoveKind discriminates the tagged union carried by BaseMove and
// ResolvedMove.
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MoveCapture
	MovePortalActivation
	MoveCastle
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveNormal:
		return "move"
	case MoveCapture:
		return "capture"
	case MovePortalActivation:
		return "portal-activation"
	case MoveCastle:
		return "castle"
	case MovePromotion:
		return "promotion"
	default:
		return "?"
	}
}

// PortalNetworkKind distinguishes an exclusive (single-color) network from
// the neutral pair network. Kept here, rather than only in pkg/portal, so
// that pkg/board (and its Move types) need not import pkg/portal.
type PortalNetworkKind uint8

const (
	PortalExclusive PortalNetworkKind = iota
	PortalNeutral
)

func (k PortalNetworkKind) String() string {
	if k == PortalNeutral {
		return "neutral"
	}
	return "exclusive"
}

// StaySquare is the sentinel "choice" value meaning the mover remains on
// the portal entry square rather than teleporting (the STAY outcome). It
// is one past the last valid board square so it can never collide with a
// real destination.
const StaySquare Square = NumSquares

// ViaPortal carries the portal-activation metadata attached to a
// ResolvedMove.
type ViaPortal struct {
	Entry   Square
	Network PortalNetworkKind
	// Choice is StaySquare for the STAY outcome, otherwise the destination.
	Choice  Square
	Swapped bool
}

// IsStay reports whether this is the STAY outcome.
func (v ViaPortal) IsStay() bool {
	return v.Choice == StaySquare
}

// BaseMove is a pseudo-legal move produced by the generator, before portal
// outcomes are resolved.
type BaseMove struct {
	From, To Square
	Kind     MoveKind

	// CastleSide is meaningful iff Kind == MoveCastle.
	CastleSide CastleSide
	// Promo is meaningful iff Kind == MovePromotion: the declared piece.
	Promo PieceKind
}

func (m BaseMove) String() string {
	switch m.Kind {
	case MoveCastle:
		return fmt.Sprintf("O-O(%v)", m.CastleSide)
	case MovePromotion:
		return fmt.Sprintf("%v%v=%v", m.From, m.To, m.Promo)
	default:
		return fmt.Sprintf("%v%v", m.From, m.To)
	}
}

// ResolvedMove is a fully-disambiguated move, ready for the applier.
// ToFinal is the final landing square after any teleport;
// ViaPortal is present iff the move involved a portal decision (activation,
// or a branch taken/declined while landing on a portal square).
type ResolvedMove struct {
	BaseMove
	ToFinal   Square
	ViaPortal *ViaPortal // nil if no portal was involved in resolving this move
}

// Equals compares the origin square plus the tuple the server trusts from a
// client payload: (toFinal, kind, promo, viaPortal.choice). Any other field,
// including one a client might forge, is ignored.
func (m ResolvedMove) Equals(o ResolvedMove) bool {
	if m.From != o.From || m.ToFinal != o.ToFinal || m.Kind != o.Kind {
		return false
	}
	if m.Kind == MovePromotion && m.Promo != o.Promo {
		return false
	}
	mChoice, mHas := portalChoice(m)
	oChoice, oHas := portalChoice(o)
	return mHas == oHas && (!mHas || mChoice == oChoice)
}

func portalChoice(m ResolvedMove) (Square, bool) {
	if m.ViaPortal == nil {
		return 0, false
	}
	return m.ViaPortal.Choice, true
}

func (m ResolvedMove) String() string {
	if m.ViaPortal != nil {
		if m.ViaPortal.IsStay() {
			return fmt.Sprintf("%v%v(stay@%v)", m.From, m.ToFinal, m.ViaPortal.Entry)
		}
		return fmt.Sprintf("%v%v(via %v portal, swapped=%v)", m.From, m.ToFinal, m.ViaPortal.Network, m.ViaPortal.Swapped)
	}
	return m.BaseMove.String()
}
