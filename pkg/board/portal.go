package board

// PortalConfig holds the three disjoint portal networks: a white-exclusive
// group, a black-exclusive group, and any number of neutral pairs. It lives
// in pkg/board (rather than in pkg/portal, which only constructs the
// reference topology) because Position embeds it directly and
// pkg/board must not import pkg/portal — the dependency runs the other
// way, from pkg/portal and the rule-engine packages down into pkg/board's
// types.
//
// PortalConfig is plain data threaded through Position and
// InitialPosition, deliberately never a package-level mutable global.
type PortalConfig struct {
	// WhiteExclusive is a fully-connected network usable only by
	// white-owned movers: any member teleports to any other member.
	WhiteExclusive []Square
	// BlackExclusive is the black-only analogue of WhiteExclusive.
	BlackExclusive []Square
	// NeutralPairs are two-element networks usable by either color; each
	// pair's two squares teleport to each other.
	NeutralPairs [][2]Square
}

func (c *PortalConfig) exclusiveFor(mover Color) []Square {
	if mover == White {
		return c.WhiteExclusive
	}
	return c.BlackExclusive
}

// Lookup reports the network a square belongs to that mover is permitted to
// use, and the other member squares in network-declaration order (an order
// the expander must preserve). A square belonging only to the opponent's
// exclusive network is not "usable" by mover, and Lookup reports ok=false
// for it — symmetric with the portal-activation eligibility gate below.
func (c *PortalConfig) Lookup(sq Square, mover Color) (kind PortalNetworkKind, others []Square, ok bool) {
	for _, member := range c.exclusiveFor(mover) {
		if member == sq {
			return PortalExclusive, otherPortalMembers(c.exclusiveFor(mover), sq), true
		}
	}
	for _, pair := range c.NeutralPairs {
		if pair[0] == sq {
			return PortalNeutral, []Square{pair[1]}, true
		}
		if pair[1] == sq {
			return PortalNeutral, []Square{pair[0]}, true
		}
	}
	return 0, nil, false
}

// AllSquares returns every square belonging to any network, in declaration
// order, for callers that need to scan the whole portal layout (the attack
// oracle's portal scan).
func (c *PortalConfig) AllSquares() []Square {
	var out []Square
	out = append(out, c.WhiteExclusive...)
	out = append(out, c.BlackExclusive...)
	for _, pair := range c.NeutralPairs {
		out = append(out, pair[0], pair[1])
	}
	return out
}

func otherPortalMembers(network []Square, self Square) []Square {
	var out []Square
	for _, sq := range network {
		if sq != self {
			out = append(out, sq)
		}
	}
	return out
}

// EligiblePortalDestinations returns the destinations a piece standing on
// sq may currently teleport to via portal activation: the same network
// lookup as Lookup, further gated by same-color occupancy, the
// neutral cooldown, and (for exclusive networks only) personal no-return.
// The generator and the attack oracle's portal scan both call this so the
// two subsystems can never disagree about what counts as an activation.
func (p *Position) EligiblePortalDestinations(sq Square, mover Color) (kind PortalNetworkKind, dests []Square) {
	if p.Portal == nil {
		return 0, nil
	}
	k, others, ok := p.Portal.Lookup(sq, mover)
	if !ok {
		return 0, nil
	}
	if k == PortalNeutral && p.NeutralCooldown[mover] {
		return k, nil
	}
	var out []Square
	for _, dest := range others {
		if occ := p.Grid[dest]; !occ.IsEmpty() && occ.Color == mover {
			continue
		}
		if k == PortalExclusive && p.PersonalNoReturn[mover].Forbids(sq, dest) {
			continue
		}
		out = append(out, dest)
	}
	return k, out
}

// NoReturnMap maps a landing square to the origin square a piece standing
// there is forbidden from teleporting back to this turn (backs
// Position.PersonalNoReturn / PendingNoReturn). The zero value is the
// empty map (no restrictions).
type NoReturnMap map[Square]Square

// Forbids reports whether a portal activation from landing to dest is
// disallowed by this map.
func (m NoReturnMap) Forbids(landing, dest Square) bool {
	origin, ok := m[landing]
	return ok && origin == dest
}

// Clone returns a copy safe to mutate independently of m. A nil map clones
// to nil, so empty-state Positions stay cheap to copy.
func (m NoReturnMap) Clone() NoReturnMap {
	if m == nil {
		return nil
	}
	out := make(NoReturnMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a clone of m with landing -> origin recorded.
func (m NoReturnMap) With(landing, origin Square) NoReturnMap {
	out := m.Clone()
	if out == nil {
		out = NoReturnMap{}
	}
	out[landing] = origin
	return out
}
