// Package engine provides the mutex-guarded facade combining board, portal,
// movegen, expand, legal, apply and result into the single surface
// pkg/room drives per game.
//
// Grounded on morlock/pkg/engine/engine.go's shape: a struct holding
// mutable game state behind a sync.Mutex, constructed via New with
// functional Options, and a logw banner on initialization.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/agorski/portalchess/pkg/apply"
	"github.com/agorski/portalchess/pkg/board"
	"github.com/agorski/portalchess/pkg/legal"
	"github.com/agorski/portalchess/pkg/portal"
	"github.com/agorski/portalchess/pkg/result"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options configure a new Engine.
type Options struct {
	Portal *board.PortalConfig
}

// Option is an engine creation option.
type Option func(*Options)

// WithPortalConfig overrides the reference portal topology.
func WithPortalConfig(cfg *board.PortalConfig) Option {
	return func(o *Options) {
		o.Portal = cfg
	}
}

// Engine owns the authoritative Position for a single game and serializes
// all access to it; pkg/room calls into one Engine per room, always while
// holding that room's own mutex, so the mutex here mainly documents the
// invariant rather than arbitrating real contention.
type Engine struct {
	mu  sync.Mutex
	pos *board.Position
}

// New creates an Engine at the standard starting position.
func New(ctx context.Context, opts ...Option) *Engine {
	o := Options{Portal: portal.Reference()}
	for _, fn := range opts {
		fn(&o)
	}

	e := &Engine{pos: board.InitialPosition(o.Portal)}
	logw.Infof(ctx, "initialized portal chess engine %v", version)
	return e
}

// Position returns the current Position. The caller must not mutate it;
// Position values are conceptually immutable once published.
func (e *Engine) Position() *board.Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pos
}

// LegalMoves returns every legal ResolvedMove for the side to move.
func (e *Engine) LegalMoves() []board.ResolvedMove {
	e.mu.Lock()
	defer e.mu.Unlock()

	return legal.LegalMoves(e.pos)
}

// LegalMovesFrom returns the legal ResolvedMoves originating at from.
func (e *Engine) LegalMovesFrom(from board.Square) []board.ResolvedMove {
	e.mu.Lock()
	defer e.mu.Unlock()

	return legal.LegalMovesFrom(e.pos, from)
}

// Result reports whether the game has ended from the current position.
func (e *Engine) Result() result.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return result.Evaluate(e.pos)
}

// errIllegalMove is returned by Move when claimed does not match any move
// the server itself would generate.
var errIllegalMove = fmt.Errorf("illegal move")

// Move re-validates claimed against the server's own legal-move set for
// claimed.From, and, on a match, advances the engine to the resulting
// Position. It never trusts claimed.ToFinal, claimed.ViaPortal, or any
// other field beyond identifying which of the server's own candidates was
// meant: the client proposes, the server disposes.
func (e *Engine) Move(claimed board.ResolvedMove) (board.ResolvedMove, *board.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidates := legal.LegalMovesFrom(e.pos, claimed.From)
	for _, candidate := range candidates {
		if candidate.Equals(claimed) {
			e.pos = apply.Apply(e.pos, candidate)
			return candidate, e.pos, nil
		}
	}
	return board.ResolvedMove{}, nil, errIllegalMove
}

// ErrIllegalMove reports whether err is the sentinel Move returns for a
// claimed move with no matching legal candidate.
func ErrIllegalMove(err error) bool {
	return err == errIllegalMove
}
