// Package bot implements the computer opponents. Every bot explores the
// live board with hypothetical moves and leaves it as it found it.
package bot

import (
    "errors"
    "fmt"
    "strings"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

// NoMove is returned when the board has no empty cell.
const NoMove = -1

// ErrUnknownBot is returned by New for an unrecognized strategy name.
var ErrUnknownBot = errors.New("unknown bot")

// Bot picks a cell for the player to move.
type Bot interface {
    Name() string
    Predict(b *domain.Board) int
}

// Option configures a bot built by New.
type Option func(*options)

type options struct {
    logger zerolog.Logger
    seed   uint64
    seeded bool
}

// WithLogger routes a bot's debug output to l.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

// WithSeed fixes the random source of bots that use one.
func WithSeed(seed uint64) Option {
    return func(o *options) { o.seed, o.seeded = seed, true }
}

// Names lists the strategies New accepts.
var Names = []string{HeuristicName, SearchName}

// New builds a bot by name. "easy" and "hard" are accepted as aliases.
func New(name string, opts ...Option) (Bot, error) {
    o := options{logger: zerolog.Nop()}
    for _, opt := range opts {
        opt(&o)
    }
    switch strings.ToLower(strings.TrimSpace(name)) {
    case HeuristicName, "easy":
        h := NewHeuristic(nil)
        if o.seeded {
            h = NewHeuristic(newSource(o.seed))
        }
        return h, nil
    case SearchName, "hard":
        s := NewSearch()
        s.log = o.logger
        return s, nil
    }
    return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
}

// winsNow reports whether p placing on cell completes a line.
func winsNow(b *domain.Board, p domain.Player, cell int) bool {
    undo := b.Try(p, cell)
    defer undo()
    return b.Winner() == p
}
