package domain

import (
    "fmt"
    "strings"
)

// Player identifies one side of the board.
type Player uint8

const (
    None Player = iota
    X
    O
)

// First is the player who moves on a fresh board.
const First = X

// Valid reports whether p is X or O.
func (p Player) Valid() bool { return p == X || p == O }

// Opponent returns the other side. None stays None.
func (p Player) Opponent() Player {
    switch p {
    case X:
        return O
    case O:
        return X
    default:
        return None
    }
}

func (p Player) String() string {
    switch p {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// Variant selects how placed pieces persist.
type Variant uint8

const (
    // Standard keeps every piece until the game ends.
    Standard Variant = iota
    // Sliding3 keeps at most three pieces per player; a fourth placement
    // evicts that player's oldest piece.
    Sliding3
)

// SlidingCap is the per-player piece limit under Sliding3.
const SlidingCap = 3

func (v Variant) String() string {
    switch v {
    case Sliding3:
        return "sliding3"
    default:
        return "standard"
    }
}

// ParseVariant accepts the names produced by Variant.String as well as the
// "basic" and "three_piece" spellings used by older front ends.
func ParseVariant(s string) (Variant, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "standard", "basic":
        return Standard, nil
    case "sliding3", "three_piece":
        return Sliding3, nil
    }
    return Standard, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Outcome is the status of a board.
type Outcome uint8

const (
    Undetermined Outcome = iota
    XWins
    OWins
    Draw
)

// Winner returns the winning player, or None for draws and open games.
func (o Outcome) Winner() Player {
    switch o {
    case XWins:
        return X
    case OWins:
        return O
    default:
        return None
    }
}

// Decided reports whether the game is over.
func (o Outcome) Decided() bool { return o != Undetermined }

func (o Outcome) String() string {
    switch o {
    case XWins:
        return "x_wins"
    case OWins:
        return "o_wins"
    case Draw:
        return "draw"
    default:
        return "undetermined"
    }
}

func winFor(p Player) Outcome {
    if p == X {
        return XWins
    }
    return OWins
}
