package domain

import (
    "errors"
    "fmt"
    "slices"
)

// Cells is the number of squares on the board, indexed 0..8 row-major.
const Cells = 9

// Line is a winning triple of cell indices.
type Line [3]int

// Lines lists every winning triple in scan order. When two lines are
// complete at once, the one later in this order is reported.
var Lines = [8]Line{
    {0, 1, 2},
    {0, 3, 6},
    {0, 4, 8},
    {1, 4, 7},
    {2, 4, 6},
    {2, 5, 8},
    {3, 4, 5},
    {6, 7, 8},
}

// Errors returned by board operations.
var (
    ErrOutOfBounds    = errors.New("out of bounds")
    ErrInvalidPlayer  = errors.New("invalid player")
    ErrOccupied       = errors.New("cell occupied")
    ErrSpeculating    = errors.New("hypothetical moves outstanding")
    ErrUnknownVariant = errors.New("unknown variant")
)

// Undo reverts one hypothetical move. It must be called exactly once, in
// the reverse order of the Try calls that produced it.
type Undo func()

type frame struct {
    seq    uint64
    player Player
    prev    []int
    next    Player
    outcome Outcome
    line    Line
}

// Board holds piece placement for both players and derives the outcome
// from it after every change. A win recorded by Place stays recorded through
// later placements until Reset. Undo restores the outcome seen before the
// matching Try.
type Board struct {
    variant Variant
    pending Variant
    pieces  [3][]int // indexed by Player, oldest first
    grid    [Cells]Player
    next    Player
    outcome Outcome
    line    Line
    stack   []frame
    seq     uint64
}

// NewBoard returns an empty board with X to move.
func NewBoard(v Variant) *Board {
    b := &Board{variant: v, pending: v}
    b.Reset()
    return b
}

// Place submits an authoritative move. Invalid input is an error; a move
// by the player who is not on turn is ignored and reported as false.
func (b *Board) Place(p Player, cell int) (bool, error) {
    if cell < 0 || cell >= Cells {
        return false, fmt.Errorf("%w: cell %d", ErrOutOfBounds, cell)
    }
    if !p.Valid() {
        return false, fmt.Errorf("%w: %d", ErrInvalidPlayer, p)
    }
    if b.grid[cell] != None {
        return false, fmt.Errorf("%w: cell %d", ErrOccupied, cell)
    }
    if len(b.stack) > 0 {
        return false, ErrSpeculating
    }
    if p != b.next {
        return false, nil
    }
    won, line := b.outcome, b.line
    b.apply(p, cell)
    if won.Winner() != None {
        b.outcome, b.line = won, line
    }
    return true, nil
}

// Try applies a move without any legality checks and returns the function
// that takes it back. Callers must only propose empty cells. The outcome is
// computed from the resulting position alone.
func (b *Board) Try(p Player, cell int) Undo {
    b.seq++
    f := frame{
        seq:     b.seq,
        player:  p,
        prev:    slices.Clone(b.pieces[p]),
        next:    b.next,
        outcome: b.outcome,
        line:    b.line,
    }
    b.stack = append(b.stack, f)
    b.apply(p, cell)
    return func() { b.undo(f.seq) }
}

func (b *Board) undo(seq uint64) {
    n := len(b.stack)
    if n == 0 || b.stack[n-1].seq != seq {
        panic("domain: hypothetical moves undone out of order")
    }
    f := b.stack[n-1]
    b.stack = b.stack[:n-1]
    b.pieces[f.player] = f.prev
    b.next = f.next
    b.sync()
    b.outcome, b.line = f.outcome, f.line
}

func (b *Board) apply(p Player, cell int) {
    b.put(p, cell)
    b.next = p.Opponent()
    b.sync()
}

// Speculating returns the number of hypothetical moves not yet undone.
func (b *Board) Speculating() int { return len(b.stack) }

func (b *Board) put(p Player, cell int) {
    seq := b.pieces[p]
    if b.variant == Sliding3 && len(seq) >= SlidingCap {
        seq = slices.Clone(seq[1:])
    }
    b.pieces[p] = append(seq, cell)
}

// sync rebuilds the grid and recomputes the outcome.
func (b *Board) sync() {
    b.grid = [Cells]Player{}
    for _, p := range [2]Player{X, O} {
        for _, c := range b.pieces[p] {
            b.grid[c] = p
        }
    }
    b.outcome, b.line = Undetermined, Line{}
    for _, ln := range Lines {
        for _, p := range [2]Player{X, O} {
            if b.grid[ln[0]] == p && b.grid[ln[1]] == p && b.grid[ln[2]] == p {
                b.outcome, b.line = winFor(p), ln
            }
        }
    }
    // Under Sliding3 at most six pieces are live, so this never fires there.
    if b.outcome == Undetermined && b.Count() == Cells {
        b.outcome = Draw
    }
}

// Reset clears the board, applies any pending variant and gives X the move.
func (b *Board) Reset() {
    b.variant = b.pending
    b.pieces = [3][]int{}
    b.next = First
    b.stack = nil
    b.sync()
}

// SetVariant changes the rule set. It takes effect on the next Reset and
// never alters pieces already on the board.
func (b *Board) SetVariant(v Variant) { b.pending = v }

// Variant returns the rule set the current game is played under.
func (b *Board) Variant() Variant { return b.variant }

// PendingVariant returns the rule set the next Reset will apply.
func (b *Board) PendingVariant() Variant { return b.pending }

// Next returns the player to move.
func (b *Board) Next() Player { return b.next }

// Outcome returns the current status.
func (b *Board) Outcome() Outcome { return b.outcome }

// Winner returns the winning player or None.
func (b *Board) Winner() Player { return b.outcome.Winner() }

// WinLine returns the completed line when a player has won.
func (b *Board) WinLine() (Line, bool) {
    if b.outcome.Winner() == None {
        return Line{}, false
    }
    return b.line, true
}

// Pieces returns a copy of p's occupied cells, oldest first.
func (b *Board) Pieces(p Player) []int {
    if !p.Valid() {
        return nil
    }
    return slices.Clone(b.pieces[p])
}

// At returns the occupant of cell, or None.
func (b *Board) At(cell int) Player {
    if cell < 0 || cell >= Cells {
        return None
    }
    return b.grid[cell]
}

// Cells returns the occupant of every cell.
func (b *Board) Cells() [Cells]Player { return b.grid }

// Empty returns the unoccupied cells in ascending order.
func (b *Board) Empty() []int {
    out := make([]int, 0, Cells)
    for i, p := range b.grid {
        if p == None {
            out = append(out, i)
        }
    }
    return out
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int { return len(b.pieces[X]) + len(b.pieces[O]) }

// Fading returns the piece p loses on its next placement under Sliding3.
func (b *Board) Fading(p Player) (int, bool) {
    if b.variant != Sliding3 || !p.Valid() || len(b.pieces[p]) < SlidingCap {
        return 0, false
    }
    return b.pieces[p][0], true
}

// Clone returns an independent copy of a settled board. It panics while
// hypothetical moves are outstanding.
func (b *Board) Clone() *Board {
    if len(b.stack) > 0 {
        panic("domain: clone with hypothetical moves outstanding")
    }
    cp := &Board{variant: b.variant, pending: b.pending, next: b.next}
    for _, p := range [2]Player{X, O} {
        cp.pieces[p] = slices.Clone(b.pieces[p])
    }
    cp.sync()
    cp.outcome, cp.line = b.outcome, b.line
    return cp
}
