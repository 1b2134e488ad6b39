package bot

import (
    "time"

    "golang.org/x/exp/rand"

    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

// HeuristicName identifies the one-ply bot.
const HeuristicName = "heuristic"

// Heuristic takes an immediate win, otherwise blocks an immediate loss,
// otherwise plays a random empty cell.
type Heuristic struct {
    rng *rand.Rand
}

func newSource(seed uint64) rand.Source { return rand.NewSource(seed) }

// NewHeuristic returns a heuristic bot drawing from src, or from a
// clock-seeded source when src is nil.
func NewHeuristic(src rand.Source) *Heuristic {
    if src == nil {
        src = newSource(uint64(time.Now().UnixNano()))
    }
    return &Heuristic{rng: rand.New(src)}
}

func (h *Heuristic) Name() string { return HeuristicName }

func (h *Heuristic) Predict(b *domain.Board) int {
    self := b.Next()
    enemy := self.Opponent()
    empty := b.Empty()
    if len(empty) == 0 {
        return NoMove
    }
    for _, c := range empty {
        if winsNow(b, self, c) {
            return c
        }
    }
    for _, c := range empty {
        if winsNow(b, enemy, c) {
            return c
        }
    }
    return empty[h.rng.Intn(len(empty))]
}
