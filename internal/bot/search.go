package bot

import (
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

// SearchName identifies the alpha-beta bot.
const SearchName = "search"

const (
    // Depth is the search horizon in plies. It exceeds the longest
    // possible Standard game, so Standard play is exact. Sliding3 games
    // can recycle pieces forever and are cut off here.
    Depth = 10

    scoreWin  = 1
    scoreDraw = 0
    scoreLoss = -1
    scoreInf  = 100
)

// Stats describes the work done by the last prediction.
type Stats struct {
    Nodes   int
    Cutoffs int
    Elapsed time.Duration
}

// Search is a depth-bounded alpha-beta minimax player. It has no
// randomness: the same board always yields the same cell.
type Search struct {
    log   zerolog.Logger
    stats Stats
}

// NewSearch returns a search bot that logs nothing.
func NewSearch() *Search { return &Search{log: zerolog.Nop()} }

func (s *Search) Name() string { return SearchName }

// Stats returns counters from the most recent Predict call.
func (s *Search) Stats() Stats { return s.stats }

func (s *Search) Predict(b *domain.Board) int {
    start := time.Now()
    s.stats = Stats{}
    self := b.Next()
    empty := b.Empty()
    if len(empty) == 0 {
        return NoMove
    }

    alpha, best := -scoreInf, NoMove
    for _, c := range empty {
        undo := b.Try(self, c)
        score := s.alphaBeta(b, self, Depth, alpha, scoreInf)
        // A lost line is still worth playing if the opponent cannot
        // finish it on the very next move.
        if score <= scoreLoss && threatened(b) {
            undo()
            continue
        }
        undo()
        if alpha < score {
            alpha, best = score, c
        }
    }
    if best == NoMove {
        best = empty[0]
    }

    s.stats.Elapsed = time.Since(start)
    s.log.Debug().
        Str("player", self.String()).
        Int("cell", best).
        Int("score", alpha).
        Int("nodes", s.stats.Nodes).
        Int("cutoffs", s.stats.Cutoffs).
        Dur("elapsed", s.stats.Elapsed).
        Msg("search finished")
    return best
}

// threatened reports whether the player to move can win immediately.
func threatened(b *domain.Board) bool {
    for _, c := range b.Empty() {
        if winsNow(b, b.Next(), c) {
            return true
        }
    }
    return false
}

func (s *Search) alphaBeta(b *domain.Board, self domain.Player, depth, alpha, beta int) int {
    s.stats.Nodes++
    if score, done := evaluate(b, self, depth); done {
        return score
    }
    mover := b.Next()
    for _, c := range b.Empty() {
        undo := b.Try(mover, c)
        score := s.alphaBeta(b, self, depth-1, alpha, beta)
        undo()
        if mover == self {
            alpha = max(alpha, score)
        } else {
            beta = min(beta, score)
        }
        if alpha >= beta {
            s.stats.Cutoffs++
            break
        }
    }
    if mover == self {
        return alpha
    }
    return beta
}

// evaluate scores terminal positions from self's point of view. The
// horizon counts as a draw.
func evaluate(b *domain.Board, self domain.Player, depth int) (int, bool) {
    switch w := b.Winner(); {
    case w == self:
        return scoreWin, true
    case w != domain.None:
        return scoreLoss, true
    case b.Outcome() == domain.Draw:
        return scoreDraw, true
    case depth == 0:
        return scoreDraw, true
    }
    return 0, false
}
