package app

import (
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/bot"
    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

// Errors exposed by the service layer.
var (
    ErrNotFound       = errors.New("game not found")
    ErrNotYourTurn    = errors.New("not your turn")
    ErrGameOver       = errors.New("game over")
    ErrAlreadyStarted = errors.New("game already started")
    ErrWrongMode      = errors.New("not available in this mode")
    ErrUnknownMode    = errors.New("unknown mode")
)

// Mode says who sits across from the human.
type Mode string

const (
    // PvE pits the human against a bot.
    PvE Mode = "pve"
    // PvP lets two humans share the board.
    PvP Mode = "pvp"
)

// ParseMode accepts "pve" and "pvp".
func ParseMode(s string) (Mode, error) {
    switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
    case PvE, PvP:
        return m, nil
    case "":
        return PvE, nil
    }
    return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Settings selects the rules and opponent for a game.
type Settings struct {
    Mode    Mode
    Variant domain.Variant
    Bot     string
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID       string
    Settings Settings
    Board    *domain.Board
    Human    domain.Player // side the human plays in PvE
    Started  bool          // any move has been made since the last reset
    LastBot  int           // cell of the most recent bot move, or bot.NoMove
    Created  time.Time
    Updated  time.Time
}

// BotTurn reports whether the bot is to move.
func (gs *GameState) BotTurn() bool {
    return gs.Settings.Mode == PvE && !gs.Board.Outcome().Decided() && gs.Board.Next() != gs.Human
}

func (gs *GameState) copy() *GameState {
    cp := *gs
    cp.Board = gs.Board.Clone()
    return &cp
}

type session struct {
    state GameState
    bot   bot.Bot
}

// Service manages games and drives bot replies.
type Service struct {
    mu     sync.Mutex
    games  map[string]*session
    log    zerolog.Logger
    newBot func(name string) (bot.Bot, error)
    now    func() time.Time
}

// NewService creates a service that logs nothing.
func NewService() *Service { return NewServiceWithLogger(zerolog.Nop()) }

// NewServiceWithLogger creates a service logging game events to l.
func NewServiceWithLogger(l zerolog.Logger) *Service {
    s := &Service{
        games: make(map[string]*session),
        log:   l,
        now:   time.Now,
    }
    s.newBot = func(name string) (bot.Bot, error) { return bot.New(name, bot.WithLogger(l)) }
    return s
}

// SetBotFactory replaces how bots are built, e.g. to seed them in tests.
func (s *Service) SetBotFactory(f func(name string) (bot.Bot, error)) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.newBot = f
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(set Settings) (*GameState, error) {
    if set.Mode == "" {
        set.Mode = PvE
    }
    if _, err := ParseMode(string(set.Mode)); err != nil {
        return nil, err
    }
    if set.Bot == "" {
        set.Bot = bot.HeuristicName
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    b, err := s.newBot(set.Bot)
    if err != nil {
        return nil, err
    }
    set.Bot = b.Name()
    now := s.now()
    sess := &session{
        state: GameState{
            ID:       uuid.NewString(),
            Settings: set,
            Board:    domain.NewBoard(set.Variant),
            Human:    domain.First,
            LastBot:  bot.NoMove,
            Created:  now,
            Updated:  now,
        },
        bot: b,
    }
    s.games[sess.state.ID] = sess
    s.log.Info().Str("game", sess.state.ID).Str("mode", string(set.Mode)).
        Str("variant", set.Variant.String()).Str("bot", set.Bot).Msg("game created")
    return sess.state.copy(), nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.games[id]
    if !ok {
        return nil, false
    }
    return sess.state.copy(), true
}

// Delete drops a game. Unknown ids are ignored.
func (s *Service) Delete(id string) {
    s.mu.Lock()
    defer s.mu.Unlock()
    delete(s.games, id)
}

// Play submits a human move for the player on turn and, in PvE, lets the
// bot answer before returning.
func (s *Service) Play(id string, cell int) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    gs := &sess.state
    if gs.Board.Outcome().Decided() {
        return gs.copy(), ErrGameOver
    }
    if gs.BotTurn() {
        return gs.copy(), ErrNotYourTurn
    }
    mover := gs.Board.Next()
    accepted, err := gs.Board.Place(mover, cell)
    if err != nil {
        return gs.copy(), err
    }
    if !accepted {
        return gs.copy(), ErrNotYourTurn
    }
    gs.Started = true
    gs.Updated = s.now()
    s.log.Debug().Str("game", id).Str("player", mover.String()).Int("cell", cell).Msg("move")

    if gs.BotTurn() {
        if err := s.botMoveLocked(sess); err != nil {
            return gs.copy(), err
        }
    }
    s.logOutcomeLocked(gs)
    return gs.copy(), nil
}

// HandOver gives the first move to the bot: the human switches to O.
func (s *Service) HandOver(id string) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    gs := &sess.state
    if gs.Settings.Mode != PvE {
        return gs.copy(), ErrWrongMode
    }
    if gs.Started {
        return gs.copy(), ErrAlreadyStarted
    }
    gs.Human = gs.Board.Next().Opponent()
    gs.Started = true
    if err := s.botMoveLocked(sess); err != nil {
        return gs.copy(), err
    }
    return gs.copy(), nil
}

// Reset starts the game over with the human playing X.
func (s *Service) Reset(id string) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    s.resetLocked(&sess.state)
    return sess.state.copy(), nil
}

// UpdateSettings changes mode, variant or bot and restarts the game.
func (s *Service) UpdateSettings(id string, set Settings) (*GameState, error) {
    if _, err := ParseMode(string(set.Mode)); err != nil {
        return nil, err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    if set.Mode == "" {
        set.Mode = sess.state.Settings.Mode
    }
    if set.Bot == "" {
        set.Bot = sess.bot.Name()
    }
    b, err := s.newBot(set.Bot)
    if err != nil {
        return sess.state.copy(), err
    }
    set.Bot = b.Name()
    sess.bot = b
    sess.state.Settings = set
    sess.state.Board.SetVariant(set.Variant)
    s.resetLocked(&sess.state)
    s.log.Info().Str("game", id).Str("mode", string(set.Mode)).
        Str("variant", set.Variant.String()).Str("bot", set.Bot).Msg("settings changed")
    return sess.state.copy(), nil
}

func (s *Service) resetLocked(gs *GameState) {
    gs.Board.Reset()
    gs.Human = domain.First
    gs.Started = false
    gs.LastBot = bot.NoMove
    gs.Updated = s.now()
}

func (s *Service) botMoveLocked(sess *session) error {
    gs := &sess.state
    start := s.now()
    player := gs.Board.Next()
    cell := sess.bot.Predict(gs.Board)
    accepted, err := gs.Board.Place(player, cell)
    if err != nil {
        // A bot proposing an illegal cell means the board is inconsistent.
        return fmt.Errorf("bot %s played %d: %w", sess.bot.Name(), cell, err)
    }
    if !accepted {
        return fmt.Errorf("bot %s played %d out of turn", sess.bot.Name(), cell)
    }
    gs.LastBot = cell
    gs.Updated = s.now()
    s.log.Info().Str("game", gs.ID).Str("bot", sess.bot.Name()).Str("player", player.String()).
        Int("cell", cell).Dur("elapsed", gs.Updated.Sub(start)).Msg("bot move")
    return nil
}

func (s *Service) logOutcomeLocked(gs *GameState) {
    if o := gs.Board.Outcome(); o.Decided() {
        s.log.Info().Str("game", gs.ID).Str("outcome", o.String()).Msg("game finished")
    }
}
