package web

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/app"
    "github.com/jaminalder/tictactoe-engine/internal/bot"
    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

type handlers struct {
    svc      *app.Service
    tpl      *templates
    defaults app.Settings
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(status)
    _, _ = w.Write(body)
}

func (h *handlers) renderBoard(w http.ResponseWriter, gs *app.GameState, errMsg string) {
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.board, boardView(gs, errMsg)))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.index, newPageData(h.defaults)))
}

// settingsFrom reads mode, variant and bot form values over base.
func settingsFrom(r *http.Request, base app.Settings) (app.Settings, error) {
    _ = r.ParseForm()
    set := base
    if v := r.Form.Get("mode"); v != "" {
        m, err := app.ParseMode(v)
        if err != nil {
            return set, err
        }
        set.Mode = m
    }
    if v := r.Form.Get("variant"); v != "" {
        variant, err := domain.ParseVariant(v)
        if err != nil {
            return set, err
        }
        set.Variant = variant
    }
    if v := r.Form.Get("bot"); v != "" {
        set.Bot = v
    }
    return set, nil
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    set, err := settingsFrom(r, h.defaults)
    if err != nil {
        http.Error(w, err.Error(), http.StatusBadRequest)
        return
    }
    gs, err := h.svc.CreateGame(set)
    if err != nil {
        if errors.Is(err, bot.ErrUnknownBot) {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        zerolog.Ctx(r.Context()).Error().Err(err).Msg("create game")
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    writeHTML(w, http.StatusOK, renderTemplate(h.tpl.game, boardView(gs, "")))
}

func (h *handlers) board(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    h.renderBoard(w, gs, "")
}

type stateResponse struct {
    ID      string `json:"id"`
    Mode    string `json:"mode"`
    Variant string `json:"variant"`
    Bot     string `json:"bot"`
    Human   string `json:"human,omitempty"`
    Next    string `json:"next"`
    Outcome string `json:"outcome"`
    Winner  string `json:"winner,omitempty"`
    WinLine []int  `json:"win_line,omitempty"`
    X       []int  `json:"x"`
    O       []int  `json:"o"`
    LastBot *int   `json:"last_bot,omitempty"`
}

func newStateResponse(gs *app.GameState) stateResponse {
    b := gs.Board
    resp := stateResponse{
        ID:      gs.ID,
        Mode:    string(gs.Settings.Mode),
        Variant: b.Variant().String(),
        Bot:     gs.Settings.Bot,
        Next:    b.Next().String(),
        Outcome: b.Outcome().String(),
        Winner:  b.Winner().String(),
        X:       append([]int{}, b.Pieces(domain.X)...),
        O:       append([]int{}, b.Pieces(domain.O)...),
    }
    if gs.Settings.Mode == app.PvE {
        resp.Human = gs.Human.String()
    }
    if line, ok := b.WinLine(); ok {
        resp.WinLine = line[:]
    }
    if gs.LastBot != bot.NoMove {
        c := gs.LastBot
        resp.LastBot = &c
    }
    return resp
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(newStateResponse(gs))
}

// errorMessage maps service and domain errors to text shown on the board.
// The second result is false for errors the player did not cause.
func errorMessage(err error) (string, bool) {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn", true
    case errors.Is(err, app.ErrGameOver):
        return "Game is over", true
    case errors.Is(err, app.ErrAlreadyStarted):
        return "Game already started", true
    case errors.Is(err, app.ErrWrongMode):
        return "Not available in this mode", true
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied", true
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds", true
    case errors.Is(err, bot.ErrUnknownBot), errors.Is(err, app.ErrUnknownMode), errors.Is(err, domain.ErrUnknownVariant):
        return "Invalid settings", true
    }
    return "Invalid move", false
}

// respond renders the board after a command, with an error banner if the
// command failed.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
    if errors.Is(err, app.ErrNotFound) {
        http.NotFound(w, r)
        return
    }
    var errMsg string
    if err != nil {
        var expected bool
        errMsg, expected = errorMessage(err)
        if !expected {
            zerolog.Ctx(r.Context()).Error().Err(err).Str("game", id).Msg("command failed")
        }
    }
    if gs == nil {
        g, ok := h.svc.Get(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        gs = g
    }
    h.renderBoard(w, gs, errMsg)
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    cell, err := strconv.Atoi(r.Form.Get("cell"))
    if err != nil {
        cell = -1
    }
    gs, err := h.svc.Play(id, cell)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) handOver(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.HandOver(id)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, err := h.svc.Reset(id)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) settings(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    cur, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    set, err := settingsFrom(r, cur.Settings)
    if err != nil {
        h.respond(w, r, id, cur, err)
        return
    }
    gs, err := h.svc.UpdateSettings(id, set)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
    h.svc.Delete(chi.URLParam(r, "id"))
    w.WriteHeader(http.StatusNoContent)
}
