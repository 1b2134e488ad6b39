package web

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "net/url"
    "strings"
    "testing"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/app"
    "github.com/jaminalder/tictactoe-engine/internal/bot"
    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
    t.Helper()
    s := app.NewService()
    s.SetBotFactory(func(name string) (bot.Bot, error) { return bot.New(name, bot.WithSeed(3)) })
    h := NewServer(s, app.Settings{Mode: app.PvE, Variant: domain.Standard, Bot: bot.SearchName}, zerolog.Nop())
    return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
    req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    return rr
}

func getState(t *testing.T, h http.Handler, id string) stateResponse {
    t.Helper()
    req := httptest.NewRequest("GET", "/game/"+id+"/state", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200 from state, got %d", rr.Code)
    }
    var st stateResponse
    if err := json.NewDecoder(rr.Body).Decode(&st); err != nil {
        t.Fatalf("decode state: %v", err)
    }
    return st
}

func TestIndexPage(t *testing.T) {
    _, h := newTestServer(t)
    req := httptest.NewRequest("GET", "/", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
        t.Fatalf("index should contain create form; got body: %q", body)
    }
    if !strings.Contains(body, `<option value="search" selected>`) {
        t.Fatalf("index should preselect the default bot; got body: %q", body)
    }
}

func TestCreateRedirectsToGame(t *testing.T) {
    svc, h := newTestServer(t)
    rr := postForm(h, "/game", url.Values{"mode": {"pvp"}, "variant": {"sliding3"}})
    if rr.Code != http.StatusSeeOther {
        t.Fatalf("expected redirect, got %d", rr.Code)
    }
    loc := rr.Result().Header.Get("Location")
    if !strings.HasPrefix(loc, "/game/") {
        t.Fatalf("expected redirect to /game/{id}, got %q", loc)
    }
    gs, ok := svc.Get(strings.TrimPrefix(loc, "/game/"))
    if !ok {
        t.Fatalf("created game not found")
    }
    if gs.Settings.Mode != app.PvP || gs.Board.Variant() != domain.Sliding3 || gs.Settings.Bot != bot.SearchName {
        t.Fatalf("unexpected settings %+v", gs.Settings)
    }
}

func TestCreateRejectsBadSettings(t *testing.T) {
    _, h := newTestServer(t)
    for _, form := range []url.Values{{"variant": {"huge"}}, {"mode": {"coop"}}, {"bot": {"oracle"}}} {
        if rr := postForm(h, "/game", form); rr.Code != http.StatusBadRequest {
            t.Fatalf("expected 400 for %v, got %d", form, rr.Code)
        }
    }
}

func TestGamePageEmbedsBoard(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{})
    req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    body := rr.Body.String()
    if !strings.Contains(body, "id=\"board\"") || !strings.Contains(body, "/game/"+gs.ID+"/play") {
        t.Fatalf("expected board with play forms; got body: %q", body)
    }
    if strings.Count(body, `name="cell"`) != domain.Cells {
        t.Fatalf("expected %d cell forms", domain.Cells)
    }
    if !strings.Contains(body, "/game/"+gs.ID+"/handover") {
        t.Fatalf("expected handover button before the first move")
    }
}

func TestGamePageSelectsCurrentSettings(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvP, Variant: domain.Sliding3, Bot: bot.HeuristicName})
    req := httptest.NewRequest("GET", "/game/"+gs.ID, nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    body := rr.Body.String()
    for _, want := range []string{
        `<option value="pvp" selected>`,
        `<option value="sliding3" selected>`,
        `<option value="heuristic" selected>`,
    } {
        if !strings.Contains(body, want) {
            t.Fatalf("expected %q in game page; got body: %q", want, body)
        }
    }
    if strings.Count(body, " selected>") != 3 {
        t.Fatalf("expected exactly one selected option per setting; got body: %q", body)
    }
}

func TestUnknownGame404(t *testing.T) {
    _, h := newTestServer(t)
    for _, path := range []string{"/game/nope", "/game/nope/state", "/game/nope/board"} {
        req := httptest.NewRequest("GET", path, nil)
        rr := httptest.NewRecorder()
        h.ServeHTTP(rr, req)
        if rr.Code != http.StatusNotFound {
            t.Fatalf("expected 404 for %s, got %d", path, rr.Code)
        }
    }
    if rr := postForm(h, "/game/nope/play", url.Values{"cell": {"0"}}); rr.Code != http.StatusNotFound {
        t.Fatalf("expected 404 for play, got %d", rr.Code)
    }
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvE, Bot: bot.SearchName})

    rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"4"}})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    if !strings.Contains(rr.Body.String(), "id=\"board\"") {
        t.Fatalf("expected board fragment, got %q", rr.Body.String())
    }
    st := getState(t, h, gs.ID)
    if len(st.X) != 1 || st.X[0] != 4 || len(st.O) != 1 {
        t.Fatalf("expected X on 4 and a bot reply, got x=%v o=%v", st.X, st.O)
    }
    if st.LastBot == nil || *st.LastBot != st.O[0] {
        t.Fatalf("expected last_bot to match the O piece, got %v", st.LastBot)
    }
    if st.Next != "X" || st.Human != "X" || st.Outcome != "undetermined" {
        t.Fatalf("unexpected state %+v", st)
    }
}

func TestPlayErrorsRenderBanner(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvP})
    postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"0"}})
    cases := map[string]string{"0": "Cell is occupied", "12": "Out of bounds", "x": "Out of bounds"}
    for cell, want := range cases {
        rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {cell}})
        if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), want) {
            t.Fatalf("cell %q: expected %q banner, got %d %q", cell, want, rr.Code, rr.Body.String())
        }
    }
}

func TestWinIsReportedInStateAndBoard(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvP})
    for _, c := range []string{"0", "3", "1", "4", "2"} {
        postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {c}})
    }
    st := getState(t, h, gs.ID)
    if st.Outcome != "x_wins" || st.Winner != "X" {
        t.Fatalf("expected X win, got %+v", st)
    }
    if len(st.WinLine) != 3 || st.WinLine[0] != 0 || st.WinLine[1] != 1 || st.WinLine[2] != 2 {
        t.Fatalf("expected win line [0 1 2], got %v", st.WinLine)
    }
    rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"8"}})
    body := rr.Body.String()
    if !strings.Contains(body, "Game is over") || strings.Count(body, `class="win"`) != 3 {
        t.Fatalf("expected game over banner and highlighted line, got %q", body)
    }
}

func TestHandOverAndReset(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvE, Bot: bot.SearchName})
    rr := postForm(h, "/game/"+gs.ID+"/handover", nil)
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    st := getState(t, h, gs.ID)
    if len(st.X) != 1 || st.Human != "O" || st.Next != "O" {
        t.Fatalf("expected bot opening as X, got %+v", st)
    }
    rr = postForm(h, "/game/"+gs.ID+"/handover", nil)
    if !strings.Contains(rr.Body.String(), "Game already started") {
        t.Fatalf("expected already started banner, got %q", rr.Body.String())
    }
    postForm(h, "/game/"+gs.ID+"/reset", nil)
    st = getState(t, h, gs.ID)
    if len(st.X)+len(st.O) != 0 || st.Human != "X" {
        t.Fatalf("expected fresh game after reset, got %+v", st)
    }
}

func TestSettingsEndpointRestartsWithNewVariant(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvP})
    postForm(h, "/game/"+gs.ID+"/play", url.Values{"cell": {"0"}})
    rr := postForm(h, "/game/"+gs.ID+"/settings", url.Values{"variant": {"sliding3"}, "bot": {"heuristic"}})
    if rr.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rr.Code)
    }
    st := getState(t, h, gs.ID)
    if st.Variant != "sliding3" || st.Bot != "heuristic" || st.Mode != "pvp" || len(st.X) != 0 {
        t.Fatalf("unexpected state after settings change: %+v", st)
    }
    rr = postForm(h, "/game/"+gs.ID+"/settings", url.Values{"variant": {"huge"}})
    if !strings.Contains(rr.Body.String(), "Invalid settings") {
        t.Fatalf("expected invalid settings banner, got %q", rr.Body.String())
    }
}

func TestSlidingBoardMarksFadingPiece(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{Mode: app.PvP, Variant: domain.Sliding3})
    for _, c := range []int{0, 3, 1, 4, 6, 8} {
        if _, err := svc.Play(gs.ID, c); err != nil {
            t.Fatalf("play %d: %v", c, err)
        }
    }
    req := httptest.NewRequest("GET", "/game/"+gs.ID+"/board", nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    body := rr.Body.String()
    if !strings.Contains(body, `data-cell="0" class="fading"`) || !strings.Contains(body, `data-cell="3" class="fading"`) {
        t.Fatalf("expected oldest pieces 0 and 3 to fade, got %q", body)
    }
}

func TestDeleteGame(t *testing.T) {
    svc, h := newTestServer(t)
    gs, _ := svc.CreateGame(app.Settings{})
    req := httptest.NewRequest("DELETE", "/game/"+gs.ID, nil)
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, req)
    if rr.Code != http.StatusNoContent {
        t.Fatalf("expected 204, got %d", rr.Code)
    }
    if _, ok := svc.Get(gs.ID); ok {
        t.Fatalf("expected game to be deleted")
    }
}
