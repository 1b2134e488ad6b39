package web

import (
    "bytes"
    "html/template"
    "slices"

    "github.com/jaminalder/tictactoe-engine/internal/app"
    "github.com/jaminalder/tictactoe-engine/internal/bot"
    "github.com/jaminalder/tictactoe-engine/internal/domain"
)

type templates struct {
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "rows": func(cells []cellView) [][]cellView {
            out := make([][]cellView, 0, 3)
            for i := 0; i+3 <= len(cells); i += 3 {
                out = append(out, cells[i:i+3])
            }
            return out
        },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
.row{display:flex}.row form{margin:0}
.row button{width:4em;height:4em;font-size:1.5em}
.win{background:#fd6}.fading{opacity:.4}
</style>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("settings").Parse(settingsTemplate))
    template.Must(base.New("board").Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">{{template "settings" .}}<button>Create</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1>
{{template "board" .}}
<form hx-post="/game/{{.ID}}/settings" hx-target="#board" hx-swap="outerHTML" method="post">{{template "settings" .}}<button>Apply</button></form>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, data any) []byte {
    var buf bytes.Buffer
    _ = t.Execute(&buf, data)
    return buf.Bytes()
}

const settingsTemplate = `
<select name="mode">{{range .Modes}}<option value="{{.}}"{{if eq . $.Mode}} selected{{end}}>{{.}}</option>{{end}}</select>
<select name="variant">{{range .Variants}}<option value="{{.}}"{{if eq . $.Variant}} selected{{end}}>{{.}}</option>{{end}}</select>
<select name="bot">{{range .Bots}}<option value="{{.}}"{{if eq . $.Bot}} selected{{end}}>{{.}}</option>{{end}}</select>
`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Status}}</p>
  {{range rows .Cells}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{.Index}}">
        <button type="submit" data-cell="{{.Index}}"{{if .Win}} class="win"{{else if .Fading}} class="fading"{{end}}>{{.Mark}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .CanHandOver}}
  <form hx-post="/game/{{.ID}}/handover" hx-target="#board" hx-swap="outerHTML" method="post"><button>Bot moves first</button></form>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Restart</button></form>
</div>
`

type cellView struct {
    Index  int
    Mark   string
    Win    bool
    Fading bool
}

type pageData struct {
    ID          string
    Cells       []cellView
    Status      string
    Error       string
    CanHandOver bool
    Mode        string
    Variant     string
    Bot         string
    Modes       []string
    Variants    []string
    Bots        []string
}

func newPageData(set app.Settings) pageData {
    return pageData{
        Mode:     string(set.Mode),
        Variant:  set.Variant.String(),
        Bot:      set.Bot,
        Modes:    []string{string(app.PvE), string(app.PvP)},
        Variants: []string{domain.Standard.String(), domain.Sliding3.String()},
        Bots:     slices.Clone(bot.Names),
    }
}

func boardView(gs *app.GameState, errMsg string) pageData {
    d := newPageData(gs.Settings)
    d.ID = gs.ID
    d.Error = errMsg
    d.CanHandOver = gs.Settings.Mode == app.PvE && !gs.Started
    d.Status = status(gs)

    b := gs.Board
    line, won := b.WinLine()
    fading := map[int]bool{}
    if !b.Outcome().Decided() {
        for _, p := range []domain.Player{domain.X, domain.O} {
            if c, ok := b.Fading(p); ok {
                fading[c] = true
            }
        }
    }
    for i, p := range b.Cells() {
        d.Cells = append(d.Cells, cellView{
            Index:  i,
            Mark:   p.String(),
            Win:    won && slices.Contains(line[:], i),
            Fading: fading[i],
        })
    }
    return d
}

func status(gs *app.GameState) string {
    switch o := gs.Board.Outcome(); o {
    case domain.XWins, domain.OWins:
        return o.Winner().String() + " wins"
    case domain.Draw:
        return "Draw"
    }
    next := gs.Board.Next().String()
    if gs.Settings.Mode == app.PvE && gs.Board.Next() == gs.Human {
        return "Your move (" + next + ")"
    }
    return next + " to move"
}
