package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/app"
)

// NewServer wires routes and returns an http.Handler. New games start
// with defaults unless the create form overrides them.
func NewServer(s *app.Service, defaults app.Settings, l zerolog.Logger) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(l))
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), defaults: defaults}
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/board", h.board)
        r.Get("/state", h.state)
        r.Post("/play", h.play)
        r.Post("/handover", h.handOver)
        r.Post("/reset", h.reset)
        r.Post("/settings", h.settings)
        r.Delete("/", h.remove)
    })
    return r
}

// requestLogger logs one line per request and makes l available to
// handlers through zerolog.Ctx.
func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            rl := l.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            next.ServeHTTP(ww, r.WithContext(rl.WithContext(r.Context())))
            rl.Debug().
                Str("method", r.Method).
                Str("path", r.URL.Path).
                Int("status", ww.Status()).
                Int("bytes", ww.BytesWritten()).
                Dur("elapsed", time.Since(start)).
                Msg("request")
        })
    }
}
