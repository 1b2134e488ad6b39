package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-engine/internal/app"
    "github.com/jaminalder/tictactoe-engine/internal/config"
    "github.com/jaminalder/tictactoe-engine/internal/domain"
    "github.com/jaminalder/tictactoe-engine/internal/logging"
    "github.com/jaminalder/tictactoe-engine/internal/web"
)

const version = "0.1.0"

func main() {
    var configFile string
    var showVersion bool
    flag.StringVar(&configFile, "c", "", "configuration filename")
    flag.BoolVar(&showVersion, "v", false, "print version and exit")
    flag.Usage = func() {
        fmt.Fprintf(flag.CommandLine.Output(), "Usage: tictactoe [-v] [-c filename]\n\nOptions:\n")
        flag.PrintDefaults()
    }
    flag.Parse()
    if showVersion {
        fmt.Fprintf(flag.CommandLine.Output(), "tictactoe %s\n", version)
        return
    }

    conf, err := config.Read(configFile)
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
    logger := logging.New(conf.Log, os.Stderr)
    if err := run(conf, logger); err != nil {
        logger.Fatal().Err(err).Msg("server stopped")
    }
}

func defaultSettings(g config.GameConfig) (app.Settings, error) {
    mode, err := app.ParseMode(g.Mode)
    if err != nil {
        return app.Settings{}, err
    }
    variant, err := domain.ParseVariant(g.Variant)
    if err != nil {
        return app.Settings{}, err
    }
    return app.Settings{Mode: mode, Variant: variant, Bot: g.Bot}, nil
}

func run(conf config.Config, logger zerolog.Logger) error {
    defaults, err := defaultSettings(conf.Game)
    if err != nil {
        return err
    }
    svc := app.NewServiceWithLogger(logger)
    srv := &http.Server{
        Addr:              conf.HTTP.Addr,
        Handler:           web.NewServer(svc, defaults, logger),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    errc := make(chan error, 1)
    go func() {
        logger.Info().Str("addr", conf.HTTP.Addr).Str("env", conf.Env).Msg("listening")
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        if !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    case <-ctx.Done():
    }
    logger.Info().Msg("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    return srv.Shutdown(shutdownCtx)
}
