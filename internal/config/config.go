package config

import (
    "fmt"
    "os"

    "github.com/go-playground/validator/v10"
    "gopkg.in/yaml.v3"
)

const (
    EnvDev  = "dev"
    EnvProd = "prod"
    EnvTest = "test"
)

type Config struct {
    Env  string     `yaml:"env" validate:"oneof=dev prod test"`
    HTTP HTTPConfig `yaml:"http"`
    Log  LogConfig  `yaml:"log"`
    Game GameConfig `yaml:"game"`
}

type HTTPConfig struct {
    Addr string `yaml:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
    Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
    Format string `yaml:"format" validate:"oneof=console json"`
}

// GameConfig holds the settings new games start with.
type GameConfig struct {
    Mode    string `yaml:"mode" validate:"oneof=pve pvp"`
    Variant string `yaml:"variant" validate:"oneof=standard sliding3"`
    Bot     string `yaml:"bot" validate:"oneof=heuristic search"`
}

var defaultConfig = Config{
    Env: EnvDev,
    HTTP: HTTPConfig{
        Addr: "localhost:3000",
    },
    Log: LogConfig{
        Level:  "info",
        Format: "console",
    },
    Game: GameConfig{
        Mode:    "pve",
        Variant: "standard",
        Bot:     "heuristic",
    },
}

// Default returns the built-in configuration.
func Default() Config { return defaultConfig }

// Read overlays the YAML file at filename, if any, on the defaults and
// validates the result.
func Read(filename string) (Config, error) {
    conf := defaultConfig
    if filename != "" {
        data, err := os.ReadFile(filename)
        if err != nil {
            return Config{}, fmt.Errorf("read config: %w", err)
        }
        if err = yaml.Unmarshal(data, &conf); err != nil {
            return Config{}, fmt.Errorf("parse config %s: %w", filename, err)
        }
    }
    if err := validator.New().Struct(conf); err != nil {
        return Config{}, fmt.Errorf("invalid config: %w", err)
    }
    return conf, nil
}
