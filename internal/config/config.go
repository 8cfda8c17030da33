package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	CORSOrigins       []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
	Game              GameConfig    `mapstructure:"game" yaml:"game"`
}

// GameConfig tunes the room state machine.
type GameConfig struct {
	TurnSeconds    int           `mapstructure:"turn_seconds" yaml:"turn_seconds"`
	MaxPlayers     int           `mapstructure:"max_players" yaml:"max_players"`
	MinPlayers     int           `mapstructure:"min_players" yaml:"min_players"`
	MaxRounds      int           `mapstructure:"max_rounds" yaml:"max_rounds"`
	GuessPoints    int           `mapstructure:"guess_points" yaml:"guess_points"`
	NextRoundDelay time.Duration `mapstructure:"next_round_delay" yaml:"next_round_delay"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		CORSOrigins:       []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		Game: GameConfig{
			TurnSeconds:    60,
			MaxPlayers:     8,
			MinPlayers:     2,
			MaxRounds:      10,
			GuessPoints:    10,
			NextRoundDelay: 3 * time.Second,
		},
	}
}
