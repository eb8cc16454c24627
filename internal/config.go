package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`

	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=256"`
	TypingTTL         time.Duration `env:"TYPING_TTL,default=5s"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=30s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=5s"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`

	JwtSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
}

// ViewerConfig is the subset the read-only viewer needs: it opens the
// database and nothing else, so server-only secrets must not be required.
type ViewerConfig struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
