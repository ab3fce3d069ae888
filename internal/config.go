package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the terminal client's configuration, read from the environment.
type Config struct {
	HistoryURL       string        `env:"HISTORY_URL,required=true" validate:"url"`
	SocketURL        string        `env:"SOCKET_URL,required=true" validate:"url"`
	AccessToken      string        `env:"ACCESS_TOKEN"`
	UserID           string        `env:"USER_ID" validate:"required_without=AccessToken"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages    *int          `env:"LIMIT_MESSAGES" validate:"omitempty,gt=0"`
	EventBufferSize  int           `env:"EVENT_BUFFER_SIZE,default=64" validate:"gt=0"`
	SinkTimeout      time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	AckTimeout       time.Duration `env:"ACK_TIMEOUT,default=3s" validate:"gt=0"`
	HistoryTimeout   time.Duration `env:"HISTORY_TIMEOUT,default=10s" validate:"gt=0"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=30s" validate:"gt=0"`
	AssistantTimeout time.Duration `env:"ASSISTANT_TIMEOUT,default=30s" validate:"gt=0"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY"`
	GeminiModel      string        `env:"GEMINI_MODEL,default=gemini-2.0-flash"`
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AssistantEnabled is false when no Gemini key is configured; /ask is then refused.
func (c Config) AssistantEnabled() bool {
	return c.GeminiAPIKey != ""
}
