package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DefaultPrefix — префикс переменных окружения процесса.
const DefaultPrefix = "FMTBROKER"

// Ops — служебный HTTP (health/status/metrics).
type Ops struct {
	Enabled         bool          `default:"false" envconfig:"ENABLED"`
	Addr            string        `default:":2112" envconfig:"ADDR"`
	GinMode         string        `default:"release" envconfig:"GIN_MODE"`
	GracefulTimeout time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"fmtbroker-consumer" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"localhost:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

// Startup — поведение на старте (повтор Init при недоступном брокере).
type Startup struct {
	InitRetries uint64        `default:"3" envconfig:"INIT_RETRIES"`
	InitBackoff time.Duration `default:"500ms" envconfig:"INIT_BACKOFF"`
}

// Recent — кэш последних сообщений по ключу для /messages (Capacity=0 — выключен).
type Recent struct {
	Capacity int           `default:"1000" envconfig:"CAPACITY"`
	TTL      time.Duration `default:"10m" envconfig:"TTL"`
}

// ConsumerFile — откуда брать key=value конфигурацию консьюмера.
type ConsumerFile struct {
	// ApplyDefaults — заполнять group.id/auto.offset.reset значениями по умолчанию.
	ApplyDefaults bool `default:"false" envconfig:"APPLY_DEFAULTS"`
}

// Config — окружение процесса (всё, что не относится к самой подписке).
type Config struct {
	Ops      Ops
	Tracing  Tracing
	Logger   Logger
	Startup  Startup
	Recent   Recent
	Consumer ConsumerFile
}

func Load() (Config, error) {
	return LoadWithPrefix(DefaultPrefix)
}

// LoadWithPrefix — то же, что Load, но с произвольным префиксом (удобно в тестах).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
