package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrConfig — базовая ошибка конфигурации (фатальна на старте).
	ErrConfig = errors.New("config error")
	// ErrMissingField — отсутствует обязательный ключ.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidBoolean — значение не распознано как логическое.
	ErrInvalidBoolean = errors.New("invalid boolean")
	// ErrInvalidValue — значение вне допустимого множества/диапазона.
	ErrInvalidValue = errors.New("invalid value")
)

// Ключи key=value файла.
const (
	KeyBootstrapServers   = "bootstrap.servers"
	KeyGroupID            = "group.id"
	KeyTopic              = "topic"
	KeyTopicName          = "topic.name"
	KeyOffsetReset        = "auto.offset.reset"
	KeyAutoCommit         = "enable.auto.commit"
	KeyAutoCommitInterval = "auto.commit.interval.ms"
	KeyPollTimeout        = "poll.timeout.ms"
	KeyMaxMessages        = "max.messages"
	KeyDriver             = "client.driver"
	KeyStopOnFatal        = "stop.on.fatal"
)

const (
	DefaultGroupID            = "fmtbroker-local-test"
	DefaultPollTimeout        = 100 * time.Millisecond
	DefaultAutoCommitInterval = 5 * time.Second
)

// OffsetReset — политика стартового оффсета при отсутствии закоммиченного.
type OffsetReset string

const (
	OffsetEarliest OffsetReset = "earliest"
	OffsetLatest   OffsetReset = "latest"
)

// Driver — реализация клиента брокера.
type Driver string

const (
	DriverConfluent Driver = "confluent"
	DriverKafkaGo   Driver = "kafka-go"
)

// Consumer — проверенная конфигурация подписки. Значение не меняется после Validate.
type Consumer struct {
	Brokers            []string
	GroupID            string
	Topic              string
	OffsetReset        OffsetReset
	AutoCommit         bool
	AutoCommitInterval time.Duration
	PollTimeout        time.Duration
	MaxMessages        int
	Driver             Driver
	StopOnFatal        bool

	// Passthrough — нераспознанные ключи; confluent-драйвер передаёт их в librdkafka как есть.
	Passthrough map[string]string
}

var knownKeys = map[string]struct{}{
	KeyBootstrapServers: {}, KeyGroupID: {}, KeyTopic: {}, KeyTopicName: {},
	KeyOffsetReset: {}, KeyAutoCommit: {}, KeyAutoCommitInterval: {},
	KeyPollTimeout: {}, KeyMaxMessages: {}, KeyDriver: {}, KeyStopOnFatal: {},
}

// Validate — проверяет набор key=value и строит Consumer.
// Обязательны: bootstrap.servers, group.id, topic (или topic.name), auto.offset.reset, enable.auto.commit.
func Validate(props map[string]string) (Consumer, error) {
	get := func(k string) string { return strings.TrimSpace(props[k]) }

	brokers := splitList(get(KeyBootstrapServers))
	if len(brokers) == 0 {
		return Consumer{}, missing(KeyBootstrapServers)
	}

	groupID := get(KeyGroupID)
	if groupID == "" {
		return Consumer{}, missing(KeyGroupID)
	}

	topic := get(KeyTopic)
	if topic == "" {
		topic = get(KeyTopicName)
	}
	if topic == "" {
		return Consumer{}, missing(KeyTopic)
	}

	rawReset := get(KeyOffsetReset)
	if rawReset == "" {
		return Consumer{}, missing(KeyOffsetReset)
	}
	reset, err := ParseOffsetReset(rawReset)
	if err != nil {
		return Consumer{}, err
	}

	rawAuto := get(KeyAutoCommit)
	if rawAuto == "" {
		return Consumer{}, missing(KeyAutoCommit)
	}
	autoCommit, err := ParseBool(rawAuto)
	if err != nil {
		return Consumer{}, fmt.Errorf("%w: %s: %w", ErrConfig, KeyAutoCommit, err)
	}

	c := Consumer{
		Brokers:            brokers,
		GroupID:            groupID,
		Topic:              topic,
		OffsetReset:        reset,
		AutoCommit:         autoCommit,
		AutoCommitInterval: DefaultAutoCommitInterval,
		PollTimeout:        DefaultPollTimeout,
		Driver:             DriverConfluent,
	}

	if v := get(KeyPollTimeout); v != "" {
		d, err := millis(KeyPollTimeout, v)
		if err != nil {
			return Consumer{}, err
		}
		c.PollTimeout = d
	}

	if v := get(KeyAutoCommitInterval); v != "" {
		d, err := millis(KeyAutoCommitInterval, v)
		if err != nil {
			return Consumer{}, err
		}
		c.AutoCommitInterval = d
	}

	if v := get(KeyMaxMessages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Consumer{}, invalid(KeyMaxMessages, v)
		}
		c.MaxMessages = n
	}

	if v := get(KeyDriver); v != "" {
		switch d := Driver(strings.ToLower(v)); d {
		case DriverConfluent, DriverKafkaGo:
			c.Driver = d
		default:
			return Consumer{}, invalid(KeyDriver, v)
		}
	}

	if v := get(KeyStopOnFatal); v != "" {
		b, err := ParseBool(v)
		if err != nil {
			return Consumer{}, fmt.Errorf("%w: %s: %w", ErrConfig, KeyStopOnFatal, err)
		}
		c.StopOnFatal = b
	}

	for k, v := range props {
		if _, ok := knownKeys[k]; ok {
			continue
		}
		if c.Passthrough == nil {
			c.Passthrough = make(map[string]string)
		}
		c.Passthrough[k] = v
	}

	return c, nil
}

// ApplyDefaults — копия props с дефолтами group.id и auto.offset.reset.
// enable.auto.commit намеренно не заполняется: политика коммита задаётся явно.
func ApplyDefaults(props map[string]string) map[string]string {
	out := make(map[string]string, len(props)+2)
	for k, v := range props {
		out[k] = v
	}
	if strings.TrimSpace(out[KeyGroupID]) == "" {
		out[KeyGroupID] = DefaultGroupID
	}
	if strings.TrimSpace(out[KeyOffsetReset]) == "" {
		out[KeyOffsetReset] = string(OffsetEarliest)
	}
	return out
}

// ParseBool — регистронезависимо: true/false/1/0/yes/no/on/off.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBoolean, v)
	}
}

// ParseOffsetReset — earliest|latest (регистр не важен).
func ParseOffsetReset(v string) (OffsetReset, error) {
	switch r := OffsetReset(strings.ToLower(strings.TrimSpace(v))); r {
	case OffsetEarliest, OffsetLatest:
		return r, nil
	default:
		return "", invalid(KeyOffsetReset, v)
	}
}

// Properties — обратное преобразование в key=value (для печати нормализованной конфигурации).
func (c Consumer) Properties() map[string]string {
	props := map[string]string{
		KeyBootstrapServers:   strings.Join(c.Brokers, ","),
		KeyGroupID:            c.GroupID,
		KeyTopic:              c.Topic,
		KeyOffsetReset:        string(c.OffsetReset),
		KeyAutoCommit:         strconv.FormatBool(c.AutoCommit),
		KeyAutoCommitInterval: strconv.FormatInt(c.AutoCommitInterval.Milliseconds(), 10),
		KeyPollTimeout:        strconv.FormatInt(c.PollTimeout.Milliseconds(), 10),
		KeyMaxMessages:        strconv.Itoa(c.MaxMessages),
		KeyDriver:             string(c.Driver),
		KeyStopOnFatal:        strconv.FormatBool(c.StopOnFatal),
	}
	for k, v := range c.Passthrough {
		props[k] = v
	}
	return props
}

// SortedKeys — ключи в алфавитном порядке.
func SortedKeys(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// maxMillis — верхняя граница для *.ms ключей: librdkafka принимает таймаут как C int,
// отрицательное значение после сужения означает бесконечное ожидание.
const maxMillis = math.MaxInt32

// millis — положительное число миллисекунд в диапазоне (0, maxMillis].
func millis(key, v string) (time.Duration, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 || n > maxMillis {
		return 0, invalid(key, v)
	}
	return time.Duration(n) * time.Millisecond, nil
}

func missing(key string) error {
	return fmt.Errorf("%w: %w: %s", ErrConfig, ErrMissingField, key)
}

func invalid(key, v string) error {
	return fmt.Errorf("%w: %w: %s=%q", ErrConfig, ErrInvalidValue, key, v)
}
