package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	kafkago "github.com/segmentio/kafka-go"
)

// dialTimeout — таймаут TCP-проверки брокера перед созданием reader'а.
const dialTimeout = 5 * time.Second

// reader — минимальный контракт над источником (kafka.Reader),
// чтобы легко подменять его в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// kafkaGoClient — драйвер на segmentio/kafka-go.
type kafkaGoClient struct {
	cfg       config.Consumer
	dial      func(ctx context.Context, network, address string) (io.Closer, error)
	newReader func(kafkago.ReaderConfig) reader
	reader    reader
}

var _ Client = (*kafkaGoClient)(nil)

func newKafkaGoClient(cfg config.Consumer) *kafkaGoClient {
	d := &kafkago.Dialer{Timeout: dialTimeout}
	return &kafkaGoClient{
		cfg: cfg,
		dial: func(ctx context.Context, network, address string) (io.Closer, error) {
			return d.DialContext(ctx, network, address)
		},
		newReader: func(rc kafkago.ReaderConfig) reader { return kafkago.NewReader(rc) },
	}
}

// ReaderConfig — настройки kafka.Reader. При ручном коммите CommitInterval=0
// (синхронный CommitMessages), при авто-коммите — периодический фоновый коммит.
func ReaderConfig(cfg config.Consumer, topic string) kafkago.ReaderConfig {
	rc := kafkago.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   topic,
	}

	if cfg.AutoCommit {
		rc.CommitInterval = cfg.AutoCommitInterval
	}

	switch cfg.OffsetReset {
	case config.OffsetEarliest:
		rc.StartOffset = kafkago.FirstOffset
	default:
		rc.StartOffset = kafkago.LastOffset
	}

	return rc
}

func (c *kafkaGoClient) Subscribe(ctx context.Context, topic string) error {
	// kafka-go подключается лениво — проверяем, что хотя бы один брокер отвечает.
	var lastErr error
	for _, addr := range c.cfg.Brokers {
		conn, err := c.dial(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		lastErr = nil
		break
	}
	if lastErr != nil {
		return fmt.Errorf("dial brokers %v: %w", c.cfg.Brokers, lastErr)
	}

	c.reader = c.newReader(ReaderConfig(c.cfg, topic))
	return nil
}

func (c *kafkaGoClient) Poll(ctx context.Context, timeout time.Duration) (*Record, error) {
	if c.reader == nil {
		return nil, &PollError{Kind: KindFatal, Err: errors.New("reader is not subscribed")}
	}

	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		msg kafkago.Message
		err error
	)
	if c.cfg.AutoCommit {
		// ReadMessage помечает запись для фонового коммита.
		msg, err = c.reader.ReadMessage(pollCtx)
	} else {
		msg, err = c.reader.FetchMessage(pollCtx)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, &PollError{Kind: kafkaGoKind(err), Topic: c.cfg.Topic, Err: err}
	}

	return &Record{
		Topic:     msg.Topic,
		Partition: int32(msg.Partition),
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Timestamp: msg.Time,
	}, nil
}

func (c *kafkaGoClient) Commit(ctx context.Context, rec *Record) error {
	if c.reader == nil {
		return errors.New("reader is not subscribed")
	}
	return c.reader.CommitMessages(ctx, kafkago.Message{
		Topic:     rec.Topic,
		Partition: int(rec.Partition),
		Offset:    rec.Offset,
	})
}

// Unsubscribe — у kafka-go группа покидается при Close.
func (c *kafkaGoClient) Unsubscribe() error { return nil }

func (c *kafkaGoClient) Close() error {
	if c.reader == nil {
		return nil
	}
	err := c.reader.Close()
	c.reader = nil
	return err
}

// kafkaGoKind — io.EOF означает закрытый reader; не-временные ошибки протокола считаем фатальными.
func kafkaGoKind(err error) ErrorKind {
	if errors.Is(err, io.EOF) {
		return KindFatal
	}
	var ke kafkago.Error
	if errors.As(err, &ke) && !ke.Temporary() {
		return KindFatal
	}
	return KindTransient
}
