package kafka

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	ckafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// metadataTimeout — сколько ждать метаданных при проверке доступности брокера.
const metadataTimeout = 5 * time.Second

// confluentConsumer — используемая часть *ckafka.Consumer.
type confluentConsumer interface {
	GetMetadata(topic *string, allTopics bool, timeoutMs int) (*ckafka.Metadata, error)
	SubscribeTopics(topics []string, rebalanceCb ckafka.RebalanceCb) error
	Poll(timeoutMs int) ckafka.Event
	CommitOffsets(offsets []ckafka.TopicPartition) ([]ckafka.TopicPartition, error)
	Unsubscribe() error
	Close() error
}

// confluentClient — драйвер на librdkafka (confluent-kafka-go).
type confluentClient struct {
	consumer confluentConsumer
}

var _ Client = (*confluentClient)(nil)

func newConfluentClient(cfg config.Consumer) (*confluentClient, error) {
	cm := ConfluentConfigMap(cfg)
	c, err := ckafka.NewConsumer(&cm)
	if err != nil {
		return nil, err
	}
	return &confluentClient{consumer: c}, nil
}

// ConfluentConfigMap — конфигурация librdkafka. Passthrough-ключи идут первыми,
// чтобы явные поля конфигурации всегда имели приоритет.
func ConfluentConfigMap(cfg config.Consumer) ckafka.ConfigMap {
	cm := ckafka.ConfigMap{}
	for k, v := range cfg.Passthrough {
		cm[k] = v
	}

	cm["bootstrap.servers"] = strings.Join(cfg.Brokers, ",")
	cm["group.id"] = cfg.GroupID
	cm["auto.offset.reset"] = string(cfg.OffsetReset)
	cm["enable.auto.commit"] = cfg.AutoCommit
	// EOF партиции приходит отдельным событием — цикл его логирует и продолжает.
	cm["enable.partition.eof"] = true

	if cfg.AutoCommit && cfg.AutoCommitInterval > 0 {
		cm["auto.commit.interval.ms"] = int(cfg.AutoCommitInterval.Milliseconds())
	}
	return cm
}

func (c *confluentClient) Subscribe(ctx context.Context, topic string) error {
	timeout := metadataTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	if _, err := c.consumer.GetMetadata(&topic, false, int(timeout.Milliseconds())); err != nil {
		return err
	}
	return c.consumer.SubscribeTopics([]string{topic}, nil)
}

func (c *confluentClient) Poll(_ context.Context, timeout time.Duration) (*Record, error) {
	switch e := c.consumer.Poll(pollMillis(timeout)).(type) {
	case nil:
		return nil, nil

	case *ckafka.Message:
		tp := e.TopicPartition
		if tp.Error != nil {
			return nil, &PollError{
				Kind:      confluentKind(tp.Error),
				Topic:     deref(tp.Topic),
				Partition: tp.Partition,
				Offset:    int64(tp.Offset),
				Err:       tp.Error,
			}
		}
		return &Record{
			Topic:     deref(tp.Topic),
			Partition: tp.Partition,
			Offset:    int64(tp.Offset),
			Key:       e.Key,
			Value:     e.Value,
			Timestamp: e.Timestamp,
		}, nil

	case ckafka.PartitionEOF:
		return nil, &PollError{
			Kind:      KindEndOfPartition,
			Topic:     deref(e.Topic),
			Partition: e.Partition,
			Offset:    int64(e.Offset),
			Err:       e.Error,
		}

	case ckafka.Error:
		return nil, &PollError{Kind: confluentKind(e), Err: e}

	default:
		// Ребалансы, статистика, OffsetsCommitted — не записи.
		return nil, nil
	}
}

// Commit — коммитит следующий за записью оффсет (семантика Kafka: "следующий к чтению").
func (c *confluentClient) Commit(_ context.Context, rec *Record) error {
	topic := rec.Topic
	_, err := c.consumer.CommitOffsets([]ckafka.TopicPartition{{
		Topic:     &topic,
		Partition: rec.Partition,
		Offset:    ckafka.Offset(rec.Offset + 1),
	}})
	return err
}

func (c *confluentClient) Unsubscribe() error { return c.consumer.Unsubscribe() }

func (c *confluentClient) Close() error { return c.consumer.Close() }

// pollMillis — таймаут в пределах C int и не меньше 1 мс: отрицательное значение
// librdkafka трактует как бесконечное ожидание.
func pollMillis(timeout time.Duration) int {
	ms := timeout.Milliseconds()
	switch {
	case ms < 1:
		return 1
	case ms > math.MaxInt32:
		return math.MaxInt32
	default:
		return int(ms)
	}
}

// confluentKind — классификация ошибки librdkafka.
func confluentKind(err error) ErrorKind {
	var ke ckafka.Error
	if !errors.As(err, &ke) {
		return KindTransient
	}
	switch {
	case ke.Code() == ckafka.ErrPartitionEOF:
		return KindEndOfPartition
	case ke.IsFatal():
		return KindFatal
	default:
		return KindTransient
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
