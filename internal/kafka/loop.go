package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/ctxmeta"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/telemetry"
)

// pollLoop — poll → classify → process → commit → count.
// Выход: сигнал остановки, отмена ctx, достигнут max.messages или fatal при stop.on.fatal.
func (s *Session) pollLoop(ctx context.Context, cl Client, cfg config.Consumer) {
	policy := NewCommitPolicy(cfg.AutoCommit, cl, s.log)

	s.log.Infof(ctx, "kafka consumer started topic=%s poll_timeout=%s max_messages=%d auto_commit=%t",
		cfg.Topic, cfg.PollTimeout, cfg.MaxMessages, cfg.AutoCommit)

	// Stop прерывает и ожидающий poll: драйверы, которые слушают ctx, вернутся сразу.
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func(stopped <-chan struct{}) {
		select {
		case <-stopped:
			cancel()
		case <-pollCtx.Done():
		}
	}(s.stop.Done())

	for {
		// флаг проверяется до poll: после Stop новых записей не берём
		if s.stop.Stopped() || ctx.Err() != nil {
			return
		}

		rec, err := cl.Poll(pollCtx, cfg.PollTimeout)
		if err != nil {
			if s.onPollError(ctx, cfg, err) {
				return
			}
			continue
		}
		if rec == nil {
			continue
		}

		s.process(ctx, rec, policy)

		n := s.consumed.Add(1)
		metrics.KafkaMessagesConsumed.WithLabelValues(rec.Topic).Inc()
		if cfg.MaxMessages > 0 && n >= int64(cfg.MaxMessages) {
			s.log.Infof(ctx, "max.messages reached: %d", n)
			return
		}
	}
}

// onPollError — классификация не-записей. true — цикл должен завершиться.
func (s *Session) onPollError(ctx context.Context, cfg config.Consumer, err error) bool {
	var pe *PollError
	if !errors.As(err, &pe) {
		pe = &PollError{Kind: KindTransient, Topic: cfg.Topic, Err: err}
	}
	metrics.KafkaPollEvents.WithLabelValues(cfg.Topic, pe.Kind.String()).Inc()

	switch pe.Kind {
	case KindEndOfPartition:
		s.log.Debugf(ctx, "end of partition %d offset=%d", pe.Partition, pe.Offset)
	case KindFatal:
		s.log.Errorf(ctx, "fatal consumer error: %v", pe)
		if cfg.StopOnFatal {
			return true
		}
	default:
		s.log.Warnf(ctx, "consumer error: %v", pe)
	}
	return false
}

// process — декодирование, хук и коммит одной записи. Паника на любом шаге
// перехватывается: запись всё равно считается обработанной.
func (s *Session) process(ctx context.Context, rec *Record, policy CommitPolicy) {
	ctx = ctxmeta.WithRecord(ctx, ctxmeta.Record{Topic: rec.Topic, Partition: rec.Partition, Offset: rec.Offset})
	ctx, span := telemetry.StartConsumeSpan(ctx, s.tracer, rec.Topic, rec.Partition, rec.Offset)
	defer span.End()

	if err := s.safely(ctx, "handle", func() error { return s.handle(ctx, rec) }); err != nil {
		telemetry.RecordError(span, err)
	}
	_ = s.safely(ctx, "commit", func() error {
		if policy.AfterProcessing(ctx, rec) == CommitFailed {
			return errors.New("commit failed")
		}
		return nil
	})
}

func (s *Session) handle(ctx context.Context, rec *Record) error {
	msg, err := s.decoder.Decode(rec.Key, rec.Value)
	s.log.Infof(ctx, "[CONSUMED] partition=%d offset=%d %s", rec.Partition, rec.Offset, msg)
	if err != nil {
		metrics.KafkaMessagesFailed.WithLabelValues(rec.Topic).Inc()
		s.log.Warnf(ctx, "structured extraction failed offset=%d: %v", rec.Offset, err)
	} else {
		metrics.KafkaMessagesDecoded.WithLabelValues(rec.Topic).Inc()
	}

	if s.sink == nil {
		return err
	}
	if sErr := s.sink.Handle(ctx, msg); sErr != nil {
		metrics.KafkaMessagesFailed.WithLabelValues(rec.Topic).Inc()
		s.log.Errorf(ctx, "sink failed offset=%d: %v", rec.Offset, sErr)
		return errors.Join(err, sErr)
	}
	return err
}

func (s *Session) safely(ctx context.Context, stage string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panic: %v", stage, r)
			s.log.Errorf(ctx, "recovered %v", err)
		}
	}()
	return fn()
}
