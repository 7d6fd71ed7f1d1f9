package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

const testPollTimeout = 10 * time.Millisecond

func testConfig(autoCommit bool, maxMessages int) config.Consumer {
	return config.Consumer{
		Brokers:     []string{"b1"},
		GroupID:     "g1",
		Topic:       "t1",
		OffsetReset: config.OffsetEarliest,
		AutoCommit:  autoCommit,
		PollTimeout: testPollTimeout,
		MaxMessages: maxMessages,
		Driver:      config.DriverConfluent,
	}
}

func rec(offset int64, key, value string) *Record {
	r := &Record{Topic: "t1", Partition: 0, Offset: offset, Value: []byte(value)}
	if key != "" {
		r.Key = []byte(key)
	}
	return r
}

// pollStep — один результат Poll.
type pollStep struct {
	rec *Record
	err error
}

// feed — Poll по заготовленным шагам; когда шаги кончились, ведёт себя как пустой poll (ждёт timeout).
func feed(steps ...pollStep) func(context.Context, time.Duration) (*Record, error) {
	var mu sync.Mutex
	return func(_ context.Context, timeout time.Duration) (*Record, error) {
		mu.Lock()
		if len(steps) > 0 {
			st := steps[0]
			steps = steps[1:]
			mu.Unlock()
			return st.rec, st.err
		}
		mu.Unlock()
		time.Sleep(timeout)
		return nil, nil
	}
}

func dialerFor(cl Client) Dialer {
	return func(config.Consumer) (Client, error) { return cl, nil }
}
