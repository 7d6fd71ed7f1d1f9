package kafka

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader — подмена kafka.Reader.
type fakeReader struct {
	msgs      []kafkago.Message
	err       error
	fetched   int
	read      int
	committed []kafkago.Message
	closed    bool
}

func (f *fakeReader) next(ctx context.Context) (kafkago.Message, error) {
	if f.err != nil {
		return kafkago.Message{}, f.err
	}
	if len(f.msgs) == 0 {
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.fetched++
	return f.next(ctx)
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	f.read++
	return f.next(ctx)
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error { f.closed = true; return nil }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newTestKafkaGoClient(cfg config.Consumer, fr *fakeReader, dialErr map[string]error) (*kafkaGoClient, *kafkago.ReaderConfig) {
	var got kafkago.ReaderConfig
	c := &kafkaGoClient{
		cfg: cfg,
		dial: func(_ context.Context, _, addr string) (io.Closer, error) {
			if err := dialErr[addr]; err != nil {
				return nil, err
			}
			return nopCloser{}, nil
		},
		newReader: func(rc kafkago.ReaderConfig) reader {
			got = rc
			return fr
		},
	}
	return c, &got
}

func TestReaderConfig(t *testing.T) {
	tests := []struct {
		name           string
		autoCommit     bool
		reset          config.OffsetReset
		wantStart      int64
		wantCommitIntv time.Duration
	}{
		{"manual earliest", false, config.OffsetEarliest, kafkago.FirstOffset, 0},
		{"auto latest", true, config.OffsetLatest, kafkago.LastOffset, 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.autoCommit, 0)
			cfg.OffsetReset = tt.reset
			cfg.AutoCommitInterval = 3 * time.Second

			rc := ReaderConfig(cfg, "t1")
			assert.Equal(t, []string{"b1"}, rc.Brokers)
			assert.Equal(t, "g1", rc.GroupID)
			assert.Equal(t, "t1", rc.Topic)
			assert.Equal(t, tt.wantStart, rc.StartOffset)
			assert.Equal(t, tt.wantCommitIntv, rc.CommitInterval)
		})
	}
}

func TestKafkaGoClient_Subscribe_FirstReachableBroker(t *testing.T) {
	cfg := testConfig(false, 0)
	cfg.Brokers = []string{"down:9092", "up:9092"}
	fr := &fakeReader{}

	c, rc := newTestKafkaGoClient(cfg, fr, map[string]error{"down:9092": errors.New("connection refused")})
	require.NoError(t, c.Subscribe(context.Background(), "t1"))
	assert.Equal(t, "t1", rc.Topic)
	assert.NotNil(t, c.reader)
}

func TestKafkaGoClient_Subscribe_AllDown(t *testing.T) {
	cfg := testConfig(false, 0)
	c, _ := newTestKafkaGoClient(cfg, &fakeReader{}, map[string]error{"b1": errors.New("connection refused")})

	err := c.Subscribe(context.Background(), "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, c.reader)
}

func TestKafkaGoClient_Poll_Manual(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	fr := &fakeReader{msgs: []kafkago.Message{{Topic: "t1", Partition: 3, Offset: 8, Key: []byte("k"), Value: []byte("v"), Time: ts}}}
	c, _ := newTestKafkaGoClient(testConfig(false, 0), fr, nil)
	require.NoError(t, c.Subscribe(context.Background(), "t1"))

	r, err := c.Poll(context.Background(), testPollTimeout)
	require.NoError(t, err)
	assert.Equal(t, &Record{Topic: "t1", Partition: 3, Offset: 8, Key: []byte("k"), Value: []byte("v"), Timestamp: ts}, r)
	assert.Equal(t, 1, fr.fetched)
	assert.Equal(t, 0, fr.read)

	// пустой poll — ждём таймаут и возвращаем (nil, nil)
	r, err = c.Poll(context.Background(), testPollTimeout)
	assert.Nil(t, r)
	assert.NoError(t, err)

	require.NoError(t, c.Commit(context.Background(), &Record{Topic: "t1", Partition: 3, Offset: 8}))
	require.Len(t, fr.committed, 1)
	assert.Equal(t, int64(8), fr.committed[0].Offset)
	assert.Equal(t, 3, fr.committed[0].Partition)
}

func TestKafkaGoClient_Poll_AutoCommitUsesReadMessage(t *testing.T) {
	fr := &fakeReader{msgs: []kafkago.Message{{Topic: "t1"}}}
	c, _ := newTestKafkaGoClient(testConfig(true, 0), fr, nil)
	require.NoError(t, c.Subscribe(context.Background(), "t1"))

	_, err := c.Poll(context.Background(), testPollTimeout)
	require.NoError(t, err)
	assert.Equal(t, 1, fr.read)
	assert.Equal(t, 0, fr.fetched)
}

func TestKafkaGoClient_Poll_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"closed reader", io.EOF, KindFatal},
		{"non temporary", kafkago.TopicAuthorizationFailed, KindFatal},
		{"temporary", kafkago.RequestTimedOut, KindTransient},
		{"network", errors.New("connection reset"), KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestKafkaGoClient(testConfig(false, 0), &fakeReader{err: tt.err}, nil)
			require.NoError(t, c.Subscribe(context.Background(), "t1"))

			_, err := c.Poll(context.Background(), testPollTimeout)
			var pe *PollError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.want, pe.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestKafkaGoClient_NotSubscribed(t *testing.T) {
	c := newKafkaGoClient(testConfig(false, 0))

	_, err := c.Poll(context.Background(), testPollTimeout)
	var pe *PollError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindFatal, pe.Kind)

	require.Error(t, c.Commit(context.Background(), &Record{}))
	require.NoError(t, c.Close())
}

func TestKafkaGoClient_Close(t *testing.T) {
	fr := &fakeReader{}
	c, _ := newTestKafkaGoClient(testConfig(false, 0), fr, nil)
	require.NoError(t, c.Subscribe(context.Background(), "t1"))

	require.NoError(t, c.Unsubscribe())
	require.NoError(t, c.Close())
	assert.True(t, fr.closed)
	require.NoError(t, c.Close())
}
