package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitPolicy_Auto_Skips(t *testing.T) {
	ctrl := gomock.NewController(t)
	committer := NewMockCommitter(ctrl)

	p := NewCommitPolicy(true, committer, nopLogger{})
	assert.Equal(t, CommitSkipped, p.AfterProcessing(context.Background(), rec(1, "k", "v")))
}

func TestCommitPolicy_Manual_Commits(t *testing.T) {
	ctrl := gomock.NewController(t)
	committer := NewMockCommitter(ctrl)

	r := &Record{Topic: "commit-ok", Offset: 10}
	before := testutil.ToFloat64(metrics.KafkaCommits.WithLabelValues("commit-ok", "committed"))

	committer.EXPECT().Commit(gomock.Any(), r).DoAndReturn(func(ctx context.Context, _ *Record) error {
		dl, ok := ctx.Deadline()
		require.True(t, ok)
		assert.LessOrEqual(t, time.Until(dl), commitTimeout)
		return nil
	})

	p := NewCommitPolicy(false, committer, nopLogger{})
	assert.Equal(t, Committed, p.AfterProcessing(context.Background(), r))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.KafkaCommits.WithLabelValues("commit-ok", "committed")))
}

func TestCommitPolicy_Manual_FailureAbsorbed(t *testing.T) {
	ctrl := gomock.NewController(t)
	committer := NewMockCommitter(ctrl)

	r := &Record{Topic: "commit-fail", Offset: 3}
	before := testutil.ToFloat64(metrics.KafkaCommits.WithLabelValues("commit-fail", "failed"))
	committer.EXPECT().Commit(gomock.Any(), r).Return(errors.New("rebalance in progress"))

	p := NewCommitPolicy(false, committer, nopLogger{})
	assert.Equal(t, CommitFailed, p.AfterProcessing(context.Background(), r))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.KafkaCommits.WithLabelValues("commit-fail", "failed")))
}

func TestCommitPolicy_Manual_IgnoresParentCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	committer := NewMockCommitter(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	committer.EXPECT().Commit(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ *Record) error {
		return ctx.Err()
	})

	p := NewCommitPolicy(false, committer, nopLogger{})
	assert.Equal(t, Committed, p.AfterProcessing(ctx, rec(0, "", "")))
}

func TestCommitOutcome_String(t *testing.T) {
	assert.Equal(t, "skipped", CommitSkipped.String())
	assert.Equal(t, "committed", Committed.String())
	assert.Equal(t, "failed", CommitFailed.String())
	assert.Equal(t, "unknown", CommitOutcome(9).String())
}
