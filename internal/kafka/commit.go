package kafka

import (
	"context"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
)

// commitTimeout — верхняя граница одного явного коммита.
const commitTimeout = 5 * time.Second

// CommitOutcome — результат политики коммита для одной записи.
type CommitOutcome int

const (
	CommitSkipped CommitOutcome = iota // авто-коммит: брокер коммитит сам
	Committed
	CommitFailed
)

func (o CommitOutcome) String() string {
	switch o {
	case CommitSkipped:
		return "skipped"
	case Committed:
		return "committed"
	case CommitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CommitPolicy решает, нужен ли явный коммит после обработки записи.
// Реализации никогда не возвращают ошибку наружу: цикл не должен вставать из-за коммита.
type CommitPolicy interface {
	AfterProcessing(ctx context.Context, rec *Record) CommitOutcome
}

// NewCommitPolicy — ручной коммит при autoCommit=false, иначе no-op.
func NewCommitPolicy(autoCommit bool, committer Committer, log ports.Logger) CommitPolicy {
	if autoCommit {
		return autoCommitPolicy{}
	}
	return &manualCommitPolicy{committer: committer, log: log}
}

type autoCommitPolicy struct{}

func (autoCommitPolicy) AfterProcessing(context.Context, *Record) CommitOutcome { return CommitSkipped }

type manualCommitPolicy struct {
	committer Committer
	log       ports.Logger
}

// AfterProcessing коммитит оффсет записи. Коммит выполняется и после запроса остановки,
// поэтому отмена родительского контекста на него не распространяется.
func (p *manualCommitPolicy) AfterProcessing(ctx context.Context, rec *Record) CommitOutcome {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	if err := p.committer.Commit(commitCtx, rec); err != nil {
		// at-least-once: при рестарте запись придёт повторно
		metrics.KafkaCommits.WithLabelValues(rec.Topic, "failed").Inc()
		p.log.Warnf(ctx, "commit failed offset=%d: %v", rec.Offset, err)
		return CommitFailed
	}

	metrics.KafkaCommits.WithLabelValues(rec.Topic, "committed").Inc()
	return Committed
}
