package kafka

import (
	"fmt"
	"time"
)

// Record — успешно полученная запись; потребляется ровно один раз.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte // nil, если ключа нет
	Value     []byte
	Timestamp time.Time
}

// ErrorKind — индикатор ошибки результата Poll.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindEndOfPartition
	KindTransient
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEndOfPartition:
		return "eof"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PollError — не-запись, которую вернул Poll: конец партиции или ошибка брокера.
type PollError struct {
	Kind      ErrorKind
	Topic     string
	Partition int32
	Offset    int64
	Err       error
}

func (e *PollError) Error() string {
	where := ""
	if e.Topic != "" {
		where = fmt.Sprintf(" %s/%d@%d", e.Topic, e.Partition, e.Offset)
	}
	if e.Err == nil {
		return fmt.Sprintf("poll %s%s", e.Kind, where)
	}
	return fmt.Sprintf("poll %s%s: %v", e.Kind, where, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }
