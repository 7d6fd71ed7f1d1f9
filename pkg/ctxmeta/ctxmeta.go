// Пакет ctxmeta — нейтральный слой для работы с метаданными,
// которые прокидываются через context.Context (request_id, координаты записи, trace_id).
// Идея: консьюмер, HTTP-слой и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import (
	"context"
	"fmt"
)

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyRecord    ctxKey = "record"
)

// Record — координаты записи Kafka, которая сейчас обрабатывается.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
}

// String — компактное представление "topic/partition@offset".
func (r Record) String() string {
	return fmt.Sprintf("%s/%d@%d", r.Topic, r.Partition, r.Offset)
}

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRecord кладёт координаты записи в контекст.
func WithRecord(ctx context.Context, rec Record) context.Context {
	if ctx == nil || rec.Topic == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRecord, rec)
}

// RecordFromContext достаёт координаты записи из контекста.
func RecordFromContext(ctx context.Context) (Record, bool) {
	if ctx == nil {
		return Record{}, false
	}
	rec, ok := ctx.Value(KeyRecord).(Record)
	return rec, ok
}
