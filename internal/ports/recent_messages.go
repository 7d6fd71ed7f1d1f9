package ports

import (
	"context"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/message"
)

// RecentMessages — чтение последних сообщений по ключу для ops-эндпоинтов.
type RecentMessages interface {
	Get(ctx context.Context, key string) (*message.Seen, bool)
	List(ctx context.Context, limit, offset int) []message.Seen
}
