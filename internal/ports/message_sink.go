package ports

import (
	"context"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/message"
)

// MessageSink — точка расширения для персистентности/аудита декодированных сообщений.
// Ошибка sink'а не останавливает цикл и не отменяет коммит.
type MessageSink interface {
	Handle(ctx context.Context, msg *message.Decoded) error
}
