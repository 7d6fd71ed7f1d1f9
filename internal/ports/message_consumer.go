package ports

import "context"

// MessageConsumer — долгоживущий потребитель, которым управляет слой приложения.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Stop()
	Close() error
}
