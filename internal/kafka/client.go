package kafka

//go:generate mockgen -source=client.go -destination=mock_client_test.go -package=kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
)

var (
	// ErrConnection — брокер недоступен или подписка не удалась (фатально на старте).
	ErrConnection = errors.New("broker connection failed")
	// ErrState — операция недопустима в текущем состоянии сессии.
	ErrState = errors.New("invalid session state")
)

// Client — минимальный контракт над драйвером брокера.
// Сессия владеет клиентом эксклюзивно: все методы вызываются из одной горутины.
type Client interface {
	// Subscribe проверяет доступность брокера и подписывается на один топик.
	Subscribe(ctx context.Context, topic string) error
	// Poll ждёт запись не дольше timeout. (nil, nil) — за таймаут ничего не пришло;
	// не-записи (конец партиции, ошибки брокера) возвращаются как *PollError.
	Poll(ctx context.Context, timeout time.Duration) (*Record, error)
	Committer
	Unsubscribe() error
	Close() error
}

// Committer — явный коммит оффсета записи.
type Committer interface {
	Commit(ctx context.Context, rec *Record) error
}

// Dialer — создаёт клиента по конфигурации (без сетевого взаимодействия).
type Dialer func(cfg config.Consumer) (Client, error)

// DialClient — Dialer по умолчанию: выбирает драйвер по cfg.Driver.
func DialClient(cfg config.Consumer) (Client, error) {
	switch cfg.Driver {
	case config.DriverConfluent, "":
		return newConfluentClient(cfg)
	case config.DriverKafkaGo:
		return newKafkaGoClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
