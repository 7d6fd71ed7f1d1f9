package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
)

// Stopper — всё, что умеет принимать запрос на остановку.
type Stopper interface {
	Stop()
}

// Notify подписывается на OS-сигналы (по умолчанию SIGINT/SIGTERM) и
// на первый из них вызывает stopper.Stop(). Возвращает функцию отписки.
func Notify(ctx context.Context, stopper Stopper, log ports.Logger, sigs ...os.Signal) func() {
	if len(sigs) == 0 {
		sigs = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	quit := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			log.Infof(ctx, "signal received (%s), stopping consumer", sig)
			stopper.Stop()
		case <-ctx.Done():
		case <-quit:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(quit)
	}
}
