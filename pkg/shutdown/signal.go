// Пакет shutdown — кооперативная остановка: флаг, который выставляет внешний вызывающий,
// и подключение OS-сигналов к конкретному экземпляру (без глобального указателя).
package shutdown

import (
	"sync"
	"sync/atomic"
)

// Signal — флаг остановки с одним писателем-инициатором и многими читателями.
// Нулевое значение готово к использованию.
type Signal struct {
	stopped atomic.Bool
	mu      sync.Mutex
	done    chan struct{}
}

// Stop выставляет флаг. Повторные вызовы ничего не делают.
func (s *Signal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		return
	}
	s.stopped.Store(true)
	close(s.doneLocked())
}

// Stopped — выставлен ли флаг.
func (s *Signal) Stopped() bool { return s.stopped.Load() }

// Done закрывается при первом Stop.
func (s *Signal) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneLocked()
}

// Reset снимает флаг (повторная инициализация сессии после Closed).
func (s *Signal) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		s.done = make(chan struct{})
		s.stopped.Store(false)
	}
}

func (s *Signal) doneLocked() chan struct{} {
	if s.done == nil {
		s.done = make(chan struct{})
	}
	return s.done
}
