package kafka

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/message"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/shutdown"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что Session удовлетворяет интерфейсам верхнего уровня (порты приложения).
var (
	_ ports.MessageConsumer  = (*Session)(nil)
	_ ports.SessionInspector = (*Session)(nil)
)

// State — состояние сессии консьюмера.
type State int32

const (
	StateUninitialized State = iota
	StateConfigured
	StateSubscribed
	StateRunning
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateSubscribed:
		return "subscribed"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session — жизненный цикл подписки: configure → init → start (poll-цикл) → close.
// Init/Start/Close вызываются из горутины-владельца; Stop и методы наблюдения — из любой.
type Session struct {
	mu         sync.Mutex
	state      State
	cfg        config.Consumer
	client     Client
	generation int  // число завершённых запусков
	initing    bool // Init держит dial/subscribe вне мьютекса

	dial    Dialer
	decoder *message.Decoder
	sink    ports.MessageSink
	log     ports.Logger
	tracer  trace.TracerProvider

	stop     shutdown.Signal
	consumed atomic.Int64
}

// Option — настройка Session.
type Option func(*Session)

// WithDialer — подменить фабрику клиента брокера (тесты, альтернативные драйверы).
func WithDialer(d Dialer) Option { return func(s *Session) { s.dial = d } }

// WithDecoder — свой набор извлекаемых полей.
func WithDecoder(d *message.Decoder) Option { return func(s *Session) { s.decoder = d } }

// WithSink — хук персистентности/аудита для декодированных сообщений.
func WithSink(sink ports.MessageSink) Option { return func(s *Session) { s.sink = sink } }

// WithTracerProvider — провайдер трейсинга (по умолчанию глобальный).
func WithTracerProvider(tp trace.TracerProvider) Option { return func(s *Session) { s.tracer = tp } }

// NewSession — конструктор; сессия в состоянии Uninitialized.
func NewSession(log ports.Logger, opts ...Option) *Session {
	s := &Session{
		state:   StateUninitialized,
		dial:    DialClient,
		decoder: message.NewDecoder(),
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadConfig — проверка key=value и переход в Configured.
// При ошибке состояние не меняется.
func (s *Session) LoadConfig(props map[string]string) error {
	cfg, err := config.Validate(props)
	if err != nil {
		return err
	}
	return s.Configure(cfg)
}

// Configure — то же, что LoadConfig, но с уже проверенной конфигурацией.
// Допустимо из Uninitialized, Configured и Closed (перезагрузка конфигурации).
func (s *Session) Configure(cfg config.Consumer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initing {
		return fmt.Errorf("%w: configure during init", ErrState)
	}
	switch s.state {
	case StateUninitialized, StateConfigured, StateClosed:
		s.cfg = cfg
		s.state = StateConfigured
		return nil
	default:
		return fmt.Errorf("%w: configure in state %s", ErrState, s.state)
	}
}

// Init — создаёт клиента, проверяет брокер и подписывается на топик: Configured|Closed → Subscribed.
// При ErrConnection состояние не меняется, Init можно повторить.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initing {
		s.mu.Unlock()
		return fmt.Errorf("%w: init already in progress", ErrState)
	}
	switch s.state {
	case StateConfigured, StateClosed:
	case StateUninitialized:
		s.mu.Unlock()
		return fmt.Errorf("%w: configuration is not loaded", ErrState)
	default:
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: init in state %s", ErrState, st)
	}
	cfg := s.cfg
	reload := s.generation > 0
	s.initing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.initing = false
		s.mu.Unlock()
	}()

	cl, err := s.dial(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if err := cl.Subscribe(ctx, cfg.Topic); err != nil {
		if cErr := cl.Close(); cErr != nil {
			s.log.Warnf(ctx, "close after failed subscribe: %v", cErr)
		}
		return fmt.Errorf("%w: subscribe topic=%s brokers=%v: %w", ErrConnection, cfg.Topic, cfg.Brokers, err)
	}

	s.mu.Lock()
	if reload {
		// перезапуск после Closed: новый сигнал остановки и счётчик
		s.stop.Reset()
		s.consumed.Store(0)
	}
	s.client = cl
	s.state = StateSubscribed
	s.mu.Unlock()

	s.log.Infof(ctx, "kafka consumer subscribed topic=%s group_id=%s brokers=%v driver=%s",
		cfg.Topic, cfg.GroupID, cfg.Brokers, cfg.Driver)
	return nil
}

// Start — запускает poll-цикл и блокируется до его завершения: Subscribed → Running → Closed.
// Отмена ctx равносильна Stop. Возвращает число обработанных записей.
func (s *Session) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.state != StateSubscribed {
		st := s.state
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: start in state %s", ErrState, st)
	}
	s.state = StateRunning
	cl, cfg := s.client, s.cfg
	s.mu.Unlock()

	// освобождение подписки на любом пути выхода
	defer s.teardown(ctx)

	s.pollLoop(ctx, cl, cfg)
	return s.Consumed(), nil
}

// Run — Init (если нужен) + Start; для слоя приложения.
func (s *Session) Run(ctx context.Context) error {
	switch s.State() {
	case StateConfigured, StateClosed:
		if err := s.Init(ctx); err != nil {
			return err
		}
	}
	_, err := s.Start(ctx)
	return err
}

// Stop — запрос кооперативной остановки. Не блокирует, идемпотентен, допустим в любом состоянии.
// Цикл увидит флаг на границе итерации (не позже одного poll-таймаута).
func (s *Session) Stop() {
	s.stop.Stop()

	s.mu.Lock()
	if s.state == StateRunning {
		s.state = StateStopping
	}
	s.mu.Unlock()
}

// Close — освобождает клиента, если сессия подписана, но цикл не запущен.
// Для работающего цикла равносильно Stop (освобождение выполнит сам цикл).
// Повторный вызов и вызов для неоткрытой сессии — no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	switch s.state {
	case StateRunning, StateStopping:
		s.mu.Unlock()
		s.Stop()
		return nil
	case StateSubscribed:
	default:
		s.mu.Unlock()
		return nil
	}
	cl := s.client
	s.client = nil
	s.mu.Unlock()

	ctx := context.Background()
	s.release(ctx, cl)

	s.mu.Lock()
	s.state = StateClosed
	s.generation++
	s.mu.Unlock()
	return nil
}

// State — текущее состояние.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) StateName() string { return s.State().String() }

// Healthy — подписка активна.
func (s *Session) Healthy() bool {
	st := s.State()
	return st == StateSubscribed || st == StateRunning
}

func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Topic
}

// Consumed — число записей, учтённых текущим (или последним) запуском.
func (s *Session) Consumed() int { return int(s.consumed.Load()) }

// Config — текущая конфигурация.
func (s *Session) Config() config.Consumer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// teardown — отписка и закрытие после выхода из цикла; ошибки только логируются.
func (s *Session) teardown(ctx context.Context) {
	s.mu.Lock()
	cl := s.client
	s.client = nil
	if s.state == StateRunning {
		s.state = StateStopping
	}
	s.mu.Unlock()

	s.release(ctx, cl)

	s.mu.Lock()
	s.state = StateClosed
	s.generation++
	s.mu.Unlock()

	s.log.Infof(ctx, "kafka consumer stopped consumed=%d", s.Consumed())
}

func (s *Session) release(ctx context.Context, cl Client) {
	if cl == nil {
		return
	}
	if err := cl.Unsubscribe(); err != nil {
		s.log.Warnf(ctx, "unsubscribe failed: %v", err)
	}
	if err := cl.Close(); err != nil {
		s.log.Warnf(ctx, "consumer close failed: %v", err)
	}
}
