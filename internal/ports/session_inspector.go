package ports

// SessionInspector — read-only взгляд на сессию консьюмера для ops-эндпоинтов.
type SessionInspector interface {
	StateName() string
	Healthy() bool
	Topic() string
	Consumed() int
}
