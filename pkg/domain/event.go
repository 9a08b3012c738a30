package domain

// Event representa um evento no sistema.
type Event[T any] interface {
	EventName() string
	Payload() T
}

type namedEvent[T any] struct {
	name    string
	payload T
}

func (e namedEvent[T]) EventName() string {
	return e.name
}

func (e namedEvent[T]) Payload() T {
	return e.payload
}

// NewEvent cria um evento genérico. Os adaptadores de transporte usam esta
// função para reconstruir eventos recebidos a partir do nome do tópico.
func NewEvent[T any](name string, payload T) Event[T] {
	return namedEvent[T]{name: name, payload: payload}
}
