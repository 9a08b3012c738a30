package domain

// Command representa uma intenção de alterar o estado do sistema.
type Command[T any] interface {
	CommandName() string
	Payload() T
}

type namedCommand[T any] struct {
	name    string
	payload T
}

func (c namedCommand[T]) CommandName() string {
	return c.name
}

func (c namedCommand[T]) Payload() T {
	return c.payload
}

// NewCommand cria um comando genérico identificado pelo nome.
func NewCommand[T any](name string, payload T) Command[T] {
	return namedCommand[T]{name: name, payload: payload}
}
