package domain

// IDGenerator gera identificadores únicos (checkouts, sessões, chaves de idempotência).
type IDGenerator[T comparable] func() T
