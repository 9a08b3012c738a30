package domain

import "errors"

// ErrInvalidEntity indica um DTO que viola as regras do modelo.
var ErrInvalidEntity = errors.New("invalid entity")
