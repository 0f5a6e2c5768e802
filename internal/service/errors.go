package service

import "errors"

// Domain errors handlers translate to HTTP statuses. Services wrap them with
// the user-facing message: fmt.Errorf("%w: el rol ya existe", ErrConflicto).
var (
	ErrNoEncontrado = errors.New("no encontrado")
	ErrConflicto    = errors.New("conflicto")
	ErrProtegido    = errors.New("recurso protegido")
	ErrInvalido     = errors.New("datos inválidos")
	ErrSinPermiso   = errors.New("sin permiso")
)
