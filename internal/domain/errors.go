package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio; la capa HTTP traduce cada Kind a un status.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInvalidState
	KindHasDependents
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindHasDependents:
		return "HAS_DEPENDENTS"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// Error es un error de dominio con mensaje legible para el usuario final.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is hace que cualquier *Error coincida con el sentinel de su mismo Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errores de dominio (sin dependencias externas). Sirven como sentinels para errors.Is.
var (
	ErrInternal      = &Error{Kind: KindInternal, Message: "error interno"}
	ErrInvalidInput  = &Error{Kind: KindValidation, Message: "entrada inválida"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "recurso no encontrado"}
	ErrConflict      = &Error{Kind: KindConflict, Message: "recurso duplicado"}
	ErrInvalidState  = &Error{Kind: KindInvalidState, Message: "operación no permitida en el estado actual"}
	ErrHasDependents = &Error{Kind: KindHasDependents, Message: "el recurso tiene dependencias"}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized, Message: "no autorizado"}
	ErrForbidden     = &Error{Kind: KindForbidden, Message: "acceso denegado"}
)

// Errorf construye un error de dominio del Kind indicado.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation, NotFound, Conflict, InvalidState y HasDependents son atajos de Errorf.
func Validation(format string, args ...any) error    { return Errorf(KindValidation, format, args...) }
func NotFound(format string, args ...any) error      { return Errorf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) error      { return Errorf(KindConflict, format, args...) }
func InvalidState(format string, args ...any) error  { return Errorf(KindInvalidState, format, args...) }
func HasDependents(format string, args ...any) error { return Errorf(KindHasDependents, format, args...) }

// KindOf devuelve el Kind de err; cualquier error ajeno al dominio es KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf devuelve el mensaje para el usuario; los errores internos no exponen detalle.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindInternal {
		return de.Message
	}
	return ErrInternal.Message
}
