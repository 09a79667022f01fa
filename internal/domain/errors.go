package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describe un campo invalido del formulario de registro.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors agrupa los errores de validacion de un envio.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransportKind clasifica las fallas de un colaborador remoto.
type TransportKind string

const (
	KindUnreachable  TransportKind = "unreachable"
	KindNotFound     TransportKind = "not_found"
	KindInvalidInput TransportKind = "invalid_input"
	KindUnauthorized TransportKind = "unauthorized"
	KindServer       TransportKind = "server_error"
)

// TransportError es una falla de red o una respuesta no-2xx de un colaborador.
type TransportError struct {
	Op      string
	Kind    TransportKind
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status=%d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError indica una sesion vencida o ausente.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthError reporta si err (o algun error envuelto) es un AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// UserMessage devuelve el mensaje del colaborador si existe.
func UserMessage(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Message
	}
	return ""
}
