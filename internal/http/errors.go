package http

import (
	"errors"
	"net/http"

	"neohealth/internal/domain"
)

// collaboratorStatus traduce una falla de colaborador a un codigo HTTP.
func collaboratorStatus(err error) int {
	if domain.IsAuthError(err) {
		return http.StatusUnauthorized
	}
	var te *domain.TransportError
	if !errors.As(err, &te) {
		return http.StatusBadGateway
	}
	switch te.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func collaboratorMessage(err error, fallback string) string {
	if msg := domain.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}
