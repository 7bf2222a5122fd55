// internal/apperr/apperr.go

package apperr

import (
	"errors"
	"fmt"
)

// Kind rozróżnia klasy błędów pipeline'u wklejania.
type Kind int

const (
	ConfigError Kind = iota
	ProcessUnavailable
	ConnectionFailed
	AuthenticationFailed
	TransferFailed
	VerificationFailed
	ClipboardError
	OversizedArtifact
)

// AppError niesie klasę błędu razem z komunikatem i przyczyną.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New tworzy nowy AppError danej klasy.
func New(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsKind sprawdza czy błąd (lub jego przyczyna) należy do danej klasy.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
