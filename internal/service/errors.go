package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidApiKey      = errors.New("invalid or expired api key")
)

// QuestionNotFoundError means no question row exists for the id.
type QuestionNotFoundError struct {
	ID int64
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("question not found for id: %d", e.ID)
}

// ProgramNotFoundError means no program row exists for the id.
type ProgramNotFoundError struct {
	ID int64
}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("program not found for id: %d", e.ID)
}

// InvalidUpdateError rejects a question update that changes immutable
// identity fields. Reasons lists every mismatched field, not just the
// first one found.
type InvalidUpdateError struct {
	Reasons []string
}

func (e *InvalidUpdateError) Error() string {
	return "invalid question update: " + strings.Join(e.Reasons, "; ")
}

// UnsupportedOperationError rejects an operation the receiving service
// cannot perform, like asking a historical snapshot for draft state.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return "unsupported operation: " + e.Operation
}
