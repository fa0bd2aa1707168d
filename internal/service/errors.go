package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds. Handlers map each kind to an HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

// DomainError is a failure with a user facing message and a kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrProjectNotFound    = newError(ErrNotFound, "project not found")
	ErrTaskNotFound       = newError(ErrNotFound, "task not found")
	ErrAssigneeNotFound   = newError(ErrNotFound, "assignee not found")
	ErrGenerationNotFound = newError(ErrNotFound, "ai generation not found")
	ErrDeploymentNotFound = newError(ErrNotFound, "deployment not found")
	ErrStackNotFound      = newError(ErrNotFound, "project stack not configured")

	ErrProjectAccessDenied = newError(ErrForbidden, "you do not have access to this project")
	ErrProjectModifyDenied = newError(ErrForbidden, "you cannot modify this project")
	ErrProjectManageDenied = newError(ErrForbidden, "only the project owner or an admin can do this")
	ErrCICDDenied          = newError(ErrForbidden, "you cannot generate pipelines for this project")
	ErrTaskEditDenied      = newError(ErrForbidden, "you cannot edit this task")
	ErrNotAssignee         = newError(ErrForbidden, "you are not assigned to this task")

	ErrAssignmentNotPending  = newError(ErrInvalidState, "assignment already processed")
	ErrAssignmentNotAccepted = newError(ErrInvalidState, "must accept assignment first")
	ErrTaskAlreadyStarted    = newError(ErrInvalidState, "task is already being worked on")
	ErrDeploymentFinished    = newError(ErrInvalidState, "deployment already finished")
	ErrGenerationIncomplete  = newError(ErrInvalidState, "ai generation has no completed output")

	ErrDuplicateUser    = newError(ErrConflict, "username or email already registered")
	ErrDuplicateProject = newError(ErrConflict, "project name already exists")

	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid username or password")
	ErrInactiveUser       = newError(ErrUnauthorized, "user account is inactive")

	ErrNotAStudent       = newError(ErrInvalidInput, "user does not have the student role")
	ErrNotASupervisor    = newError(ErrInvalidInput, "user does not have the supervisor role")
	ErrInvalidRole       = newError(ErrInvalidInput, "unknown role")
	ErrEmptyContent      = newError(ErrInvalidInput, "content empty after sanitization")
	ErrExportUnavailable = newError(ErrInvalidInput, "artifact export is not configured")
)

// notFound translates gorm.ErrRecordNotFound into the given domain error.
func notFound(err error, domain error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain
	}
	return err
}
