package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDomainErrorsUnwrapToKind(t *testing.T) {
	require.ErrorIs(t, ErrTaskNotFound, ErrNotFound)
	require.ErrorIs(t, ErrNotAssignee, ErrForbidden)
	require.ErrorIs(t, ErrAssignmentNotPending, ErrInvalidState)
	require.ErrorIs(t, fmt.Errorf("wrapped: %w", ErrDuplicateProject), ErrConflict)
	require.False(t, errors.Is(ErrTaskNotFound, ErrForbidden))
	require.Equal(t, "task not found", ErrTaskNotFound.Error())
}

func TestNotFoundTranslatesRecordNotFound(t *testing.T) {
	require.Equal(t, ErrProjectNotFound, notFound(gorm.ErrRecordNotFound, ErrProjectNotFound))

	other := errors.New("boom")
	require.Equal(t, other, notFound(other, ErrProjectNotFound))
}
