package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("already converted", map[string]any{"id": "c1"})

	mapped := ToDomainError(original)
	require.Equal(t, "CONFLICT", mapped.Code)
	require.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	require.Equal(t, "c1", mapped.Details["id"])
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading client: %w", NewNotFound("client", nil))

	mapped := ToDomainError(wrapped)
	require.Equal(t, "NOT_FOUND", mapped.Code)
	require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, "NOT_FOUND", mapped.Code)
	require.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("connection reset"))
	require.Equal(t, "INTERNAL_ERROR", mapped.Code)
	require.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	require.ErrorContains(t, mapped, "connection reset")
}

func TestToDomainErrorNil(t *testing.T) {
	require.Nil(t, ToDomainError(nil))
}
