package pkg

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("table unavailable")
	err := NewDomainError("PERSISTENCE_ERROR", "Storage unavailable", cause, http.StatusServiceUnavailable)

	assert.Equal(t, "PERSISTENCE_ERROR: Storage unavailable: table unavailable", err.Error())
	assert.True(t, errors.Is(err, cause))

	body := err.WithDetail("retry", true).ToHTTPError()
	assert.Equal(t, "PERSISTENCE_ERROR", body.Code)
	assert.Equal(t, true, body.Details["retry"])

	simple := NewDomainErrorSimple("NOT_FOUND", "Assessment not found", http.StatusNotFound)
	assert.Equal(t, "NOT_FOUND: Assessment not found", simple.Error())
	assert.Nil(t, simple.ToHTTPError().Details)
	assert.Nil(t, simple.Unwrap())
}
