package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListeners_UnsubscribeIsIdempotent(t *testing.T) {
	var l listeners
	var a, b int

	unsubA := l.add(func(AuthEvent) { a++ })
	l.add(func(AuthEvent) { b++ })

	l.emit(AuthEvent{Type: EventSignedIn})
	unsubA()
	unsubA()
	l.emit(AuthEvent{Type: EventSignedOut})

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestListeners_ListenerMayUnsubscribeDuringEmit(t *testing.T) {
	var l listeners
	calls := 0
	var unsub func()
	unsub = l.add(func(AuthEvent) {
		calls++
		unsub()
	})

	l.emit(AuthEvent{})
	l.emit(AuthEvent{})
	assert.Equal(t, 1, calls)
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status       int
		unauthorized bool
		unavailable  bool
	}{
		{http.StatusBadRequest, false, false},
		{http.StatusUnauthorized, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusInternalServerError, false, true},
		{http.StatusBadGateway, false, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{Status: tt.status})
			assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Email not confirmed", (&APIError{Status: 400, Message: "Email not confirmed"}).Error())
	assert.Equal(t, "Too Many Requests", (&APIError{Status: 429}).Error())
	assert.Equal(t, "auth service error", (&APIError{Status: 599}).Error())
}
