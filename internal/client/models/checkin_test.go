package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theyard/yard/internal/common"
)

func TestNextCheckInType(t *testing.T) {
	assert.Equal(t, CheckInTypeIn, NextCheckInType(nil))
	assert.Equal(t, CheckInTypeOut, NextCheckInType(&CheckIn{Type: CheckInTypeIn}))
	assert.Equal(t, CheckInTypeIn, NextCheckInType(&CheckIn{Type: CheckInTypeOut}))
}

func TestNextCheckInType_Alternates(t *testing.T) {
	var last *CheckIn
	want := []CheckInType{CheckInTypeIn, CheckInTypeOut, CheckInTypeIn, CheckInTypeOut}
	for i, w := range want {
		next := NextCheckInType(last)
		require.Equal(t, w, next, "step %d", i)
		last = &CheckIn{Type: next}
	}
}

func TestParsePetPayload(t *testing.T) {
	id, err := ParsePetPayload("  3f2a-pet \n")
	require.NoError(t, err)
	assert.Equal(t, "3f2a-pet", id)

	_, err = ParsePetPayload(" \t")
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	var none *Session
	assert.True(t, none.Expired(now))
	assert.False(t, (&Session{}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Hour)}).Expired(now))
}
