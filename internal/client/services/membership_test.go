package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

func TestMembershipService_Get(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		end        time.Time
		noSub      bool
		wantActive bool
		wantPlan   string
	}{
		{name: "no subscription", noSub: true, wantPlan: "No Plan"},
		{name: "active", status: "active", end: testNow.Add(24 * time.Hour), wantActive: true, wantPlan: "Monthly Membership"},
		{name: "active but lapsed", status: "active", end: testNow.Add(-time.Second), wantPlan: "Monthly Membership"},
		{name: "trialing", status: "trialing", end: testNow.Add(24 * time.Hour), wantPlan: "Monthly Membership"},
		{name: "canceled", status: "canceled", end: testNow.Add(24 * time.Hour), wantPlan: "Monthly Membership"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			if !tt.noSub {
				seedSubscription(st, "u1", tt.status, tt.end, 2)
			}
			svc := NewMembershipService(st, "https://p", "https://m", logging.Nop()).(*membershipService)
			svc.now = fixedNow

			m, err := svc.Get(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantActive, m.Active)
			assert.Equal(t, tt.wantPlan, m.Plan)
			if tt.noSub {
				assert.Nil(t, m.Subscription)
			} else {
				assert.Equal(t, tt.status, m.Subscription.Status)
			}
		})
	}
}

func TestMembershipService_Get_StoreError(t *testing.T) {
	st := &failingStore{MemoryStore: store.NewMemoryStore(), table: tableSubscription, err: errBoom}
	svc := NewMembershipService(st, "", "", logging.Nop())

	_, err := svc.Get(context.Background(), "u1")
	require.ErrorIs(t, err, errBoom)
}

func TestMembershipService_URLs(t *testing.T) {
	svc := NewMembershipService(store.NewMemoryStore(), "https://yard/pricing", "https://yard/manage", logging.Nop())
	assert.Equal(t, "https://yard/pricing", svc.PricingURL())
	assert.Equal(t, "https://yard/manage", svc.ManageURL())
}

func TestMembershipService_UnknownPlan(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(tableSubscription, store.Row{"userId": "u1", "priceId": "price_gone", "status": models.StatusActive})
	svc := NewMembershipService(st, "", "", logging.Nop())

	m, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Unknown Plan", m.Plan)
	assert.False(t, m.Active)
}
