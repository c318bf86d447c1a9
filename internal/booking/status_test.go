package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
)

var (
	tenant        = auth.Identity{ID: "tenant-1", Email: "tom@example.com", Role: auth.RoleTenant}
	landlord      = auth.Identity{ID: "landlord-1", Email: "lena@example.com", Role: auth.RoleLandlord}
	admin         = auth.Identity{ID: "admin-1", Email: "ada@example.com", Role: auth.RoleAdmin}
	stranger      = auth.Identity{ID: "tenant-2", Email: "sam@example.com", Role: auth.RoleTenant}
	otherLandlord = auth.Identity{ID: "landlord-2", Email: "omar@example.com", Role: auth.RoleLandlord}
)

func bookingIn(status Status) *Booking {
	return &Booking{
		ID:         "booking-1",
		PropertyID: "property-1",
		TenantID:   tenant.ID,
		LandlordID: landlord.ID,
		Status:     status,
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, s := range []string{"", "APPROVED", "confirmed", " pending", "done"} {
		_, err := ParseStatus(s)
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %q", s)
	}
}

func TestTransitionTable(t *testing.T) {
	legal := map[Status][]Status{
		StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved:  {StatusCancelled, StatusCompleted},
		StatusRejected:  nil,
		StatusCancelled: nil,
		StatusCompleted: nil,
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			want := false
			for _, l := range legal[from] {
				if l == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionPendingToApproved(t *testing.T) {
	tests := []struct {
		name   string
		caller auth.Identity
		want   error
	}{
		{"property landlord", landlord, nil},
		{"admin", admin, nil},
		{"booking tenant", tenant, ErrForbidden},
		{"other tenant", stranger, ErrForbidden},
		{"other landlord", otherLandlord, ErrForbidden},
		{"anonymous", auth.Identity{}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bookingIn(StatusPending)
			err := Transition(b, "approved", tt.caller)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, StatusApproved, b.Status)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, StatusPending, b.Status, "failed transition must not modify the booking")
		})
	}
}

func TestTransitionToRejectedGate(t *testing.T) {
	b := bookingIn(StatusPending)
	assert.ErrorIs(t, Transition(b, "rejected", tenant), ErrForbidden)

	require.NoError(t, Transition(b, "rejected", landlord))
	assert.Equal(t, StatusRejected, b.Status)
}

func TestTransitionCancelOnlyFromPendingOrApproved(t *testing.T) {
	for _, from := range []Status{StatusRejected, StatusCancelled, StatusCompleted} {
		for _, caller := range []auth.Identity{tenant, landlord, admin} {
			b := bookingIn(from)
			err := Transition(b, "cancelled", caller)
			assert.ErrorIs(t, err, ErrIllegalTransition, "%s by %s", from, caller.ID)
			assert.Equal(t, from, b.Status)
		}
	}
}

func TestTransitionCancelGate(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusApproved} {
		b := bookingIn(from)
		assert.ErrorIs(t, Transition(b, "cancelled", landlord), ErrForbidden, "landlord cannot cancel from %s", from)
		assert.ErrorIs(t, Transition(b, "cancelled", stranger), ErrForbidden)

		require.NoError(t, Transition(b, "cancelled", admin))
		assert.Equal(t, StatusCancelled, b.Status)
	}
}

func TestTransitionTenantCancelsPending(t *testing.T) {
	b := bookingIn(StatusPending)

	require.NoError(t, Transition(b, "cancelled", tenant))
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestTransitionApprovedToApprovedIsIllegal(t *testing.T) {
	b := bookingIn(StatusApproved)

	err := Transition(b, "approved", tenant)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, StatusApproved, b.Status)
}

func TestTransitionCompleted(t *testing.T) {
	b := bookingIn(StatusPending)
	assert.ErrorIs(t, Transition(b, "completed", landlord), ErrIllegalTransition)

	b = bookingIn(StatusApproved)
	assert.ErrorIs(t, Transition(b, "completed", tenant), ErrForbidden)
	require.NoError(t, Transition(b, "completed", landlord))
	assert.Equal(t, StatusCompleted, b.Status)
}

func TestTransitionNeverEntersPending(t *testing.T) {
	for _, from := range Statuses {
		b := bookingIn(from)
		assert.ErrorIs(t, Transition(b, "pending", admin), ErrIllegalTransition, "from %s", from)
	}
}

func TestTransitionCheckOrder(t *testing.T) {
	// An unknown value is reported before legality or permissions.
	b := bookingIn(StatusCompleted)
	assert.ErrorIs(t, Transition(b, "archived", stranger), ErrInvalidStatus)

	// Legality is reported before permissions.
	assert.ErrorIs(t, Transition(b, "approved", stranger), ErrIllegalTransition)
}
