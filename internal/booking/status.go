package booking

import (
	"slices"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/auth"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted}

// ParseStatus returns ErrInvalidStatus for anything outside the closed set.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// party names who, besides an admin, may request a transition.
type party int

const (
	partyLandlord party = iota
	partyTenant
)

type rule struct {
	from []Status
	by   party
}

// transitions is keyed by target status. A target missing from the table
// (pending) can never be entered.
var transitions = map[Status]rule{
	StatusApproved:  {from: []Status{StatusPending}, by: partyLandlord},
	StatusRejected:  {from: []Status{StatusPending}, by: partyLandlord},
	StatusCancelled: {from: []Status{StatusPending, StatusApproved}, by: partyTenant},
	StatusCompleted: {from: []Status{StatusApproved}, by: partyLandlord},
}

// CanTransition reports whether from -> to is in the table, ignoring who asks.
func CanTransition(from, to Status) bool {
	r, ok := transitions[to]
	return ok && slices.Contains(r.from, from)
}

// CanRequest reports whether caller is allowed to move b into to.
func CanRequest(b *Booking, to Status, caller auth.Identity) bool {
	r, ok := transitions[to]
	if !ok {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	if caller.ID == "" {
		return false
	}
	switch r.by {
	case partyLandlord:
		return caller.ID == b.LandlordID
	case partyTenant:
		return caller.ID == b.TenantID
	default:
		return false
	}
}

// Transition moves b to the requested status. Checks run in order: the value
// must be a known status, the move must be legal from b's current status, and
// the caller must be allowed to make it. b is only modified on success.
func Transition(b *Booking, requested string, caller auth.Identity) error {
	to, err := ParseStatus(requested)
	if err != nil {
		return err
	}
	if !CanTransition(b.Status, to) {
		return ErrIllegalTransition
	}
	if !CanRequest(b, to, caller) {
		return ErrForbidden
	}
	b.Status = to
	return nil
}
