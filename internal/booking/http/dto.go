package http

import (
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/booking"
	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/request"
	userhttp "github.com/nekogravitycat/rental-marketplace-backend/internal/user/http"
)

const dateLayout = "2006-01-02"

// ListBookingsRequest defines query parameters for listing bookings.
// TenantID and LandlordID are only honoured for admins.
type ListBookingsRequest struct {
	request.ListParams
	View       string `form:"view" binding:"omitempty,oneof=tenant landlord all"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	LandlordID string `form:"landlord_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled completed"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=start_date created_at status"`
}

// ToFilter converts the query into a booking filter. Dates were validated by binding.
func (r *ListBookingsRequest) ToFilter() booking.Filter {
	f := booking.Filter{
		TenantID:   r.TenantID,
		LandlordID: r.LandlordID,
		PropertyID: r.PropertyID,
		Status:     r.Status,
		Page:       r.Page,
		PageSize:   r.PageSize,
		SortBy:     r.SortBy,
		SortOrder:  r.SortOrder,
	}
	if t, err := time.Parse(dateLayout, r.From); err == nil {
		f.From = &t
	}
	if t, err := time.Parse(dateLayout, r.To); err == nil {
		f.To = &t
	}
	return f
}

type CreateBookingBody struct {
	PropertyID string `json:"property_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests" binding:"required,min=1"`
}

type UpdateStatusBody struct {
	// Not restricted by binding so unknown values surface as invalid status.
	Status string `json:"status" binding:"required"`
}

type PropertyTag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type BookingResponse struct {
	ID         string           `json:"id"`
	Property   PropertyTag      `json:"property"`
	Tenant     userhttp.UserTag `json:"tenant"`
	Landlord   userhttp.UserTag `json:"landlord"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	Nights     int              `json:"nights"`
	Guests     int              `json:"guests"`
	TotalPrice float64          `json:"total_price"`
	Status     string           `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		Property:   PropertyTag{ID: b.PropertyID, Title: b.PropertyTitle},
		Tenant:     userhttp.UserTag{ID: b.TenantID, Name: b.TenantName},
		Landlord:   userhttp.UserTag{ID: b.LandlordID, Name: b.LandlordName},
		StartDate:  b.StartDate.Format(dateLayout),
		EndDate:    b.EndDate.Format(dateLayout),
		Nights:     b.Nights(),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
