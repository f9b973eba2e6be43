package models

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	BookingStatusPending       = "PENDING"
	BookingStatusRequestingAid = "REQUESTING_AID"
	BookingStatusApprovedAid   = "APPROVED_AID"
	BookingStatusConfirmed     = "CONFIRMED"
	BookingStatusCancelled     = "CANCELLED"
)

// bookingTransitions is the closed set of allowed status moves. CANCELLED is
// terminal.
var bookingTransitions = map[string][]string{
	BookingStatusPending:       {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusRequestingAid: {BookingStatusApprovedAid, BookingStatusCancelled},
	BookingStatusApprovedAid:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:     {BookingStatusCancelled},
	BookingStatusCancelled:     {},
}

func ValidBookingStatus(status string) bool {
	_, ok := bookingTransitions[status]
	return ok
}

func CanTransitionBooking(from, to string) bool {
	return slices.Contains(bookingTransitions[from], to)
}

type Booking struct {
	gorm.Model
	PGID        uint      `json:"pgID" gorm:"not null;index"`
	Username    string    `json:"username" gorm:"not null;index"` // user who booked
	BookingDate time.Time `json:"bookingDate" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null;index"`
	DonorID     *uint     `json:"donorID" gorm:"index"`
	// Amount covered by the donor, price * percentage / 100. Set and cleared
	// together with DonorID.
	DonorContribution *float64 `json:"donorContribution"`

	PG    *PG   `json:"pg,omitempty" gorm:"foreignKey:PGID"`
	Donor *User `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
}

// AttachDonor sets the donor and recomputes the contribution from the
// listing price, keeping the both-or-neither invariant.
func (b *Booking) AttachDonor(donor *User, price, percentage float64) {
	id := donor.ID
	contribution := price * percentage / 100
	b.DonorID = &id
	b.DonorContribution = &contribution
	b.Donor = donor
}
