// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	StatusAvailable DonationStatus = "available"
	StatusClaimed   DonationStatus = "claimed"
	StatusPickedUp  DonationStatus = "picked_up"
	StatusExpired   DonationStatus = "expired"
	StatusCancelled DonationStatus = "cancelled"
)

// DefaultAddress is stored when a donor leaves the pickup address blank.
const DefaultAddress = "Not specified"

// Valid reports whether s is one of the known lifecycle states.
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusClaimed, StatusPickedUp, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s DonationStatus) Terminal() bool {
	return s == StatusPickedUp || s == StatusExpired || s == StatusCancelled
}

// Role is one of the three fixed user roles.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ParseRole returns the role named by s and false if s names no role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return r, true
	}
	return "", false
}

// Donation represents one offer of surplus food.
type Donation struct {
	ID         uuid.UUID      `json:"id"`          // Unique identifier for the donation.
	DonorID    uuid.UUID      `json:"donor"`       // Creator of the donation, immutable.
	FoodType   string         `json:"foodType"`    // Free text description of the food.
	Quantity   string         `json:"quantity"`    // Free text magnitude and unit, e.g. "5kg".
	ExpiryTime time.Time      `json:"expiryTime"`  // When the food stops being safe to hand out.
	Address    string         `json:"address"`     // Pickup address.
	ImageURL   string         `json:"imageUrl"`    // Optional image reference.
	Notes      string         `json:"notes"`       // Optional free text for the volunteer.
	Status     DonationStatus `json:"status"`      // Lifecycle state.
	ClaimedBy  *uuid.UUID     `json:"claimedBy"`   // Volunteer holding the claim, set iff claimed or picked up.
	ClaimedAt  *time.Time     `json:"claimedAt"`   // Timestamp of the claim.
	OTP        *string        `json:"otp"`         // Pickup code, present iff status is claimed.
	PickedUpAt *time.Time     `json:"pickedUpAt"`  // Timestamp of the verified handoff.
	CreatedAt  time.Time      `json:"createdAt"`   // Timestamp when the donation was posted.
}

// Clone returns a deep copy of the donation so callers never share the nullable fields.
func (d *Donation) Clone() *Donation {
	if d == nil {
		return nil
	}
	c := *d
	if d.ClaimedBy != nil {
		id := *d.ClaimedBy
		c.ClaimedBy = &id
	}
	if d.ClaimedAt != nil {
		t := *d.ClaimedAt
		c.ClaimedAt = &t
	}
	if d.OTP != nil {
		otp := *d.OTP
		c.OTP = &otp
	}
	if d.PickedUpAt != nil {
		t := *d.PickedUpAt
		c.PickedUpAt = &t
	}
	return &c
}

// DonationDetails holds the donor supplied part of a donation.
type DonationDetails struct {
	FoodType   string
	Quantity   string
	ExpiryTime time.Time
	Address    string
	ImageURL   string
	Notes      string
}

// User represents the data model for a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`        // Unique identifier for the user.
	Name      string    `json:"name"`      // Display name of the user.
	Email     string    `json:"email"`     // Lower-cased, unique email address.
	Password  string    `json:"-"`         // Password hash of the user.
	Role      Role      `json:"role"`      // Fixed role, immutable after creation.
	Contact   string    `json:"contact"`   // Optional phone number or similar.
	CreatedAt time.Time `json:"createdAt"` // Timestamp when the user was created.
}
