// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Name is required and must be less than 60 characters
// Email is required and must be a valid email
// Password is required and must be at least 6 characters
// Role is required and must be donor, volunteer or admin
// Contact is optional
type RegistrationRequest struct {
	Name     string `json:"name" validate:"required,max=60"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72" sanitize:"-"`
	Role     string `json:"role" validate:"required,role_validation"`
	Contact  string `json:"contact" validate:"max=40"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required" sanitize:"-"`
}

// CreateDonationRequest is a struct that represents a create donation request
// FoodType and Quantity are required free text
// ExpiryTime is required and must be RFC 3339 or an HTML datetime-local value
// Address, ImageUrl and Notes are optional
type CreateDonationRequest struct {
	FoodType   string `json:"foodType" validate:"required,max=120"`
	Quantity   string `json:"quantity" validate:"required,max=60"`
	ExpiryTime string `json:"expiryTime" validate:"required,timestamp_validation"`
	Address    string `json:"address" validate:"max=256"`
	ImageUrl   string `json:"imageUrl" sanitize:"-"`
	Notes      string `json:"notes" validate:"max=512"`
}

// VerifyPickupRequest is a struct that represents an OTP verification request
// Otp is required; whether it matches is decided by the state machine
type VerifyPickupRequest struct {
	Otp string `json:"otp" validate:"required,max=16"`
}
